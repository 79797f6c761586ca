package functional_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/ganot/atelier/internal/testserver"
)

type selectionResult struct {
	SessionID string `json:"session_id"`
	Open      bool   `json:"open"`
	Selection *struct {
		Project struct {
			ID string `json:"id"`
		} `json:"project"`
		Index int    `json:"index"`
		Count int    `json:"count"`
		Image string `json:"image"`
	} `json:"selection"`
}

type viewResult struct {
	SessionID string   `json:"session_id"`
	Tag       string   `json:"tag"`
	Tags      []string `json:"tags"`
	Projects  []struct {
		ID string `json:"id"`
	} `json:"projects"`
}

// callTool calls a tool and returns the JSON text of a successful result.
func callTool(t *testing.T, session *sdkmcp.ClientSession, name string, args map[string]any) json.RawMessage {
	t.Helper()
	result := callToolRaw(t, session, name, args)
	require.False(t, result.IsError, "tool %s returned error: %s", name, firstText(result))
	return json.RawMessage(firstText(result))
}

func callToolRaw(t *testing.T, session *sdkmcp.ClientSession, name string, args map[string]any) *sdkmcp.CallToolResult {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if args == nil {
		args = map[string]any{}
	}
	result, err := session.CallTool(ctx, &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err, "CallTool %s failed", name)
	require.NotEmpty(t, result.Content, "tool %s returned no content", name)
	return result
}

func firstText(result *sdkmcp.CallToolResult) string {
	for _, content := range result.Content {
		if text, ok := content.(*sdkmcp.TextContent); ok {
			return text.Text
		}
	}
	return ""
}

func TestFunctional_Authentication(t *testing.T) {
	ts := testserver.New(t, "token", "tenant1")

	anonymous := ts.Connect(t, "")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := anonymous.CallTool(ctx, &sdkmcp.CallToolParams{Name: "list_projects", Arguments: map[string]any{}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unauthorized")

	authorized := ts.Connect(t, ts.Token)
	var projects struct {
		Projects []json.RawMessage `json:"projects"`
	}
	require.NoError(t, json.Unmarshal(callTool(t, authorized, "list_projects", nil), &projects))
	require.Len(t, projects.Projects, 3)
}

func TestFunctional_RESTRequiresToken(t *testing.T) {
	ts := testserver.New(t, "token", "tenant1")

	resp, err := http.Get(ts.Server.URL + "/api/tags")
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, err := http.NewRequest(http.MethodGet, ts.Server.URL+"/api/tags", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+ts.Token)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.Server.URL + "/health")
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestFunctional_FilterAndCarousel(t *testing.T) {
	ts := testserver.New(t, "token", "tenant1")
	session := ts.Connect(t, ts.Token)

	var view viewResult
	require.NoError(t, json.Unmarshal(callTool(t, session, "filter_projects", map[string]any{"tag": "공공"}), &view))
	require.Equal(t, "공공", view.Tag)
	require.Len(t, view.Projects, 1)
	require.Equal(t, "river-pavilion", view.Projects[0].ID)

	var opened selectionResult
	require.NoError(t, json.Unmarshal(callTool(t, session, "open_project", map[string]any{"id": "seongbuk-house"}), &opened))
	require.True(t, opened.Open)
	require.Equal(t, 0, opened.Selection.Index)
	require.Equal(t, 3, opened.Selection.Count)

	var back selectionResult
	require.NoError(t, json.Unmarshal(callTool(t, session, "press_key", map[string]any{"key": "ArrowLeft"}), &back))
	require.Equal(t, 2, back.Selection.Index)
	require.Equal(t, "/images/seongbuk/03.jpg", back.Selection.Image)

	var jumped selectionResult
	require.NoError(t, json.Unmarshal(callTool(t, session, "jump_to", map[string]any{"index": 1}), &jumped))
	require.Equal(t, 1, jumped.Selection.Index)

	outOfRange := callToolRaw(t, session, "jump_to", map[string]any{"index": 9})
	require.True(t, outOfRange.IsError)
	require.Contains(t, firstText(outOfRange), "INDEX_OUT_OF_RANGE")

	var closed selectionResult
	require.NoError(t, json.Unmarshal(callTool(t, session, "press_key", map[string]any{"key": "Escape"}), &closed))
	require.Nil(t, closed.Selection)

	// Navigation with nothing open is a no-op, not an error.
	var idle selectionResult
	require.NoError(t, json.Unmarshal(callTool(t, session, "navigate", map[string]any{"direction": 1}), &idle))
	require.False(t, idle.Open)
}

func TestFunctional_ActivityAndSessions(t *testing.T) {
	ts := testserver.New(t, "token", "tenant1")
	session := ts.Connect(t, ts.Token)

	_ = callTool(t, session, "open_project", map[string]any{"id": "market-commons", "session_id": "review"})
	_ = callTool(t, session, "navigate", map[string]any{"direction": 1, "session_id": "review"})

	var activity struct {
		Entries []struct {
			ActivityType string `json:"activity_type"`
		} `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(callTool(t, session, "get_recent_activity", map[string]any{"session_id": "review"}), &activity))
	types := make([]string, 0, len(activity.Entries))
	for _, entry := range activity.Entries {
		types = append(types, entry.ActivityType)
	}
	require.Equal(t, []string{"carousel_moved", "project_opened", "session_started"}, types)

	var sessions struct {
		Sessions []struct {
			SessionID string `json:"session_id"`
		} `json:"sessions"`
	}
	require.NoError(t, json.Unmarshal(callTool(t, session, "list_sessions", nil), &sessions))
	require.Len(t, sessions.Sessions, 1)
	require.Equal(t, "review", sessions.Sessions[0].SessionID)

	_ = callTool(t, session, "close_session", map[string]any{"session_id": "review"})
	closed := callToolRaw(t, session, "open_project", map[string]any{"id": "market-commons", "session_id": "review"})
	require.True(t, closed.IsError)
	require.Contains(t, firstText(closed), "SESSION_CLOSED")
}

func TestFunctional_TenantIsolation(t *testing.T) {
	ts := testserver.New(t, "token", "tenant1")
	require.NoError(t, ts.AddAPIKey("other", "tenant2"))

	first := ts.Connect(t, ts.Token)
	second := ts.Connect(t, "other")

	_ = callTool(t, first, "open_project", map[string]any{"id": "river-pavilion", "session_id": "shared"})

	var view struct {
		Selection *json.RawMessage `json:"selection"`
	}
	require.NoError(t, json.Unmarshal(callTool(t, second, "get_selection", map[string]any{"session_id": "shared"}), &view))
	require.Nil(t, view.Selection)
}

func TestFunctional_MCPProtocolCompliance(t *testing.T) {
	ts := testserver.New(t, "token", "tenant1")
	session := ts.Connect(t, ts.Token)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tools, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	names := make(map[string]*sdkmcp.Tool, len(tools.Tools))
	for _, tool := range tools.Tools {
		names[tool.Name] = tool
	}
	for _, name := range []string{"list_projects", "filter_projects", "open_project", "navigate", "press_key"} {
		require.Contains(t, names, name)
		require.NotEmpty(t, names[name].Description)
		require.NotNil(t, names[name].InputSchema)
	}

	resources, err := session.ListResources(ctx, nil)
	require.NoError(t, err)
	require.NotEmpty(t, resources.Resources)
}
