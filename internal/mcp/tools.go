package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ganot/atelier/internal/domain/activity"
	"github.com/ganot/atelier/internal/domain/project"
	"github.com/ganot/atelier/internal/domain/selection"
	"github.com/ganot/atelier/internal/domain/session"
)

func registerTools(server *sdkmcp.Server, svc Services) {
	// Catalog
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List every project in catalog order (summaries only)",
	}, listProjectsHandler(svc.Projects))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_tags",
		Description: "List the tag chips: the all-tag first, then catalog tags in first-seen order",
	}, listTagsHandler(svc.Projects))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_project",
		Description: "Get a project's full details",
	}, getProjectHandler(svc.Projects))

	// Viewer session
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "filter_projects",
		Description: "Set the session's tag and query filter and return the visible projects",
	}, filterProjectsHandler(svc.Sessions))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_selection",
		Description: "Return the session's filter, visible projects and open project",
	}, getSelectionHandler(svc.Sessions))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "open_project",
		Description: "Open a project's detail view at its first image",
	}, openProjectHandler(svc.Sessions))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "close_project",
		Description: "Close the detail view",
	}, closeProjectHandler(svc.Sessions))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "navigate",
		Description: "Move the carousel one image forward (1) or backward (-1), wrapping at both ends",
	}, navigateHandler(svc.Sessions))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "jump_to",
		Description: "Show the carousel image at a zero-based index",
	}, jumpToHandler(svc.Sessions))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "press_key",
		Description: "Deliver a key (Escape, ArrowRight, ArrowLeft) to the detail view",
	}, pressKeyHandler(svc.Sessions))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_sessions",
		Description: "List open viewer sessions",
	}, listSessionsHandler(svc.Sessions))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "close_session",
		Description: "Close a viewer session",
	}, closeSessionHandler(svc.Sessions))

	// Activity
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_recent_activity",
		Description: "List recent viewer activity, newest first",
	}, getRecentActivityHandler(svc.Activity))
}

func listProjectsHandler(projects ProjectService) sdkmcp.ToolHandlerFor[ListProjectsParams, ListProjectsResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ ListProjectsParams) (*sdkmcp.CallToolResult, ListProjectsResult, error) {
		list, err := projects.List(ctx)
		if err != nil {
			return nil, ListProjectsResult{}, toolError(err)
		}
		summaries := make([]project.ProjectSummary, 0, len(list))
		for _, p := range list {
			summaries = append(summaries, project.Summarize(p))
		}
		return nil, ListProjectsResult{Projects: summaries}, nil
	}
}

func listTagsHandler(projects ProjectService) sdkmcp.ToolHandlerFor[ListTagsParams, ListTagsResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ ListTagsParams) (*sdkmcp.CallToolResult, ListTagsResult, error) {
		tags, err := projects.Tags(ctx)
		if err != nil {
			return nil, ListTagsResult{}, toolError(err)
		}
		return nil, ListTagsResult{AllTag: project.AllTag, Tags: tags}, nil
	}
}

func getProjectHandler(projects ProjectService) sdkmcp.ToolHandlerFor[GetProjectParams, GetProjectResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetProjectParams) (*sdkmcp.CallToolResult, GetProjectResult, error) {
		p, err := projects.Get(ctx, in.ID)
		if err != nil {
			return nil, GetProjectResult{}, toolError(err)
		}
		return nil, GetProjectResult{Project: *p, ReportAvailable: p.HasReport()}, nil
	}
}

func filterProjectsHandler(sessions SessionService) sdkmcp.ToolHandlerFor[FilterProjectsParams, session.View] {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, in FilterProjectsParams) (*sdkmcp.CallToolResult, session.View, error) {
		view, err := sessions.SetFilter(ctx, getTenantID(ctx), resolveSessionID(ctx, req, in.SessionID), in.Tag, in.Query)
		if err != nil {
			return nil, session.View{}, toolError(err)
		}
		return nil, *view, nil
	}
}

func getSelectionHandler(sessions SessionService) sdkmcp.ToolHandlerFor[SessionParams, session.View] {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, in SessionParams) (*sdkmcp.CallToolResult, session.View, error) {
		view, err := sessions.View(ctx, getTenantID(ctx), resolveSessionID(ctx, req, in.SessionID))
		if err != nil {
			return nil, session.View{}, toolError(err)
		}
		return nil, *view, nil
	}
}

func openProjectHandler(sessions SessionService) sdkmcp.ToolHandlerFor[OpenProjectParams, SelectionResult] {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, in OpenProjectParams) (*sdkmcp.CallToolResult, SelectionResult, error) {
		sel, sessionID, err := sessions.Open(ctx, getTenantID(ctx), resolveSessionID(ctx, req, in.SessionID), in.ID)
		if err != nil {
			return nil, SelectionResult{}, toolError(err)
		}
		return nil, selectionResult(sessionID, sel), nil
	}
}

func closeProjectHandler(sessions SessionService) sdkmcp.ToolHandlerFor[SessionParams, CloseProjectResult] {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, in SessionParams) (*sdkmcp.CallToolResult, CloseProjectResult, error) {
		sessionID, err := sessions.Close(ctx, getTenantID(ctx), resolveSessionID(ctx, req, in.SessionID))
		if err != nil {
			return nil, CloseProjectResult{}, toolError(err)
		}
		return nil, CloseProjectResult{SessionID: sessionID, Closed: true}, nil
	}
}

func navigateHandler(sessions SessionService) sdkmcp.ToolHandlerFor[NavigateParams, SelectionResult] {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, in NavigateParams) (*sdkmcp.CallToolResult, SelectionResult, error) {
		if in.Direction == 0 {
			return nil, SelectionResult{}, &APIError{Code: "INVALID_INPUT", Message: "direction must be 1 or -1"}
		}
		sel, sessionID, err := sessions.Navigate(ctx, getTenantID(ctx), resolveSessionID(ctx, req, in.SessionID), selection.Direction(in.Direction))
		if err != nil {
			return nil, SelectionResult{}, toolError(err)
		}
		return nil, selectionResult(sessionID, sel), nil
	}
}

func jumpToHandler(sessions SessionService) sdkmcp.ToolHandlerFor[JumpToParams, SelectionResult] {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, in JumpToParams) (*sdkmcp.CallToolResult, SelectionResult, error) {
		sel, sessionID, err := sessions.JumpTo(ctx, getTenantID(ctx), resolveSessionID(ctx, req, in.SessionID), in.Index)
		if err != nil {
			return nil, SelectionResult{}, toolError(err)
		}
		return nil, selectionResult(sessionID, sel), nil
	}
}

func pressKeyHandler(sessions SessionService) sdkmcp.ToolHandlerFor[PressKeyParams, session.KeyResult] {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, in PressKeyParams) (*sdkmcp.CallToolResult, session.KeyResult, error) {
		if in.Key == "" {
			return nil, session.KeyResult{}, &APIError{Code: "INVALID_INPUT", Message: "key is required"}
		}
		res, err := sessions.PressKey(ctx, getTenantID(ctx), resolveSessionID(ctx, req, in.SessionID), in.Key)
		if err != nil {
			return nil, session.KeyResult{}, toolError(err)
		}
		return nil, *res, nil
	}
}

func listSessionsHandler(sessions SessionService) sdkmcp.ToolHandlerFor[ListSessionsParams, ListSessionsResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ ListSessionsParams) (*sdkmcp.CallToolResult, ListSessionsResult, error) {
		list, err := sessions.ListActiveSessions(ctx, getTenantID(ctx))
		if err != nil {
			return nil, ListSessionsResult{}, toolError(err)
		}
		if list == nil {
			list = []session.SessionInfo{}
		}
		return nil, ListSessionsResult{Sessions: list}, nil
	}
}

func closeSessionHandler(sessions SessionService) sdkmcp.ToolHandlerFor[SessionParams, CloseSessionResult] {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, in SessionParams) (*sdkmcp.CallToolResult, CloseSessionResult, error) {
		sessionID := resolveSessionID(ctx, req, in.SessionID)
		if err := sessions.CloseSession(ctx, getTenantID(ctx), sessionID); err != nil {
			return nil, CloseSessionResult{}, toolError(err)
		}
		return nil, CloseSessionResult{SessionID: sessionID, Closed: true}, nil
	}
}

func getRecentActivityHandler(activities ActivityService) sdkmcp.ToolHandlerFor[GetRecentActivityParams, GetRecentActivityResult] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetRecentActivityParams) (*sdkmcp.CallToolResult, GetRecentActivityResult, error) {
		opts := activity.ListActivityOptions{Limit: in.Limit, Offset: in.Offset}
		if in.SessionID != "" {
			opts.SessionID = &in.SessionID
		}
		if in.ProjectID != "" {
			opts.ProjectID = &in.ProjectID
		}
		if in.ActivityType != "" {
			typ := activity.ActivityType(in.ActivityType)
			opts.ActivityType = &typ
		}
		entries, err := activities.GetRecentActivity(ctx, getTenantID(ctx), opts)
		if err != nil {
			return nil, GetRecentActivityResult{}, toolError(err)
		}
		return nil, GetRecentActivityResult{Entries: toActivityResponse(entries)}, nil
	}
}

func selectionResult(sessionID string, sel *session.SelectionView) SelectionResult {
	return SelectionResult{SessionID: sessionID, Open: sel != nil, Selection: sel}
}
