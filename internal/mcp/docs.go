package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `atelier serves an architecture portfolio: a fixed catalog of Projects you can filter, open and page through.

Core concepts:
- Project: id, title, year, type, cover, images[], description, area, role, optional report, tags[].
- Tag universe: the "all" sentinel ("전체") followed by every catalog tag in first-seen order, capped.
- Filter: tag (exact, case-sensitive; "전체" or empty = all) AND query (case-insensitive substring of title, description, type and tags).
- Session: your viewer state; remembers the filter, the open project and the carousel index.

Default workflow:
1) list_tags, then filter_projects(tag, query) to browse.
2) open_project(id) shows the detail view at image 0.
3) navigate(direction) wraps around at both ends; jump_to(index) shows a specific image.
4) press_key(key) replays Escape / ArrowRight / ArrowLeft; keys only act while a project is open.
5) close_project when done; get_selection shows what is open.

Transport notes:
- HTTP: pass session id via Mcp-Session-Id header.
- Stdio: pass session id via _meta.session_id, or session_id arguments.

Docs:
- atelier://docs/index
- atelier://docs/viewer
- atelier://catalog (full catalog as JSON)
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "atelier://docs/index",
		Name:        "docs_index",
		Title:       "atelier docs index",
		Description: "Entry point: tools, resources and where to read more.",
		Content: `# atelier: Agent Docs Index

## Quick start

1. ` + "`list_tags`" + ` to see the tag chips.
2. ` + "`filter_projects`" + ` with a tag and/or query.
3. ` + "`open_project`" + ` to open the detail view.
4. ` + "`navigate`" + ` / ` + "`jump_to`" + ` / ` + "`press_key`" + ` to page images.
5. ` + "`close_project`" + ` to dismiss.

## Resources

- ` + "`atelier://docs/viewer`" + `: detail view rules (wraparound, keys, report link).
- ` + "`atelier://catalog`" + `: the catalog as JSON.

## Limitations

- The catalog is read-only; it is loaded once at server start.
- Image and report references are opaque paths; nothing is fetched.
`,
	},
	{
		URI:         "atelier://docs/viewer",
		Name:        "docs_viewer",
		Title:       "Detail view rules",
		Description: "How the carousel and keyboard bindings behave.",
		Content: `# Detail view

- Opening a project always starts at image 0.
- navigate(+1) on the last image wraps to 0; navigate(-1) on image 0 wraps to the last image.
- jump_to(index) requires 0 <= index < image count.
- With nothing open, navigate and jump_to change nothing.

## Keys

| Key | Effect |
|---|---|
| Escape | close the detail view |
| ArrowRight | next image |
| ArrowLeft | previous image |

Other keys, and any key while nothing is open, are ignored (` + "`handled: false`" + `).

## Report

` + "`report_available: false`" + ` means the project has no report; render the link disabled.
`,
	},
}

const catalogURI = "atelier://catalog"

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}

func registerCatalogResource(server *sdkmcp.Server, projects ProjectService) {
	server.AddResource(&sdkmcp.Resource{
		URI:         catalogURI,
		Name:        "catalog",
		Title:       "Project catalog",
		Description: "Every project in catalog order, as JSON.",
		MIMEType:    "application/json",
	}, func(ctx context.Context, _ *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
		list, err := projects.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list projects: %w", err)
		}
		data, err := json.MarshalIndent(CatalogPayload{Projects: list}, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal catalog: %w", err)
		}
		return &sdkmcp.ReadResourceResult{
			Contents: []*sdkmcp.ResourceContents{{
				URI:      catalogURI,
				MIMEType: "application/json",
				Text:     string(data),
			}},
		}, nil
	})
}
