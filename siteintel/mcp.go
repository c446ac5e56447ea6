package siteintel

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/siteintel/kit"
	"github.com/hazyhaar/siteintel/profile"
)

// RegisterMCP registers all siteintel tools on an MCP server.
func (svc *Service) RegisterMCP(srv *mcp.Server) {
	svc.registerScrape(srv)
	svc.registerGetProfile(srv)
	svc.registerPreviewMerge(srv)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func (svc *Service) registerScrape(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "siteintel_scrape",
		Description: "Scrape a business website and merge the extracted profile into the owner's stored record",
		InputSchema: inputSchema(map[string]any{
			"owner_id": map[string]any{"type": "string", "description": "Business owner ID"},
			"url":      map[string]any{"type": "string", "description": "Website URL to scrape"},
			"mode":     map[string]any{"type": "string", "description": "Extraction depth: flat, deepdive, forensic"},
		}, []string{"owner_id", "url"}),
	}

	endpoint := func(ctx context.Context, r any) (any, error) {
		return svc.ScrapeBusinessWebsite(ctx, *r.(*ScrapeRequest))
	}

	decode := func(r *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var p ScrapeRequest
		if err := json.Unmarshal(r.Params.Arguments, &p); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &p}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

func (svc *Service) registerGetProfile(srv *mcp.Server) {
	type req struct {
		OwnerID string `json:"owner_id"`
	}

	tool := &mcp.Tool{
		Name:        "siteintel_get_profile",
		Description: "Fetch the stored business profile for an owner",
		InputSchema: inputSchema(map[string]any{
			"owner_id": map[string]any{"type": "string", "description": "Business owner ID"},
		}, []string{"owner_id"}),
	}

	endpoint := func(ctx context.Context, r any) (any, error) {
		return svc.GetProfile(ctx, r.(*req).OwnerID)
	}

	decode := func(r *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var p req
		if err := json.Unmarshal(r.Params.Arguments, &p); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &p}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

func (svc *Service) registerPreviewMerge(srv *mcp.Server) {
	type req struct {
		OwnerID string                   `json:"owner_id"`
		Profile profile.ExtractedProfile `json:"profile"`
	}

	tool := &mcp.Tool{
		Name:        "siteintel_preview_merge",
		Description: "Show what an owner's stored profile would become after merging the given extraction, without persisting",
		InputSchema: inputSchema(map[string]any{
			"owner_id": map[string]any{"type": "string", "description": "Business owner ID"},
			"profile":  map[string]any{"type": "object", "description": "Extracted profile to merge"},
		}, []string{"owner_id", "profile"}),
	}

	endpoint := func(ctx context.Context, r any) (any, error) {
		p := r.(*req)
		return svc.PreviewMerge(ctx, p.OwnerID, &p.Profile)
	}

	decode := func(r *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var p req
		if err := json.Unmarshal(r.Params.Arguments, &p); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &p}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}
