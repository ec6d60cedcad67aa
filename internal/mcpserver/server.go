// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes packapp tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/packapp/internal/codec"
	"github.com/starford/packapp/internal/packing"
	"github.com/starford/packapp/internal/shelf"
	"github.com/starford/packapp/internal/templates"
)

const formatURI = "packapp://document-format"

// Server wraps the MCP server with packapp tools.
type Server struct {
	mcp *server.MCPServer
	svc *shelf.Service
}

// New creates a new MCP server with all packapp tools registered.
func New(svc *shelf.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"packapp",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_lists",
		mcp.WithDescription("List saved packing lists with their progress."),
		mcp.WithNumber("limit", mcp.Description("Page size (default 50)"), mcp.Min(0)),
		mcp.WithNumber("offset", mcp.Description("Page offset"), mcp.Min(0)),
		mcp.WithString("sort", mcp.Description("Sort order"), mcp.Enum("updated_at", "name", "progress")),
	), s.listLists)

	s.mcp.AddTool(mcp.NewTool("read_list",
		mcp.WithDescription("Read a saved packing list, or decode an encoded URL state, "+
			"including the packed state and progress of every node."),
		mcp.WithString("slug", mcp.Description("Slug of a saved list")),
		mcp.WithString("state", mcp.Description("Encoded document from a /list/<state> location")),
	), s.readList)

	s.mcp.AddTool(mcp.NewTool("create_list",
		mcp.WithDescription("Save a new packing list, starting empty, from a template or from an encoded state. "+
			"Use list_templates to see available templates."),
		mcp.WithString("name", mcp.Description("Display name")),
		mcp.WithString("template", mcp.Description("Template id, e.g. weekend-trip")),
		mcp.WithString("state", mcp.Description("Encoded document to save")),
		mcp.WithString("slug", mcp.Description("Explicit slug; derived from the name when omitted")),
	), s.createList)

	s.mcp.AddTool(mcp.NewTool("list_templates",
		mcp.WithDescription("List the seed templates new lists can start from."),
	), s.listTemplates)

	s.mcp.AddTool(mcp.NewTool("apply_operation",
		mcp.WithDescription("Apply one mutation to a saved list (slug) or to an encoded state. "+
			"Read the contract via get_document_contract for the fields each op needs."),
		mcp.WithString("slug", mcp.Description("Saved list to modify")),
		mcp.WithString("state", mcp.Description("Encoded document to modify; the new state is returned")),
		mcp.WithString("op", mcp.Required(), mcp.Enum(
			string(packing.OpToggle), string(packing.OpMarkAll), string(packing.OpInsert),
			string(packing.OpInsertAdjacent), string(packing.OpRename), string(packing.OpDelete), string(packing.OpMove),
		)),
		mcp.WithString("id", mcp.Description("Target node id")),
		mcp.WithString("parent_id", mcp.Description("Parent list for insert (default root)")),
		mcp.WithString("anchor_id", mcp.Description("Sibling for insert_adjacent")),
		mcp.WithString("position", mcp.Enum(string(packing.Above), string(packing.Below))),
		mcp.WithString("kind", mcp.Enum(string(packing.KindItem), string(packing.KindList))),
		mcp.WithString("name", mcp.Description("Name for insert or rename")),
		mcp.WithBoolean("packed", mcp.Description("Target state for mark_all; omit to invert")),
		mcp.WithNumber("index", mcp.Description("Target index for move")),
	), s.applyOperation)

	s.mcp.AddTool(mcp.NewTool("search_lists",
		mcp.WithDescription("Search saved lists by list name or item name."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchLists)

	s.mcp.AddTool(mcp.NewTool("encode_list",
		mcp.WithDescription("Return the shareable /list/<state> location of a saved list or of a document given as JSON."),
		mcp.WithString("slug", mcp.Description("Saved list to share")),
		mcp.WithString("document", mcp.Description("Document JSON following the format contract")),
	), s.encodeList)

	s.mcp.AddTool(mcp.NewTool("get_document_contract",
		mcp.WithDescription("Returns the packing-list document format contract. "+
			"Call this before creating or changing lists to ensure correct structure."),
	), s.getDocumentContract)

	s.mcp.AddResource(
		mcp.NewResource(formatURI, "Document Format Contract",
			mcp.WithResourceDescription("JSON format of packing-list documents and the available operations."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listLists(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	lists, total, err := s.svc.List(ctx, req.GetInt("limit", 0), req.GetInt("offset", 0), req.GetString("sort", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{"lists": lists, "total": total})
}

func (s *Server) readList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if slug := req.GetString("slug", ""); slug != "" {
		d, err := s.svc.Get(ctx, slug)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(d)
	}
	state := req.GetString("state", "")
	if state == "" {
		return mcp.NewToolResultError("either slug or state is required"), nil
	}
	// Unlike the HTTP view, a broken state is an error here rather than a fallback.
	doc, err := codec.Decode(state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(shelf.View(doc))
}

func (s *Server) createList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var in shelf.CreateInput
	if err := req.BindArguments(&in); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	d, err := s.svc.Create(ctx, in)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s\nlocation: %s", d.Slug, d.Location)), nil
}

func (s *Server) listTemplates(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(templates.List())
}

func (s *Server) applyOperation(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var op packing.Operation
	if err := req.BindArguments(&op); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if slug := req.GetString("slug", ""); slug != "" {
		d, out, err := s.svc.Apply(ctx, slug, op, "")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(map[string]any{"node_id": out.NodeID, "packed": out.Packed, "progress": d.View.Progress, "location": d.Location})
	}
	state := req.GetString("state", "")
	if state == "" {
		return mcp.NewToolResultError("either slug or state is required"), nil
	}
	v, out, err := s.svc.ApplyState(ctx, state, op)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{"node_id": out.NodeID, "packed": out.Packed, "progress": v.View.Progress, "state": v.State, "location": v.Location})
}

func (s *Server) searchLists(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	hits, err := s.svc.Search(ctx, query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(hits)
}

func (s *Server) encodeList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if slug := req.GetString("slug", ""); slug != "" {
		loc, err := s.svc.Share(ctx, slug)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(loc), nil
	}
	raw := req.GetString("document", "")
	if raw == "" {
		return mcp.NewToolResultError("either slug or document is required"), nil
	}
	doc, err := codec.Unmarshal([]byte(raw))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	loc, err := s.svc.Location(doc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(loc), nil
}

func (s *Server) getDocumentContract(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(DocumentFormatContract), nil
}

func (s *Server) readFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      formatURI,
			MIMEType: "text/markdown",
			Text:     DocumentFormatContract,
		},
	}, nil
}
