// Package mcpserver exposes the lookup and rendering operations of a loaded
// world as Model Context Protocol tools.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ohler55/ojg"
	"github.com/ohler55/ojg/oj"
	"github.com/rs/zerolog"

	"github.com/agentic-research/legends/internal/graph"
	"github.com/agentic-research/legends/internal/ingest"
	"github.com/agentic-research/legends/internal/page"
)

var errNotLoaded = errors.New("no world loaded; call load_world first")

var jsonOpts = &ojg.Options{Sort: true, Indent: 2}

// Server answers tool calls against the world held in a HotSwap. Loading a
// new document replaces the world for subsequent calls.
type Server struct {
	world  *graph.HotSwap
	engine *ingest.Engine
	fsys   billy.Filesystem
	theme  page.Theme
	log    zerolog.Logger

	mcp *server.MCPServer
}

// New builds the server and registers its tools. Documents passed to
// load_world are opened on fsys.
func New(world *graph.HotSwap, engine *ingest.Engine, fsys billy.Filesystem, theme page.Theme, log zerolog.Logger, version string) *Server {
	s := &Server{
		world:  world,
		engine: engine,
		fsys:   fsys,
		theme:  theme,
		log:    log,
		mcp:    server.NewMCPServer("legends", version, server.WithToolCapabilities(false)),
	}

	s.mcp.AddTool(mcp.NewTool("load_world",
		mcp.WithDescription("Import a legends XML export, replacing the loaded world"),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path of the XML document")),
	), s.loadWorld)

	s.mcp.AddTool(mcp.NewTool("get_record",
		mcp.WithDescription("Return one record as JSON: its fields, links and the events mentioning it"),
		mcp.WithString("category", mcp.Required(), mcp.Description("Category, e.g. historical_figures")),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Record identifier")),
	), s.getRecord)

	s.mcp.AddTool(mcp.NewTool("display_name",
		mcp.WithDescription("Return the capitalized name of a record"),
		mcp.WithString("category", mcp.Required()),
		mcp.WithNumber("id", mcp.Required()),
	), s.displayName)

	s.mcp.AddTool(mcp.NewTool("find_by_name",
		mcp.WithDescription("Find a record by its exact name, ignoring case"),
		mcp.WithString("name", mcp.Required()),
	), s.findByName)

	s.mcp.AddTool(mcp.NewTool("render_page",
		mcp.WithDescription("Render the HTML page at a link address such as hif0005764"),
		mcp.WithString("address", mcp.Required()),
	), s.renderPage)

	s.mcp.AddTool(mcp.NewTool("query",
		mcp.WithDescription("Evaluate a JSONPath expression over the world, e.g. $.sites[?(@.type == 'fortress')].name"),
		mcp.WithString("path", mcp.Required()),
	), s.query)

	return s
}

// MCP returns the underlying protocol server.
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

// ServeStdio serves tool calls on standard input and output until EOF.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) store() (*graph.Store, error) {
	store := s.world.Current()
	if store == nil {
		return nil, errNotLoaded
	}
	return store, nil
}

func (s *Server) loadWorld(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	store, err := s.engine.IngestFile(s.fsys, path)
	if err != nil {
		s.log.Error().Err(err).Str("file", path).Msg("load failed")
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.world.Swap(store)

	var b strings.Builder
	fmt.Fprintf(&b, "loaded %s\n", path)
	for _, c := range store.Categories() {
		off, _ := store.Offset(c)
		fmt.Fprintf(&b, "%s: %d records from id %d\n", c, store.Len(c), off)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) getRecord(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rec, err := s.record(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(oj.JSON(rec.Generic(), jsonOpts)), nil
}

func (s *Server) displayName(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rec, err := s.record(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := rec.DisplayName()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(name), nil
}

func (s *Server) record(req mcp.CallToolRequest) (*graph.Record, error) {
	store, err := s.store()
	if err != nil {
		return nil, err
	}
	category, err := req.RequireString("category")
	if err != nil {
		return nil, err
	}
	id, err := req.RequireInt("id")
	if err != nil {
		return nil, err
	}
	return store.Get(category, id)
}

func (s *Server) findByName(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	store, err := s.store()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ref, ok := store.FindByName(name)
	if !ok {
		return mcp.NewToolResultText(ref.String()), nil
	}
	addr, err := page.FormatAddress(ref.Category, ref.ID)
	if err != nil {
		return mcp.NewToolResultText(ref.String()), nil
	}
	return mcp.NewToolResultText(ref.String() + " " + addr), nil
}

func (s *Server) renderPage(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	address, err := req.RequireString("address")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	store := s.world.Current()
	if store == nil {
		store = graph.NewStore()
	}
	html, err := page.NewRenderer(store, s.theme).Render(address)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(html), nil
}

func (s *Server) query(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	store, err := s.store()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := store.Query(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(oj.JSON(results, jsonOpts)), nil
}
