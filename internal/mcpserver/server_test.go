package mcpserver

import (
	"context"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/legends/api"
	"github.com/agentic-research/legends/internal/graph"
	"github.com/agentic-research/legends/internal/ingest"
	"github.com/agentic-research/legends/internal/page"
)

const worldXML = `<?xml version="1.0" encoding="UTF-8"?>
<df_world>
<sites>
	<site><id>0</id><type>fortress</type><name>boatmurdered</name><coords>12,34</coords></site>
</sites>
<historical_figures>
	<historical_figure><id>100</id><name>urist</name><race>dwarf</race><caste>female</caste></historical_figure>
</historical_figures>
<historical_events>
	<historical_event><id>200</id><year>1</year><type>hf died</type><hfid>100</hfid><site_id>0</site_id></historical_event>
</historical_events>
</df_world>`

type handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "world.xml", []byte(worldXML), 0o644))

	engine := ingest.NewEngine(api.DefaultConfig(), zerolog.Nop(), nil)
	return New(graph.NewHotSwap(nil), engine, fs, page.Theme{Title: "Legends Reader"}, zerolog.Nop(), "test")
}

func call(t *testing.T, h handler, args map[string]any) (string, bool) {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	res, err := h(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return tc.Text, res.IsError
}

func load(t *testing.T, s *Server) {
	t.Helper()
	out, isErr := call(t, s.loadWorld, map[string]any{"path": "world.xml"})
	require.False(t, isErr, out)
}

func TestServer_NotLoaded(t *testing.T) {
	s := newTestServer(t)

	out, isErr := call(t, s.getRecord, map[string]any{"category": "sites", "id": float64(0)})
	assert.True(t, isErr)
	assert.Contains(t, out, "load_world")

	out, isErr = call(t, s.renderPage, map[string]any{"address": "spl"})
	assert.False(t, isErr)
	assert.Contains(t, out, "Welcome!")
}

func TestServer_LoadWorld(t *testing.T) {
	s := newTestServer(t)

	out, isErr := call(t, s.loadWorld, map[string]any{"path": "world.xml"})
	require.False(t, isErr, out)
	assert.Contains(t, out, "historical_figures: 1 records from id 100")
	assert.True(t, s.world.Loaded())

	out, isErr = call(t, s.loadWorld, map[string]any{"path": "missing.xml"})
	assert.True(t, isErr)
	assert.NotEmpty(t, out)
	assert.True(t, s.world.Loaded(), "a failed load keeps the previous world")

	_, isErr = call(t, s.loadWorld, map[string]any{})
	assert.True(t, isErr)
}

func TestServer_GetRecord(t *testing.T) {
	s := newTestServer(t)
	load(t, s)

	out, isErr := call(t, s.getRecord, map[string]any{"category": "historical_figures", "id": float64(100)})
	require.False(t, isErr, out)
	assert.Contains(t, out, `"race"`)
	assert.Contains(t, out, `"dwarf"`)
	assert.Contains(t, out, `200`)

	out, isErr = call(t, s.getRecord, map[string]any{"category": "historical_figures", "id": float64(7)})
	assert.True(t, isErr)
	assert.Contains(t, out, graph.ErrIDOutOfRange.Error())

	out, isErr = call(t, s.getRecord, map[string]any{"category": "artifacts", "id": float64(0)})
	assert.True(t, isErr)
	assert.Contains(t, out, graph.ErrCategoryMissing.Error())
}

func TestServer_Names(t *testing.T) {
	s := newTestServer(t)
	load(t, s)

	out, isErr := call(t, s.displayName, map[string]any{"category": "sites", "id": float64(0)})
	require.False(t, isErr, out)
	assert.Equal(t, "Boatmurdered", out)

	out, isErr = call(t, s.findByName, map[string]any{"name": "URIST"})
	require.False(t, isErr, out)
	assert.Equal(t, "historical_figures/100 hif0000100", out)

	out, isErr = call(t, s.findByName, map[string]any{"name": "nonexistent person"})
	assert.False(t, isErr)
	assert.Equal(t, "not found", out)
}

func TestServer_RenderAndQuery(t *testing.T) {
	s := newTestServer(t)
	load(t, s)

	out, isErr := call(t, s.renderPage, map[string]any{"address": "hif0000100"})
	require.False(t, isErr, out)
	assert.Contains(t, out, `<h1 class="page-title">Urist</h1>`)
	assert.Contains(t, out, `href="evt0000200"`)

	out, isErr = call(t, s.renderPage, map[string]any{"address": "bogus"})
	assert.True(t, isErr)
	assert.Contains(t, out, page.ErrUnknownCode.Error())

	out, isErr = call(t, s.query, map[string]any{"path": "$.sites[*].name"})
	require.False(t, isErr, out)
	assert.Contains(t, out, `"boatmurdered"`)

	_, isErr = call(t, s.query, map[string]any{"path": "$["})
	assert.True(t, isErr)
}
