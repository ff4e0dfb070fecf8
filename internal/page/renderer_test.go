package page

import (
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/legends/api"
	"github.com/agentic-research/legends/internal/graph"
)

func testStore() *graph.Store {
	store := graph.NewStore()

	urist := graph.NewRecord(graph.FiguresCategory)
	urist.SetID(100)
	urist.Set("name", graph.TextValue("urist mcamphibianman"))
	urist.Set("race", graph.TextValue("amphibian man"))
	urist.Set("caste", graph.TextValue("female"))
	urist.Set("birth_year", graph.IntValue(1257))
	urist.Set("birth_seconds72", graph.IntValue(1200))
	urist.HFLinks = []graph.Link{{Type: "mother", ID: 101}, {Type: "deity", ID: 999}}
	urist.EntityLinks = []graph.Link{{Type: "member", ID: 0, Strength: graph.Some(40)}}
	urist.Events = []int{200}

	kadol := graph.NewRecord(graph.FiguresCategory)
	kadol.SetID(101)
	kadol.Set("name", graph.TextValue("kadol"))
	kadol.Set("race", graph.TextValue("dwarf"))
	kadol.Set("caste", graph.TextValue("male"))
	store.PutCategory(graph.FiguresCategory, 100, []*graph.Record{urist, kadol})

	site := graph.NewRecord(graph.SitesCategory)
	site.SetID(0)
	site.Set("type", graph.TextValue("fortress"))
	site.Set("name", graph.TextValue("boatmurdered"))
	site.Set("coords", graph.TextValue("12,34"))
	site.Events = []int{200}
	store.PutCategory(graph.SitesCategory, 0, []*graph.Record{site})

	guild := graph.NewRecord(graph.EntitiesCategory)
	guild.SetID(0)
	guild.Set("name", graph.TextValue("the guilds of iron"))
	store.PutCategory(graph.EntitiesCategory, 0, []*graph.Record{guild})

	ev := graph.NewRecord(graph.EventsCategory)
	ev.SetID(200)
	ev.Set("year", graph.IntValue(1257))
	ev.Set("seconds72", graph.IntValue(0))
	ev.Set("type", graph.TextValue("hf died"))
	ev.Set("hfid", graph.IntValue(100))
	ev.Set("site_id", graph.IntValue(0))
	store.PutCategory(graph.EventsCategory, 200, []*graph.Record{ev})

	return store
}

func newTestRenderer() *Renderer {
	return NewRenderer(testStore(), Theme{Title: "Legends Reader"})
}

func TestRenderer_FigurePage(t *testing.T) {
	html, err := newTestRenderer().Render("hif0000100")
	require.NoError(t, err)

	for _, want := range []string{
		`<title>Urist Mcamphibianman | Legends Reader</title>`,
		`<h1 class="page-title">Urist Mcamphibianman</h1>`,
		`<h3 class="page-description">Female Amphibian Man</h3>`,
		`<b class="hf-name-occurence">Urist Mcamphibianman</b> was born on the 2nd of Granite in the Year 1257.`,
		`<p>Mother : <a href="hif0000101">Kadol</a></p>`,
		`<p>Deity : <a href="hif0000999">hif0000999</a></p>`,
		`<p class="hf-died"><a href="evt0000200">In the Year 1257, on the 1st of Granite: Hf Died</a></p>`,
		`<div class="memberships">`,
		`<a href="ent0000000">The Guilds of Iron</a>`,
	} {
		assert.Contains(t, html, want)
	}
	assert.NotContains(t, html, "<style")
}

func TestRenderer_FigureWithoutBirth(t *testing.T) {
	html, err := newTestRenderer().RenderRecord(graph.FiguresCategory, 101)
	require.NoError(t, err)

	assert.Contains(t, html, `<h3 class="page-description">Male Dwarf</h3>`)
	assert.Contains(t, html, "Kadol</b> was born at the beginning of the world.")
	assert.NotContains(t, html, `class="memberships"`)
}

func TestRenderer_SitePage(t *testing.T) {
	html, err := newTestRenderer().Render("sit0000000")
	require.NoError(t, err)

	assert.Contains(t, html, `<h1 class="page-title">Boatmurdered</h1>`)
	assert.Contains(t, html, `<h3 class="page-description">Fortress at Coords: 12,34</h3>`)
	assert.Contains(t, html, `<a href="evt0000200">`)
}

func TestRenderer_GenericPage(t *testing.T) {
	html, err := newTestRenderer().Render("evt0000200")
	require.NoError(t, err)

	assert.Contains(t, html, `<h1 class="page-title">Hf Died</h1>`)
	assert.Contains(t, html, `<tr><th>year</th><td>1257</td></tr>`)
	assert.Contains(t, html, `<tr><th>hfid</th><td><a href="hif0000100">Urist Mcamphibianman</a></td></tr>`)
	assert.Contains(t, html, `<tr><th>site_id</th><td><a href="sit0000000">Boatmurdered</a></td></tr>`)

	html, err = newTestRenderer().Render("ent0000000")
	require.NoError(t, err)
	assert.Contains(t, html, `<h1 class="page-title">The Guilds of Iron</h1>`)
	assert.Contains(t, html, `<tr><th>name</th><td>the guilds of iron</td></tr>`)
}

func TestRenderer_Splash(t *testing.T) {
	html, err := newTestRenderer().Render("spl")
	require.NoError(t, err)
	assert.Contains(t, html, `<h1 class="page-title">Welcome!</h1>`)
}

func TestRenderer_Errors(t *testing.T) {
	r := newTestRenderer()

	_, err := r.Render("hif0000500")
	assert.ErrorIs(t, err, graph.ErrIDOutOfRange)

	_, err = r.Render("art0000001")
	assert.ErrorIs(t, err, graph.ErrCategoryMissing)

	_, err = r.Render("zzz0000001")
	assert.ErrorIs(t, err, ErrUnknownCode)
}

func TestRenderer_Stylesheet(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "master.css", []byte("body { color: red; }"), 0o644))

	theme, err := LoadTheme(fs, &api.RenderConfig{Title: "World", Stylesheet: "master.css"})
	require.NoError(t, err)

	html, err := NewRenderer(testStore(), theme).Render("spl")
	require.NoError(t, err)
	assert.Contains(t, html, `<style type="text/css">body { color: red; }</style>`)
	assert.Contains(t, html, `| World</title>`)

	_, err = LoadTheme(fs, &api.RenderConfig{Stylesheet: "missing.css"})
	assert.Error(t, err)

	theme, err = LoadTheme(fs, nil)
	require.NoError(t, err)
	assert.Equal(t, "Legends Reader", theme.Title)
	assert.Empty(t, theme.Stylesheet)
}

func TestRenderer_WriteSite(t *testing.T) {
	fs := memfs.New()
	r := newTestRenderer()

	n, err := r.WriteSite(fs, "out")
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	page, err := util.ReadFile(fs, "out/hif0000100.html")
	require.NoError(t, err)
	assert.Contains(t, string(page), `<a href="hif0000101.html">Kadol</a>`)

	_, err = fs.Stat("out/index.html")
	assert.NoError(t, err)
	assert.Empty(t, r.LinkSuffix, "the renderer itself is unchanged")

	n, err = r.WriteSite(fs, "figures", graph.FiguresCategory)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	entries, err := fs.ReadDir("figures")
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"index.html", "hif0000100.html", "hif0000101.html"}, names)
	assert.False(t, strings.Contains(strings.Join(names, ","), "sit"))
}
