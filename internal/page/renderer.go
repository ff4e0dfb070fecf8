package page

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/agentic-research/legends/api"
	"github.com/agentic-research/legends/internal/graph"
)

// Theme is the presentation shared by every page. It is loaded once and
// never changes afterwards.
type Theme struct {
	Title      string
	Stylesheet template.CSS
}

// LoadTheme reads the configured stylesheet from fsys.
func LoadTheme(fsys billy.Filesystem, cfg *api.RenderConfig) (Theme, error) {
	if cfg == nil {
		cfg = api.DefaultConfig().Render
	}
	theme := Theme{Title: cfg.Title}
	if cfg.Stylesheet == "" {
		return theme, nil
	}
	css, err := util.ReadFile(fsys, cfg.Stylesheet)
	if err != nil {
		return Theme{}, fmt.Errorf("load stylesheet: %w", err)
	}
	theme.Stylesheet = template.CSS(css)
	return theme, nil
}

const pageHTML = `<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>{{.Title}} | {{.Theme.Title}}</title>
{{- with .Theme.Stylesheet}}
<style type="text/css">{{.}}</style>
{{- end}}
</head><body>
<h1 class="page-title">{{.Title}}</h1>
{{- with .Description}}
<h3 class="page-description">{{.}}</h3>
{{- end}}
<hr>
<div class="page-content" id="pagecontent">
{{- with .Intro}}
<p class="plain-text">{{.}}</p>
{{- end}}
{{- with .Born}}
<p><b class="hf-name-occurence">{{$.Title}}</b> {{.}}</p>
<hr>
{{- end}}
{{- range .Relations}}
<p>{{.Type}} : <a href="{{.Target.Href}}">{{.Target.Text}}</a></p>
{{- end}}
{{- if .Fields}}
<table class="record-fields">
{{- range .Fields}}
<tr><th>{{.Name}}</th><td>{{range $i, $v := .Values}}{{if $i}}, {{end}}{{if $v.Href}}<a href="{{$v.Href}}">{{$v.Text}}</a>{{else}}{{$v.Text}}{{end}}{{end}}</td></tr>
{{- end}}
</table>
{{- end}}
{{- if .Events}}
<hr>
{{- range .Events}}
<p class="{{.Class}}"><a href="{{.Link.Href}}">{{.Link.Text}}</a></p>
{{- end}}
{{- end}}
</div>
{{- if .Memberships}}
<div class="memberships">
{{- range .Memberships}}
<p><a href="{{.Href}}">{{.Text}}</a></p>
{{- end}}
</div>
{{- end}}
</body></html>
`

var pageTemplate = template.Must(template.New("page").Parse(pageHTML))

type link struct {
	Href string
	Text string
}

type relation struct {
	Type   string
	Target link
}

type eventLine struct {
	Link  link
	Class string
}

type fieldRow struct {
	Name   string
	Values []link // Href empty for plain values
}

type pageData struct {
	Theme       Theme
	Title       string
	Description string
	Intro       string
	Born        string
	Relations   []relation
	Fields      []fieldRow
	Events      []eventLine
	Memberships []link
}

type pageBuilder func(r *Renderer, rec *graph.Record) (*pageData, error)

// builders is the dispatch table from category to page builder. Categories
// without an entry get the generic field listing.
var builders = map[string]pageBuilder{
	graph.FiguresCategory: (*Renderer).figurePage,
	graph.SitesCategory:   (*Renderer).sitePage,
}

// Renderer produces HTML pages from a store.
type Renderer struct {
	store *graph.Store
	theme Theme

	// LinkSuffix is appended to every generated href, e.g. ".html" for pages
	// written to disk.
	LinkSuffix string
}

func NewRenderer(store *graph.Store, theme Theme) *Renderer {
	return &Renderer{store: store, theme: theme}
}

// Render returns the page at a link address.
func (r *Renderer) Render(address string) (string, error) {
	addr, err := ParseAddress(address)
	if err != nil {
		return "", err
	}
	if addr.Code == SplashCode {
		return r.Splash()
	}
	return r.RenderRecord(addr.Category, addr.ID)
}

// RenderRecord returns the page of one record. Unknown identifiers are
// reported with the store's lookup errors.
func (r *Renderer) RenderRecord(category string, id int) (string, error) {
	rec, err := r.store.Get(category, id)
	if err != nil {
		return "", err
	}
	build, ok := builders[category]
	if !ok {
		build = (*Renderer).genericPage
	}
	data, err := build(r, rec)
	if err != nil {
		return "", err
	}
	return r.execute(data)
}

// Splash returns the welcome page.
func (r *Renderer) Splash() (string, error) {
	return r.execute(&pageData{
		Title: "Welcome!",
		Intro: "To begin browsing, load a legends file or follow a link to a record.",
	})
}

func (r *Renderer) execute(data *pageData) (string, error) {
	data.Theme = r.theme
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %q: %w", data.Title, err)
	}
	return buf.String(), nil
}

func (r *Renderer) figurePage(rec *graph.Record) (*pageData, error) {
	gender, _ := r.store.FigureGender(rec.ID)
	race, _ := r.store.FigureRace(rec.ID)

	born := "was born"
	if s, ok := rec.Int("birth_seconds72"); ok {
		if date, ok := Date(s); ok {
			born += " on " + date
		}
	}
	if year, ok := rec.Int("birth_year"); ok && year >= 0 {
		born += " in the Year " + strconv.Itoa(year) + "."
	} else {
		born += " at the beginning of the world."
	}

	data := &pageData{
		Title:       r.title(rec),
		Description: strings.TrimSpace(gender + " " + race),
		Born:        born,
		Events:      r.events(rec),
	}
	for _, l := range rec.HFLinks {
		data.Relations = append(data.Relations, relation{
			Type:   graph.Capitalize(l.Type),
			Target: r.link(graph.FiguresCategory, l.ID),
		})
	}
	for _, l := range rec.EntityLinks {
		data.Memberships = append(data.Memberships, r.link(graph.EntitiesCategory, l.ID))
	}
	return data, nil
}

func (r *Renderer) sitePage(rec *graph.Record) (*pageData, error) {
	kind, _ := rec.Text("type")
	desc := graph.Capitalize(kind)
	if coords, ok := rec.Text("coords"); ok {
		desc += " at Coords: " + coords
	}
	return &pageData{
		Title:       r.title(rec),
		Description: strings.TrimSpace(desc),
		Events:      r.events(rec),
	}, nil
}

func (r *Renderer) genericPage(rec *graph.Record) (*pageData, error) {
	data := &pageData{
		Title:  r.title(rec),
		Events: r.events(rec),
	}
	for _, name := range rec.Fields() {
		row := fieldRow{Name: name}
		target, isRef := graph.RefCategory(name)
		for _, v := range rec.All(name) {
			if id, ok := v.Int(); ok && isRef && rec.Category == graph.EventsCategory {
				row.Values = append(row.Values, r.link(target, id))
				continue
			}
			row.Values = append(row.Values, link{Text: v.String()})
		}
		data.Fields = append(data.Fields, row)
	}
	return data, nil
}

// title names a record that may lack a name: events are titled by their type.
func (r *Renderer) title(rec *graph.Record) string {
	name, err := rec.DisplayName()
	if err == nil {
		return name
	}
	if kind, ok := rec.Text("type"); ok && kind != "" {
		return graph.Capitalize(kind)
	}
	return graph.Capitalize(strings.ReplaceAll(rec.Category, "_", " ")) + " " + strconv.Itoa(rec.ID)
}

// link points at a record. Targets missing from the store keep their
// address as text.
func (r *Renderer) link(category string, id int) link {
	addr, err := FormatAddress(category, id)
	if err != nil {
		return link{Text: strconv.Itoa(id)}
	}
	l := link{Href: addr + r.LinkSuffix, Text: addr}
	if rec, err := r.store.Get(category, id); err == nil {
		l.Text = r.title(rec)
	}
	return l
}

// events lists the events mentioning rec. Each line carries the event type
// as a CSS class so pages can be filtered by kind.
func (r *Renderer) events(rec *graph.Record) []eventLine {
	lines := make([]eventLine, 0, len(rec.Events))
	for _, id := range rec.Events {
		l := r.link(graph.EventsCategory, id)
		ev, err := r.store.Get(graph.EventsCategory, id)
		if err != nil {
			lines = append(lines, eventLine{Link: l})
			continue
		}
		kind, _ := ev.Text("type")
		l.Text = eventSummary(ev)
		lines = append(lines, eventLine{Link: l, Class: strings.ReplaceAll(kind, " ", "-")})
	}
	return lines
}

// eventSummary reads e.g. "In the Year 1257, on the 1st of Granite: Hf Died".
func eventSummary(ev *graph.Record) string {
	var b strings.Builder
	if year, ok := ev.Int("year"); ok && year >= 0 {
		b.WriteString("In the Year " + strconv.Itoa(year))
		if s, ok := ev.Int("seconds72"); ok {
			if date, ok := Date(s); ok {
				b.WriteString(", on " + date)
			}
		}
		b.WriteString(": ")
	}
	kind, ok := ev.Text("type")
	if !ok || kind == "" {
		kind = "event " + strconv.Itoa(ev.ID)
	}
	b.WriteString(graph.Capitalize(kind))
	return b.String()
}
