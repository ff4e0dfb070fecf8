package ingest

import (
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/agentic-research/legends/internal/graph"
	"github.com/agentic-research/legends/internal/metrics"
)

// leaf is an element nested one level inside a field, e.g. the link_type of
// an hf_link.
type leaf struct {
	tag  string
	text string
}

// fieldNode is one child element of a record element.
type fieldNode struct {
	tag      string
	text     string
	children []leaf
}

// readField consumes a field element whose start tag was just read, up to and
// including its end tag. Elements nested below the field's children are
// skipped.
func readField(dec *xml.Decoder, start xml.StartElement) (fieldNode, error) {
	f := fieldNode{tag: start.Name.Local}
	var text strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return f, err
		}
		switch t := tok.(type) {
		case xml.CharData:
			text.Write(t)
		case xml.StartElement:
			l, err := readLeaf(dec, t)
			if err != nil {
				return f, err
			}
			f.children = append(f.children, l)
		case xml.EndElement:
			f.text = strings.TrimSpace(text.String())
			return f, nil
		}
	}
}

func readLeaf(dec *xml.Decoder, start xml.StartElement) (leaf, error) {
	l := leaf{tag: start.Name.Local}
	var text strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return l, err
		}
		switch t := tok.(type) {
		case xml.CharData:
			text.Write(t)
		case xml.StartElement:
			if err := dec.Skip(); err != nil {
				return l, err
			}
		case xml.EndElement:
			l.text = strings.TrimSpace(text.String())
			return l, nil
		}
	}
}

// builder turns the markup of one record into a graph.Record and registers
// its name in the store's name index.
type builder struct {
	store   *graph.Store
	log     zerolog.Logger
	metrics *metrics.Metrics
}

// build consumes the children of a record element whose start tag was just
// read, through its end tag.
func (b *builder) build(dec *xml.Decoder, category string) (*graph.Record, error) {
	rec := graph.NewRecord(category)
	field := b.genericField
	if category == graph.FiguresCategory {
		field = b.figureField
	}

	var rawID, name string
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			f, err := readField(dec, t)
			if err != nil {
				return nil, err
			}
			switch {
			case f.tag == "id":
				rawID = b.setID(rec, f)
			case f.tag == "name" && name == "" && len(f.children) == 0:
				name = f.text
				field(rec, f)
			default:
				field(rec, f)
			}
		case xml.EndElement:
			if rawID != "" && name != "" {
				b.store.RegisterName(category, rawID, name)
			}
			return rec, nil
		}
	}
}

// setID assigns the record identifier and returns its source text, or the
// empty string when the field is not an integer.
func (b *builder) setID(rec *graph.Record, f fieldNode) string {
	n, err := strconv.Atoi(f.text)
	if err != nil {
		b.skip(rec, f, "bad_id")
		return ""
	}
	rec.SetID(n)
	return f.text
}

// genericField stores a scalar field, dropping absent sentinels, ignored tags
// and anything with nested structure.
func (b *builder) genericField(rec *graph.Record, f fieldNode) {
	if ignoredFields[f.tag] {
		b.skip(rec, f, "ignored")
		return
	}
	if len(f.children) > 0 {
		b.skip(rec, f, "nested")
		return
	}
	v, ok := graph.Coerce(f.tag, f.text)
	if !ok {
		b.metrics.FieldsSkipped.WithLabelValues("absent").Inc()
		return
	}
	rec.Set(f.tag, v)
}

// figureField handles the relationship links of historical figures before
// falling back to the generic path.
func (b *builder) figureField(rec *graph.Record, f fieldNode) {
	switch {
	case figureDenyList[f.tag]:
		b.skip(rec, f, "denied")
	case f.tag == hfLinkTag:
		if link, ok := b.parseLink(rec, f, false); ok {
			rec.HFLinks = append(rec.HFLinks, link)
		}
	case f.tag == entityLinkTag:
		if link, ok := b.parseLink(rec, f, true); ok {
			rec.EntityLinks = append(rec.EntityLinks, link)
		}
	default:
		b.genericField(rec, f)
	}
}

// parseLink reads a link positionally: type, target id, and for entity links
// an optional strength.
func (b *builder) parseLink(rec *graph.Record, f fieldNode, withStrength bool) (graph.Link, bool) {
	if len(f.children) < 2 {
		b.skip(rec, f, "short_link")
		return graph.Link{}, false
	}
	target, ok := graph.Coerce(f.children[1].tag, f.children[1].text)
	if !ok {
		b.skip(rec, f, "absent_link")
		return graph.Link{}, false
	}
	id, ok := target.Int()
	if !ok {
		b.skip(rec, f, "bad_link")
		return graph.Link{}, false
	}

	link := graph.Link{Type: f.children[0].text, ID: id}
	if withStrength && len(f.children) > 2 {
		if v, ok := graph.Coerce(f.children[2].tag, f.children[2].text); ok {
			if s, ok := v.Int(); ok {
				link.Strength = graph.Some(s)
			}
		}
	}
	b.metrics.LinksParsed.WithLabelValues(f.tag).Inc()
	return link, true
}

func (b *builder) skip(rec *graph.Record, f fieldNode, reason string) {
	b.metrics.FieldsSkipped.WithLabelValues(reason).Inc()
	b.log.Debug().
		Str("category", rec.Category).
		Str("tag", f.tag).
		Str("reason", reason).
		Msg("field skipped")
}
