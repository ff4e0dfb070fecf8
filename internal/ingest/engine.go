package ingest

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/rs/zerolog"

	"github.com/agentic-research/legends/api"
	"github.com/agentic-research/legends/internal/graph"
	"github.com/agentic-research/legends/internal/metrics"
)

var (
	// ErrMalformedDocument wraps tokenizer and charset failures. IngestFile
	// answers it by sanitizing the document and retrying once.
	ErrMalformedDocument = errors.New("malformed document")
	// ErrNonContiguous is returned when the identifiers of a category do not
	// run from the first one upward without gaps.
	ErrNonContiguous = errors.New("category identifiers not contiguous")
)

// Engine drives the import of a legends document into a graph.Store.
type Engine struct {
	// LenientIDs keeps categories that fail the contiguity check, with a
	// warning, instead of failing the import.
	LenientIDs bool
	Sanitize   *api.SanitizeConfig
	Log        zerolog.Logger
	Metrics    *metrics.Metrics
}

// NewEngine builds an Engine from configuration. m may be nil, in which case
// the engine keeps private metrics.
func NewEngine(cfg *api.Config, log zerolog.Logger, m *metrics.Metrics) *Engine {
	if cfg == nil {
		cfg = api.DefaultConfig()
	}
	if m == nil {
		m = metrics.New()
	}
	e := &Engine{
		Sanitize: cfg.Sanitize,
		Log:      log,
		Metrics:  m,
	}
	if cfg.Import != nil {
		e.LenientIDs = cfg.Import.LenientIDs
	}
	return e
}

// IngestFile imports the named document. When the document cannot be parsed
// a sanitized copy is written next to it and imported instead.
func (e *Engine) IngestFile(fsys billy.Filesystem, name string) (*graph.Store, error) {
	store, err := e.ingestPath(fsys, name)
	if !errors.Is(err, ErrMalformedDocument) {
		return store, err
	}

	e.Log.Warn().Err(err).Str("file", name).Msg("document failed to parse, sanitizing")
	e.Metrics.SanitizeRuns.Inc()
	clean, serr := NewSanitizer(e.Sanitize, e.Metrics).Sanitize(fsys, name)
	if serr != nil {
		return nil, fmt.Errorf("%w (sanitize failed: %v)", err, serr)
	}
	e.Log.Info().Str("file", clean).Msg("retrying with sanitized copy")

	return e.ingestPath(fsys, clean)
}

func (e *Engine) ingestPath(fsys billy.Filesystem, name string) (*graph.Store, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	store, err := e.Ingest(f)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", name, err)
	}
	return store, nil
}

// Ingest reads a document in one forward pass. Only the record currently
// being built is held as markup; finished records are kept as graph.Record
// values until their category closes.
func (e *Engine) Ingest(r io.Reader) (*graph.Store, error) {
	start := time.Now()
	store := graph.NewStore()
	b := &builder{store: store, log: e.Log, metrics: e.Metrics}

	dec := xml.NewDecoder(r)
	dec.CharsetReader = charsetReader

	var (
		depth   int
		group   string
		pending []*graph.Record
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, malformed(err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			tag := t.Name.Local
			switch depth {
			case 2:
				if !groupTags[tag] {
					e.Log.Debug().Str("tag", tag).Msg("skipping unknown grouping")
					if err := dec.Skip(); err != nil {
						return nil, malformed(err)
					}
					depth--
					continue
				}
				group = tag
				pending = nil
			case 3:
				if recordTags[tag] != group {
					e.Log.Debug().Str("tag", tag).Str("category", group).Msg("skipping stray element")
					if err := dec.Skip(); err != nil {
						return nil, malformed(err)
					}
					depth--
					continue
				}
				rec, err := b.build(dec, group)
				if err != nil {
					return nil, malformed(err)
				}
				depth--
				pending = append(pending, rec)
			}
		case xml.EndElement:
			if depth == 2 && group != "" {
				if err := e.flush(store, group, pending); err != nil {
					return nil, err
				}
				group, pending = "", nil
			}
			depth--
		}
	}

	if err := e.LinkEvents(store); err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	e.Metrics.ImportDuration.Observe(elapsed.Seconds())
	e.Log.Info().
		Int("categories", len(store.Categories())).
		Dur("elapsed", elapsed).
		Msg("import complete")
	return store, nil
}

// flush installs the pending records of a closed category. An empty category
// is left out of the store.
func (e *Engine) flush(store *graph.Store, category string, records []*graph.Record) error {
	if len(records) == 0 {
		e.Metrics.EmptyCategories.Inc()
		e.Log.Warn().Str("category", category).Msg("category has no records, offset not assigned")
		return nil
	}

	offset := 0
	if records[0].HasID() {
		offset = records[0].ID
	}

	warned := false
	for i, rec := range records {
		want := offset + i
		if !rec.HasID() {
			rec.ID = want
			if name, ok := rec.Text("name"); ok && name != "" {
				store.RegisterName(category, strconv.Itoa(want), name)
			}
			continue
		}
		if rec.ID == want {
			continue
		}
		if !e.LenientIDs {
			return fmt.Errorf("%s: record %d has id %d, want %d: %w",
				category, i, rec.ID, want, ErrNonContiguous)
		}
		if !warned {
			e.Log.Warn().
				Str("category", category).
				Int("position", i).
				Int("id", rec.ID).
				Int("want", want).
				Msg("identifiers not contiguous, lookups may return the wrong record")
			warned = true
		}
	}

	store.PutCategory(category, offset, records)
	e.Metrics.RecordsImported.WithLabelValues(category).Add(float64(len(records)))
	e.Log.Debug().
		Str("category", category).
		Int("offset", offset).
		Int("records", len(records)).
		Msg("category imported")
	return nil
}

func malformed(err error) error {
	return fmt.Errorf("%w: %w", ErrMalformedDocument, err)
}
