package ingest

import (
	"fmt"

	"github.com/RoaringBitmap/roaring"

	"github.com/agentic-research/legends/internal/graph"
)

// LinkEvents appends the identifier of every historical event to the events
// list of each record it references, in event document order. Figure
// references must resolve; references into other categories are best-effort.
// Every occurrence of a repeated reference field counts. A given record is
// linked at most once per event.
//
// Ingest calls LinkEvents once. Calling it again duplicates entries.
func (e *Engine) LinkEvents(store *graph.Store) error {
	events := store.Records(graph.EventsCategory)
	if len(events) == 0 {
		return nil
	}

	seen := roaring.New()
	for _, ev := range events {
		seen.Clear()
		for _, field := range graph.FigureRefFields {
			for _, v := range ev.All(field) {
				id, ok := v.Int()
				if !ok {
					return fmt.Errorf("event %d: %s=%q is not an identifier: %w",
						ev.ID, field, v.String(), graph.ErrIDOutOfRange)
				}
				fig, err := store.Get(graph.FiguresCategory, id)
				if err != nil {
					return fmt.Errorf("event %d: %s: %w", ev.ID, field, err)
				}
				if !seen.CheckedAdd(uint32(id)) {
					continue
				}
				fig.Events = append(fig.Events, ev.ID)
				e.Metrics.EventBacklinks.WithLabelValues(graph.FiguresCategory).Inc()
			}
		}

		for _, ref := range graph.SecondaryRefFields {
			seen.Clear()
			for _, field := range ref.Fields {
				for _, v := range ev.All(field) {
					id, ok := v.Int()
					if !ok {
						continue
					}
					rec, err := store.Get(ref.Category, id)
					if err != nil {
						e.Log.Debug().
							Err(err).
							Int("event", ev.ID).
							Str("field", field).
							Msg("unresolved event reference")
						continue
					}
					if !seen.CheckedAdd(uint32(id)) {
						continue
					}
					rec.Events = append(rec.Events, ev.ID)
					e.Metrics.EventBacklinks.WithLabelValues(ref.Category).Inc()
				}
			}
		}
	}
	return nil
}
