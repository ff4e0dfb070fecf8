package ingest

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/legends/internal/graph"
)

func putRecords(store *graph.Store, name string, offset, n int) []*graph.Record {
	recs := make([]*graph.Record, n)
	for i := range recs {
		recs[i] = graph.NewRecord(name)
		recs[i].SetID(offset + i)
	}
	store.PutCategory(name, offset, recs)
	return recs
}

func TestLinkEvents(t *testing.T) {
	store := graph.NewStore()
	figs := putRecords(store, graph.FiguresCategory, 40, 4)
	sites := putRecords(store, graph.SitesCategory, 0, 2)
	events := putRecords(store, graph.EventsCategory, 900, 3)

	events[0].Set("hfid", graph.IntValue(42))
	events[0].Set("site_id", graph.IntValue(1))
	events[1].Set("woundee_hfid", graph.IntValue(42))
	events[1].Set("wounder_hfid", graph.IntValue(42))
	events[1].Set("site_id1", graph.IntValue(0))
	events[1].Set("site_id2", graph.IntValue(0))
	events[2].Set("changee_hfid", graph.IntValue(40))
	events[2].Set("changer_hfid", graph.IntValue(43))
	events[2].Set("site_id", graph.IntValue(77))

	e := newTestEngine()
	require.NoError(t, e.LinkEvents(store))

	assert.Equal(t, []int{902}, figs[0].Events)
	assert.Empty(t, figs[1].Events)
	assert.Equal(t, []int{900, 901}, figs[2].Events, "each event is linked once")
	assert.Equal(t, []int{902}, figs[3].Events)

	assert.Equal(t, []int{901}, sites[0].Events)
	assert.Equal(t, []int{900}, sites[1].Events)

	assert.Equal(t, 4.0, testutil.ToFloat64(e.Metrics.EventBacklinks.WithLabelValues(graph.FiguresCategory)))
	assert.Equal(t, 2.0, testutil.ToFloat64(e.Metrics.EventBacklinks.WithLabelValues(graph.SitesCategory)))
}

func TestLinkEvents_NoEvents(t *testing.T) {
	store := graph.NewStore()
	putRecords(store, graph.FiguresCategory, 0, 1)

	assert.NoError(t, newTestEngine().LinkEvents(store))
}

func TestLinkEvents_StrictFigures(t *testing.T) {
	t.Run("out of range", func(t *testing.T) {
		store := graph.NewStore()
		putRecords(store, graph.FiguresCategory, 0, 1)
		events := putRecords(store, graph.EventsCategory, 0, 1)
		events[0].Set("slayer_hfid", graph.IntValue(3))

		err := newTestEngine().LinkEvents(store)
		assert.ErrorIs(t, err, graph.ErrIDOutOfRange)
	})

	t.Run("no figures", func(t *testing.T) {
		store := graph.NewStore()
		events := putRecords(store, graph.EventsCategory, 0, 1)
		events[0].Set("hfid", graph.IntValue(0))

		err := newTestEngine().LinkEvents(store)
		assert.ErrorIs(t, err, graph.ErrCategoryMissing)
	})

	t.Run("not an identifier", func(t *testing.T) {
		store := graph.NewStore()
		putRecords(store, graph.FiguresCategory, 0, 1)
		events := putRecords(store, graph.EventsCategory, 0, 1)
		events[0].Set("hfid", graph.TextValue("urist"))

		err := newTestEngine().LinkEvents(store)
		assert.ErrorIs(t, err, graph.ErrIDOutOfRange)
	})
}

func TestLinkEvents_SecondaryBestEffort(t *testing.T) {
	store := graph.NewStore()
	ents := putRecords(store, graph.EntitiesCategory, 10, 2)
	events := putRecords(store, graph.EventsCategory, 0, 2)
	events[0].Set("civ_id", graph.IntValue(10))
	events[0].Set("attacker_civ_id", graph.IntValue(10))
	events[0].Set("defender_civ_id", graph.IntValue(11))
	events[1].Set("entity_id", graph.IntValue(3))
	events[1].Set("artifact_id", graph.IntValue(0))
	events[1].Set("subregion_id", graph.IntValue(0))

	require.NoError(t, newTestEngine().LinkEvents(store))
	assert.Equal(t, []int{0}, ents[0].Events)
	assert.Equal(t, []int{0}, ents[1].Events)
}

func TestLinkEvents_RepeatedFields(t *testing.T) {
	store := graph.NewStore()
	figs := putRecords(store, graph.FiguresCategory, 0, 3)
	sites := putRecords(store, graph.SitesCategory, 0, 2)
	events := putRecords(store, graph.EventsCategory, 7, 1)
	events[0].Set("group_hfid", graph.IntValue(0))
	events[0].Set("group_hfid", graph.IntValue(1))
	events[0].Set("group_hfid", graph.IntValue(1))
	events[0].Set("site_id", graph.IntValue(0))
	events[0].Set("site_id", graph.IntValue(1))

	require.NoError(t, newTestEngine().LinkEvents(store))
	assert.Equal(t, []int{7}, figs[0].Events)
	assert.Equal(t, []int{7}, figs[1].Events, "later occurrences are linked once")
	assert.Empty(t, figs[2].Events)
	assert.Equal(t, []int{7}, sites[0].Events)
	assert.Equal(t, []int{7}, sites[1].Events)
}

func TestLinkEvents_RepeatedFieldOutOfRange(t *testing.T) {
	store := graph.NewStore()
	putRecords(store, graph.FiguresCategory, 0, 1)
	events := putRecords(store, graph.EventsCategory, 0, 1)
	events[0].Set("group_hfid", graph.IntValue(0))
	events[0].Set("group_hfid", graph.IntValue(9))

	err := newTestEngine().LinkEvents(store)
	assert.ErrorIs(t, err, graph.ErrIDOutOfRange)
}
