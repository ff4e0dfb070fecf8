package ingest

import "github.com/agentic-research/legends/internal/graph"

// recordTags maps the per-record element name to the canonical category its
// grouping element carries.
var recordTags = map[string]string{
	"region":                      graph.RegionsCategory,
	"underground_region":          graph.UndergroundRegionsCategory,
	"site":                        graph.SitesCategory,
	"world_construction":          graph.WorldConstructionsCategory,
	"artifact":                    graph.ArtifactsCategory,
	"historical_figure":           graph.FiguresCategory,
	"entity_population":           graph.EntityPopulationsCategory,
	"entity":                      graph.EntitiesCategory,
	"historical_event":            graph.EventsCategory,
	"historical_event_collection": graph.EventCollectionsCategory,
	"historical_era":              graph.ErasCategory,
}

// groupTags is the set of category grouping elements. Closing one of these
// flushes the pending records of that category.
var groupTags = func() map[string]bool {
	m := make(map[string]bool, len(recordTags))
	for _, category := range recordTags {
		m[category] = true
	}
	return m
}()

// ignoredFields are field tags that are not modeled. They are skipped on
// every category.
var ignoredFields = map[string]bool{
	"hf_skill":                    true,
	"entity_former_position_link": true,
}

// figureDenyList holds figure sub-records that describe relationships through
// event-like histories (positions held, squads, reputations, intrigues).
// They are not modeled and are dropped before reaching the generic field path.
var figureDenyList = map[string]bool{
	"entity_position_link":               true,
	"entity_squad_link":                  true,
	"entity_reputation":                  true,
	"site_link":                          true,
	"relationship_profile_hf":            true,
	"relationship_profile_hf_visual":     true,
	"relationship_profile_hf_historical": true,
	"intrigue_actor":                     true,
	"intrigue_plot":                      true,
	"vague_relationship":                 true,
	"honor_entity":                       true,
	"site_property":                      true,
	"emotional_bond":                     true,
}

// Repeating link elements on historical figures.
const (
	hfLinkTag     = "hf_link"
	entityLinkTag = "entity_link"
)
