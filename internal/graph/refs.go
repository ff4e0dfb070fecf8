package graph

// FigureRefFields are event fields holding a historical figure identifier.
var FigureRefFields = []string{
	"hfid", "slayer_hfid", "group_hfid", "group_1_hfid", "group_2_hfid",
	"woundee_hfid", "wounder_hfid", "trickster_hfid", "cover_hfid",
	"hist_fig_id", "target_hfid", "snatcher_hfid", "changee_hfid",
	"changer_hfid", "hist_figure_id", "hfid_target",
}

// RefFields lists the event fields that reference records of one category.
type RefFields struct {
	Category string
	Fields   []string
}

// SecondaryRefFields are event fields referencing categories other than
// historical figures.
var SecondaryRefFields = []RefFields{
	{SitesCategory, []string{"site_id", "site_id1", "site_id2"}},
	{EntitiesCategory, []string{"civ_id", "entity_id", "attacker_civ_id", "defender_civ_id", "site_civ_id"}},
	{ArtifactsCategory, []string{"artifact_id"}},
	{RegionsCategory, []string{"subregion_id"}},
}

var refCategories = func() map[string]string {
	m := make(map[string]string)
	for _, f := range FigureRefFields {
		m[f] = FiguresCategory
	}
	for _, ref := range SecondaryRefFields {
		for _, f := range ref.Fields {
			m[f] = ref.Category
		}
	}
	return m
}()

// RefCategory returns the category an event field points into.
func RefCategory(field string) (string, bool) {
	c, ok := refCategories[field]
	return c, ok
}
