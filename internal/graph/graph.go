package graph

import (
	"errors"
	"fmt"
	"strconv"
)

// Canonical category names. These are the plural grouping tags of the legends
// export and the keys of a Store.
const (
	RegionsCategory            = "regions"
	UndergroundRegionsCategory = "underground_regions"
	SitesCategory              = "sites"
	WorldConstructionsCategory = "world_constructions"
	ArtifactsCategory          = "artifacts"
	FiguresCategory            = "historical_figures"
	EntityPopulationsCategory  = "entity_populations"
	EntitiesCategory           = "entities"
	EventsCategory             = "historical_events"
	EventCollectionsCategory   = "historical_event_collections"
	ErasCategory               = "historical_eras"
)

var (
	// ErrCategoryMissing is returned when a category has no records in the store.
	ErrCategoryMissing = errors.New("category not present")
	// ErrIDOutOfRange is returned when an identifier does not address a record
	// of the requested category.
	ErrIDOutOfRange = errors.New("identifier out of range")
	// ErrNoName is returned when a record carries neither name nor animated_string.
	ErrNoName = errors.New("record has no name")
)

// Category is the ordered record list of one kind, addressed by offset.
type Category struct {
	Name    string
	Offset  int
	Records []*Record
}

// Store is the in-memory result of one import. Records within a category are
// kept in document order, which is ascending identifier order, so a record is
// found at position id - Offset without hashing.
type Store struct {
	categories map[string]*Category
	order      []string

	names     map[string]map[string]string // category -> id text -> name
	nameIDs   map[string][]string          // category -> id text in registration order
	nameOrder []string
}

func NewStore() *Store {
	return &Store{
		categories: make(map[string]*Category),
		names:      make(map[string]map[string]string),
		nameIDs:    make(map[string][]string),
	}
}

// PutCategory installs the records of a category. Callers are responsible for
// records[i].ID == offset+i; the importer verifies it before calling.
func (s *Store) PutCategory(name string, offset int, records []*Record) {
	if _, ok := s.categories[name]; !ok {
		s.order = append(s.order, name)
	}
	s.categories[name] = &Category{Name: name, Offset: offset, Records: records}
}

// RegisterName records id -> name in the category's name index. The first
// registration for an id wins.
func (s *Store) RegisterName(category, id, name string) {
	idx, ok := s.names[category]
	if !ok {
		idx = make(map[string]string)
		s.names[category] = idx
		s.nameOrder = append(s.nameOrder, category)
	}
	if _, dup := idx[id]; dup {
		return
	}
	idx[id] = name
	s.nameIDs[category] = append(s.nameIDs[category], id)
}

// Has reports whether a category is present.
func (s *Store) Has(category string) bool {
	_, ok := s.categories[category]
	return ok
}

// Categories returns category names in the order they were installed.
func (s *Store) Categories() []string {
	return s.order
}

// Category returns the named category.
func (s *Store) Category(name string) (*Category, bool) {
	c, ok := s.categories[name]
	return c, ok
}

// Offset returns the identifier of the first record of a category.
func (s *Store) Offset(category string) (int, bool) {
	c, ok := s.categories[category]
	if !ok {
		return 0, false
	}
	return c.Offset, true
}

// Records returns the records of a category; nil when absent.
func (s *Store) Records(category string) []*Record {
	c, ok := s.categories[category]
	if !ok {
		return nil
	}
	return c.Records
}

// Len returns the number of records in a category; zero when absent.
func (s *Store) Len(category string) int {
	return len(s.Records(category))
}

// Names returns the name index of a category, keyed by identifier text.
func (s *Store) Names(category string) map[string]string {
	return s.names[category]
}

// Get returns the record of a category with the given identifier in O(1).
func (s *Store) Get(category string, id int) (*Record, error) {
	c, ok := s.categories[category]
	if !ok {
		return nil, fmt.Errorf("get %s %d: %w", category, id, ErrCategoryMissing)
	}
	pos := id - c.Offset
	if pos < 0 || pos >= len(c.Records) {
		return nil, fmt.Errorf("get %s %d (offset %d, %d records): %w",
			category, id, c.Offset, len(c.Records), ErrIDOutOfRange)
	}
	return c.Records[pos], nil
}

// Ref names a record by category and identifier.
type Ref struct {
	Category string
	ID       int
}

// NotFound is the Ref returned by FindByName on a miss.
var NotFound = Ref{}

func (r Ref) String() string {
	if r == NotFound {
		return "not found"
	}
	return r.Category + "/" + strconv.Itoa(r.ID)
}
