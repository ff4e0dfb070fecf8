package graph

// Link is a typed relationship embedded in a Record: a figure's relation to
// another figure ("mother", "deity") or its membership in an entity.
type Link struct {
	Type     string
	ID       int
	Strength Optional[int] // entity links only
}

// Record is one entity of the world: its scalar fields in document order plus
// relationship lists. Records are built once during import; afterwards only
// Events is appended to, by the cross-reference pass.
type Record struct {
	Category string
	ID       int

	fields  map[string]Value
	repeats map[string][]Value
	order   []string
	hasID   bool

	// Events holds identifiers of historical events that mention this record.
	Events []int
	// HFLinks and EntityLinks are only populated for historical figures.
	HFLinks     []Link
	EntityLinks []Link
}

// NewRecord returns an empty record of the given category.
func NewRecord(category string) *Record {
	return &Record{
		Category: category,
		fields:   make(map[string]Value),
		Events:   []int{},
	}
}

// SetID assigns the record's identifier.
func (r *Record) SetID(id int) {
	r.ID = id
	r.hasID = true
}

// HasID reports whether the identifier came from the source (as opposed to
// being synthesized from document position).
func (r *Record) HasID() bool { return r.hasID }

// Set stores a field value. The first occurrence of a name is the field's
// value; later occurrences are kept and returned by All.
func (r *Record) Set(name string, v Value) {
	if _, ok := r.fields[name]; ok {
		if r.repeats == nil {
			r.repeats = make(map[string][]Value)
		}
		r.repeats[name] = append(r.repeats[name], v)
		return
	}
	r.fields[name] = v
	r.order = append(r.order, name)
}

// Field returns the value stored under name.
func (r *Record) Field(name string) (Value, bool) {
	v, ok := r.fields[name]
	return v, ok
}

// Has reports whether a field is present.
func (r *Record) Has(name string) bool {
	_, ok := r.fields[name]
	return ok
}

// Int returns an integer field. Text fields report false.
func (r *Record) Int(name string) (int, bool) {
	v, ok := r.fields[name]
	if !ok {
		return 0, false
	}
	return v.Int()
}

// Text returns the textual form of a field of either kind.
func (r *Record) Text(name string) (string, bool) {
	v, ok := r.fields[name]
	if !ok {
		return "", false
	}
	return v.String(), true
}

// All returns every occurrence of a field, in document order.
func (r *Record) All(name string) []Value {
	v, ok := r.fields[name]
	if !ok {
		return nil
	}
	return append([]Value{v}, r.repeats[name]...)
}

// Fields returns field names in the order they first appeared.
func (r *Record) Fields() []string {
	return r.order
}

// Generic returns the record as nested maps and slices, suitable for JSONPath
// evaluation and JSON encoding. Repeated fields become arrays.
func (r *Record) Generic() map[string]any {
	m := make(map[string]any, len(r.fields)+4)
	for _, name := range r.order {
		all := r.All(name)
		if len(all) == 1 {
			m[name] = all[0].Any()
			continue
		}
		vals := make([]any, len(all))
		for i, v := range all {
			vals[i] = v.Any()
		}
		m[name] = vals
	}
	m["id"] = r.ID
	events := make([]any, len(r.Events))
	for i, e := range r.Events {
		events[i] = e
	}
	m["events"] = events
	if r.Category == FiguresCategory {
		m["hf_links"] = genericLinks(r.HFLinks)
		m["entity_links"] = genericLinks(r.EntityLinks)
	}
	return m
}

func genericLinks(links []Link) []any {
	out := make([]any, len(links))
	for i, l := range links {
		lm := map[string]any{"type": l.Type, "id": l.ID}
		if s, ok := l.Strength.Get(); ok {
			lm["strength"] = s
		}
		out[i] = lm
	}
	return out
}
