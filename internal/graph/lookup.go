package graph

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// minorWords stay lowercase unless they open the name.
var minorWords = map[string]bool{"the": true, "a": true, "of": true}

// Capitalize title-cases a name word by word: the first letter of each word is
// upper-cased and the rest lower-cased, except for minor words after the first.
func Capitalize(s string) string {
	upper := cases.Upper(language.Und)
	lower := cases.Lower(language.Und)
	words := strings.Split(s, " ")
	for i, w := range words {
		if w == "" || (i > 0 && minorWords[w]) {
			continue
		}
		_, size := utf8.DecodeRuneInString(w)
		words[i] = upper.String(w[:size]) + lower.String(w[size:])
	}
	return strings.Join(words, " ")
}

// DisplayName returns the capitalized name of a record, falling back to its
// animated_string for animated objects.
func (s *Store) DisplayName(id int, category string) (string, error) {
	rec, err := s.Get(category, id)
	if err != nil {
		return "", err
	}
	return rec.DisplayName()
}

// DisplayName returns the capitalized name of the record.
func (r *Record) DisplayName() (string, error) {
	if name, ok := r.Text("name"); ok {
		return Capitalize(name), nil
	}
	if name, ok := r.Text("animated_string"); ok {
		return Capitalize(name), nil
	}
	return "", fmt.Errorf("%s %d: %w", r.Category, r.ID, ErrNoName)
}

// FindByName performs a case-insensitive exact match of text against every
// category's name index. Categories are scanned in the order their first
// name was registered and ids in registration order, so the result is
// deterministic. A miss returns NotFound and false.
func (s *Store) FindByName(text string) (Ref, bool) {
	for _, category := range s.nameOrder {
		idx := s.names[category]
		for _, id := range s.nameIDs[category] {
			if !strings.EqualFold(idx[id], text) {
				continue
			}
			n, err := strconv.Atoi(id)
			if err != nil {
				continue
			}
			return Ref{Category: category, ID: n}, true
		}
	}
	return NotFound, false
}

// FigureRace returns the capitalized race of a historical figure. Figures
// without a race are deities.
func (s *Store) FigureRace(id int) (string, error) {
	rec, err := s.Get(FiguresCategory, id)
	if err != nil {
		return "", err
	}
	race, ok := rec.Text("race")
	if !ok {
		return "Deity", nil
	}
	return Capitalize(race), nil
}

// FigureGender returns the capitalized caste of a historical figure, or the
// empty string when the figure has none.
func (s *Store) FigureGender(id int) (string, error) {
	rec, err := s.Get(FiguresCategory, id)
	if err != nil {
		return "", err
	}
	caste, ok := rec.Text("caste")
	if !ok {
		return "", nil
	}
	return Capitalize(caste), nil
}

// SiteByCoords scans sites for one at the given coordinates ("x,y").
func (s *Store) SiteByCoords(coords string) (int, string, bool) {
	for _, site := range s.Records(SitesCategory) {
		c, ok := site.Text("coords")
		if !ok || c != coords {
			continue
		}
		name, _ := site.Text("name")
		return site.ID, Capitalize(name), true
	}
	return 0, "", false
}
