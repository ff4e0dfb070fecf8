// Package page renders browsable HTML pages for the records of an imported
// world and defines the link addresses pages use to point at each other.
package page

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/agentic-research/legends/internal/graph"
)

var (
	// ErrBadAddress is returned for addresses that are not a code followed by
	// a decimal identifier.
	ErrBadAddress = errors.New("malformed page address")
	// ErrUnknownCode is returned for a code (or category) with no page builder.
	ErrUnknownCode = errors.New("unknown page code")
)

// SplashCode addresses the welcome page.
const SplashCode = "spl"

const codeLen = 3

// codes maps three-letter page codes to the category they address.
var codes = []struct {
	code     string
	category string
}{
	{"reg", graph.RegionsCategory},
	{"urg", graph.UndergroundRegionsCategory},
	{"sit", graph.SitesCategory},
	{"woc", graph.WorldConstructionsCategory},
	{"art", graph.ArtifactsCategory},
	{"hif", graph.FiguresCategory},
	{"enp", graph.EntityPopulationsCategory},
	{"ent", graph.EntitiesCategory},
	{"evt", graph.EventsCategory},
	{"hec", graph.EventCollectionsCategory},
	{"era", graph.ErasCategory},
}

// Address is a parsed page link such as "hif0005764".
type Address struct {
	Code     string
	Category string // empty for the splash page
	ID       int
}

func (a Address) String() string {
	if a.Code == SplashCode {
		return SplashCode
	}
	return fmt.Sprintf("%s%07d", a.Code, a.ID)
}

// CodeFor returns the page code of a category.
func CodeFor(category string) (string, bool) {
	for _, c := range codes {
		if c.category == category {
			return c.code, true
		}
	}
	return "", false
}

// FormatAddress returns the address of a record: its category code followed
// by the identifier zero-padded to seven digits.
func FormatAddress(category string, id int) (string, error) {
	code, ok := CodeFor(category)
	if !ok {
		return "", fmt.Errorf("category %q: %w", category, ErrUnknownCode)
	}
	if id < 0 {
		return "", fmt.Errorf("%s %d: %w", category, id, ErrBadAddress)
	}
	return Address{Code: code, Category: category, ID: id}.String(), nil
}

// ParseAddress splits an address into code and identifier. Identifiers need
// not be padded. The splash code takes no identifier.
func ParseAddress(s string) (Address, error) {
	if len(s) < codeLen {
		return Address{}, fmt.Errorf("%q: %w", s, ErrBadAddress)
	}
	code, digits := s[:codeLen], s[codeLen:]
	if code == SplashCode {
		return Address{Code: SplashCode}, nil
	}

	category := ""
	for _, c := range codes {
		if c.code == code {
			category = c.category
			break
		}
	}
	if category == "" {
		return Address{}, fmt.Errorf("%q: %w", s, ErrUnknownCode)
	}

	id, err := strconv.Atoi(digits)
	if err != nil || id < 0 || digits[0] == '+' || digits[0] == '-' {
		return Address{}, fmt.Errorf("%q: %w", s, ErrBadAddress)
	}
	return Address{Code: code, Category: category, ID: id}, nil
}
