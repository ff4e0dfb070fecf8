package graph

import (
	"fmt"

	"github.com/ohler55/ojg/jp"
)

// Query evaluates a JSONPath expression against the store viewed as
// {"<category>": [<record>, ...], ...}. When the path names a category
// directly after the root, only that category is materialized.
func (s *Store) Query(selector string) ([]any, error) {
	x, err := jp.ParseString(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid jsonpath '%s': %w", selector, err)
	}
	return x.Get(s.generic(x)), nil
}

func (s *Store) generic(x jp.Expr) map[string]any {
	cats := s.order
	if len(x) > 1 {
		if c, ok := x[1].(jp.Child); ok {
			cats = nil
			if s.Has(string(c)) {
				cats = []string{string(c)}
			}
		}
	}

	root := make(map[string]any, len(cats))
	for _, name := range cats {
		recs := s.Records(name)
		arr := make([]any, len(recs))
		for i, r := range recs {
			arr[i] = r.Generic()
		}
		root[name] = arr
	}
	return root
}
