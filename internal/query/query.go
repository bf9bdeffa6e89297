// Package query builds the filter and sort part of listing queries from a
// fixed per-listing schema. Request values never reach the SQL text: filters
// are bound as parameters and sort keys are looked up in an allow-list.
package query

import (
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"store-rating/internal/domain"
)

type Match int

const (
	Contains Match = iota // case-insensitive substring
	Equals                // case-insensitive equality
)

type Filter struct {
	Column string
	Match  Match
}

// Schema describes what a listing accepts. Filters and Sorts map request
// tokens to column expressions; DefaultOrder is used when no sort is given.
type Schema struct {
	Filters      map[string]Filter
	Sorts        map[string]string
	DefaultOrder string
}

// Apply adds WHERE and ORDER BY clauses to db. Unknown filter keys are
// ignored, an unknown sort key is a validation error.
func (s Schema) Apply(db *gorm.DB, p domain.ListParams) (*gorm.DB, error) {
	keys := make([]string, 0, len(p.Filters))
	for k := range p.Filters {
		keys = append(keys, k)
	}
	sort.Strings(keys) // stable SQL text

	for _, k := range keys {
		f, ok := s.Filters[k]
		if !ok {
			continue
		}
		v := strings.TrimSpace(p.Filters[k])
		if v == "" {
			continue
		}
		switch f.Match {
		case Contains:
			db = db.Where("LOWER("+f.Column+") LIKE ?", "%"+escapeLike(strings.ToLower(v))+"%")
		case Equals:
			db = db.Where("LOWER("+f.Column+") = ?", strings.ToLower(v))
		}
	}

	order, err := s.order(p.SortBy, p.SortOrder)
	if err != nil {
		return nil, err
	}
	if order != nil {
		db = db.Order(*order)
	}
	return db, nil
}

func (s Schema) order(sortBy, sortOrder string) (*clause.OrderByColumn, error) {
	col := s.DefaultOrder
	if key := strings.TrimSpace(sortBy); key != "" {
		c, ok := s.Sorts[key]
		if !ok {
			return nil, fmt.Errorf("%w: cannot sort by %q", domain.ErrValidation, key)
		}
		col = c
	}
	if col == "" {
		return nil, nil
	}
	return &clause.OrderByColumn{
		Column: clause.Column{Name: col, Raw: true},
		Desc:   strings.EqualFold(strings.TrimSpace(sortOrder), "desc"),
	}, nil
}

// SortKeys returns the accepted sort tokens, sorted.
func (s Schema) SortKeys() []string {
	out := make([]string, 0, len(s.Sorts))
	for k := range s.Sorts {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
