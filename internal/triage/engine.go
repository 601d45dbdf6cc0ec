package triage

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"estate_leads_backend/internal/common"
)

// Config parameterizes the engine for one screen.
type Config[T any] struct {
	// Search lists the text fields the search term is matched against.
	Search []func(T) string
	// Filters maps a filter key (status, category, ...) to the field it matches.
	Filters map[string]func(T) string
	// Sorters maps a sort key to an ascending comparator. Nil disables sorting.
	Sorters map[string]func(a, b T) int
	// PageSize enables pagination with a fixed page size.
	PageSize int
}

// Page is the result of Apply.
type Page[T any] struct {
	Items      []T
	Total      int
	Pagination *common.Pagination
}

// Apply runs filter, search, sort, limit and pagination, in that order. The input
// slice is not modified.
func (cfg Config[T]) Apply(items []T, q Query) Page[T] {
	out := make([]T, 0, len(items))
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	for _, item := range items {
		if !cfg.matchesFilters(item, q.Filters) {
			continue
		}
		if needle != "" && !cfg.matchesSearch(item, needle) {
			continue
		}
		out = append(out, item)
	}

	if cmpFn := cfg.comparator(q.Sort); cmpFn != nil {
		slices.SortStableFunc(out, cmpFn)
	}

	if q.Limit > 0 && cfg.PageSize == 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}

	page := Page[T]{Items: out, Total: len(out)}
	if cfg.PageSize > 0 {
		current := q.Page
		if current <= 0 {
			current = common.DefaultPage
		}
		page.Pagination = common.NewPagination(int64(len(out)), current, cfg.PageSize)
		start := (current - 1) * cfg.PageSize
		if start >= len(out) {
			page.Items = []T{}
		} else {
			end := min(start+cfg.PageSize, len(out))
			page.Items = out[start:end]
		}
	}
	return page
}

func (cfg Config[T]) matchesFilters(item T, filters map[string]string) bool {
	for key, want := range filters {
		if want == "" || strings.EqualFold(want, FilterAll) {
			continue
		}
		field, ok := cfg.Filters[key]
		if !ok {
			continue
		}
		if field(item) != want {
			return false
		}
	}
	return true
}

func (cfg Config[T]) matchesSearch(item T, needle string) bool {
	for _, field := range cfg.Search {
		if strings.Contains(strings.ToLower(field(item)), needle) {
			return true
		}
	}
	return false
}

func (cfg Config[T]) comparator(keys []SortKey) func(a, b T) int {
	if len(cfg.Sorters) == 0 {
		return nil
	}
	var fns []func(a, b T) int
	for _, key := range keys {
		fn, ok := cfg.Sorters[key.Field]
		if !ok {
			continue
		}
		if key.Desc {
			asc := fn
			fn = func(a, b T) int { return asc(b, a) }
		}
		fns = append(fns, fn)
	}
	if len(fns) == 0 {
		return nil
	}
	return func(a, b T) int {
		for _, fn := range fns {
			if c := fn(a, b); c != 0 {
				return c
			}
		}
		return 0
	}
}

// ByString compares a text field case-insensitively.
func ByString[T any](field func(T) string) func(a, b T) int {
	return func(a, b T) int {
		return cmp.Compare(strings.ToLower(field(a)), strings.ToLower(field(b)))
	}
}

// ByNumber compares an ordered field.
func ByNumber[T any, N cmp.Ordered](field func(T) N) func(a, b T) int {
	return func(a, b T) int { return cmp.Compare(field(a), field(b)) }
}

// ByTime compares a timestamp field.
func ByTime[T any](field func(T) time.Time) func(a, b T) int {
	return func(a, b T) int { return field(a).Compare(field(b)) }
}

// ByBool orders false before true.
func ByBool[T any](field func(T) bool) func(a, b T) int {
	return func(a, b T) int {
		x, y := field(a), field(b)
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		}
		return 1
	}
}
