// Package triage implements the list side of the admin screens: search, filter,
// sort and paginate over a fetched collection, plus the local optimistic store.
package triage

import (
	"strconv"
	"strings"

	"estate_leads_backend/internal/common"

	"github.com/gin-gonic/gin"
)

// FilterAll disables a filter.
const FilterAll = "all"

// PropertyPageSize is the fixed page size of the properties screen.
const PropertyPageSize = 10

// SortKey is one key of a multi-key sort.
type SortKey struct {
	Field string `json:"field"`
	Desc  bool   `json:"desc"`
}

// Query describes one list request.
type Query struct {
	Search  string            `json:"search,omitempty"`
	Filters map[string]string `json:"filters,omitempty"`
	Sort    []SortKey         `json:"sort,omitempty"`
	Page    int               `json:"page,omitempty"`
	Limit   int               `json:"limit,omitempty"`
}

// ParseQuery reads a Query from the request. Only the named filter keys are read.
//
//	?search=marina&status=new&sort=price,-created_at&page=2&page_size=50
//	?q=marina&sort=price&order=desc&limit=50
func ParseQuery(c *gin.Context, filterKeys ...string) Query {
	q := Query{
		Search:  strings.TrimSpace(c.Query("search")),
		Filters: make(map[string]string, len(filterKeys)),
		Page:    common.DefaultPage,
	}
	if q.Search == "" {
		q.Search = strings.TrimSpace(c.Query("q"))
	}
	for _, key := range filterKeys {
		if v := strings.TrimSpace(c.Query(key)); v != "" {
			q.Filters[key] = v
		}
	}
	q.Sort = ParseSort(c.Query("sort"), c.Query("order"))

	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		q.Page = page
	}
	for _, key := range []string{"page_size", "limit"} {
		if limit, err := strconv.Atoi(c.Query(key)); err == nil && limit > 0 {
			q.Limit = limit
			break
		}
	}
	return q
}

// ParseSort parses "price,-created_at". A leading '-' means descending. When a
// single key is given without a prefix, order=desc flips it.
func ParseSort(raw, order string) []SortKey {
	var keys []SortKey
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" || part == "-" {
			continue
		}
		key := SortKey{Field: part}
		if strings.HasPrefix(part, "-") {
			key = SortKey{Field: part[1:], Desc: true}
		}
		keys = append(keys, key)
	}
	if len(keys) == 1 && !strings.HasPrefix(strings.TrimSpace(raw), "-") && strings.EqualFold(order, "desc") {
		keys[0].Desc = true
	}
	return keys
}
