// Package jobsearch implements the public job search: it turns optional
// search filters and a page request into a store query and returns one page
// of active postings together with the total number of matches.
package jobsearch

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Paging defaults.
const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// SalaryRange is a requested pay range; either bound may be absent.
type SalaryRange struct {
	Min *int64
	Max *int64
}

// IsZero reports whether neither bound is set.
func (r SalaryRange) IsZero() bool {
	return r.Min == nil && r.Max == nil
}

// Filter is one search request. Empty strings and a zero SalaryRange impose no
// constraint. Page and PageSize are coerced by Limits.Normalize before use.
type Filter struct {
	Keyword  string
	Industry string
	Location string
	Salary   SalaryRange
	Page     int
	PageSize int
}

// ParseSalaryRange parses "<min>-<max>". Either side may be missing, zero or
// non-numeric, in which case that bound is absent. Fractional bounds are
// truncated. Anything after a second
// dash is ignored.
func ParseSalaryRange(s string) SalaryRange {
	parts := strings.Split(s, "-")
	var r SalaryRange
	r.Min = parseBound(parts[0])
	if len(parts) > 1 {
		r.Max = parseBound(parts[1])
	}
	return r
}

// parseBound accepts decimal and exponent forms ("25000000.5", "2.5e7") and
// truncates toward zero. Values below 1, NaN and infinities are absent.
func parseBound(s string) *int64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	f = math.Trunc(f)
	if f < 1 {
		return nil
	}
	if f >= math.MaxInt64 {
		v := int64(math.MaxInt64)
		return &v
	}
	v := int64(f)
	return &v
}

// ParseQuery builds a Filter from URL query parameters: keyword, industry,
// location, salary, page and limit.
func ParseQuery(q url.Values) Filter {
	return Filter{
		Keyword:  strings.TrimSpace(q.Get("keyword")),
		Industry: strings.TrimSpace(q.Get("industry")),
		Location: strings.TrimSpace(q.Get("location")),
		Salary:   ParseSalaryRange(q.Get("salary")),
		Page:     parseLeadingInt(q.Get("page")),
		PageSize: parseLeadingInt(q.Get("limit")),
	}
}

// parseLeadingInt reads an optionally signed run of leading digits, so "3",
// " 3" and "3abc" all give 3. Input without leading digits gives 0. Values
// are capped at math.MaxInt32.
func parseLeadingInt(s string) int {
	s = strings.TrimSpace(s)
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}

	n := 0
	digits := 0
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			break
		}
		digits++
		if n < math.MaxInt32 {
			n = n*10 + int(ch-'0')
		}
	}
	if digits == 0 {
		return 0
	}
	if n > math.MaxInt32 {
		n = math.MaxInt32
	}
	if neg {
		return -n
	}
	return n
}

// Limits bounds page sizes for an Engine.
type Limits struct {
	DefaultPageSize int
	MaxPageSize     int
}

// DefaultLimits returns the standard paging limits.
func DefaultLimits() Limits {
	return Limits{DefaultPageSize: DefaultPageSize, MaxPageSize: MaxPageSize}
}

// Normalize coerces a filter's paging: a page below 1 becomes 1, a page size
// below 1 becomes the default, and a page size above the maximum is clamped.
func (l Limits) Normalize(f Filter) Filter {
	def := l.DefaultPageSize
	if def < 1 {
		def = DefaultPageSize
	}

	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.PageSize < 1 {
		f.PageSize = def
	}
	if l.MaxPageSize > 0 && f.PageSize > l.MaxPageSize {
		f.PageSize = l.MaxPageSize
	}
	return f
}
