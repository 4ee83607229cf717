package jobsearch

import (
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/job-board/internal/db"
)

// Predicate is a condition on job postings. It renders as a parameterized SQL
// expression for the store and evaluates directly against a posting, and the
// two forms agree.
type Predicate interface {
	db.Clause
	Match(p *db.JobPosting) bool
}

// Build maps a filter to the predicate a search runs with. ActiveStatus is
// always included; every other term is added only when its filter is set.
func Build(f Filter) Predicate {
	terms := []Predicate{ActiveStatus()}
	if f.Keyword != "" {
		terms = append(terms, Keyword(f.Keyword))
	}
	if f.Industry != "" {
		terms = append(terms, Industry(f.Industry))
	}
	if f.Location != "" {
		terms = append(terms, Location(f.Location))
	}
	if salary := Salary(f.Salary); salary != nil {
		terms = append(terms, salary)
	}
	return All(terms...)
}

// -----------------------------------------------------------------------------
// Combinators
// -----------------------------------------------------------------------------

type allOf []Predicate

// All is the conjunction of ps. With no terms it matches everything.
func All(ps ...Predicate) Predicate { return allOf(ps) }

func (a allOf) SQL(args *db.Args) string {
	if len(a) == 0 {
		return "TRUE"
	}
	parts := make([]string, len(a))
	for i, p := range a {
		parts[i] = p.SQL(args)
	}
	return "(" + strings.Join(parts, " AND ") + ")"
}

func (a allOf) Match(p *db.JobPosting) bool {
	for _, term := range a {
		if !term.Match(p) {
			return false
		}
	}
	return true
}

type anyOf []Predicate

// Any is the disjunction of ps. With no terms it matches nothing.
func Any(ps ...Predicate) Predicate { return anyOf(ps) }

func (a anyOf) SQL(args *db.Args) string {
	if len(a) == 0 {
		return "FALSE"
	}
	parts := make([]string, len(a))
	for i, p := range a {
		parts[i] = p.SQL(args)
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

func (a anyOf) Match(p *db.JobPosting) bool {
	for _, term := range a {
		if term.Match(p) {
			return true
		}
	}
	return false
}

// -----------------------------------------------------------------------------
// Field predicates
// -----------------------------------------------------------------------------

type activeStatus struct{}

// ActiveStatus matches published postings only.
func ActiveStatus() Predicate { return activeStatus{} }

func (activeStatus) SQL(args *db.Args) string {
	return "j.status = " + args.Add(string(db.JobStatusActive))
}

func (activeStatus) Match(p *db.JobPosting) bool { return p.Status == db.JobStatusActive }

type keyword string

// Keyword matches postings whose title or description contains k, ignoring case.
func Keyword(k string) Predicate { return keyword(k) }

func (k keyword) SQL(args *db.Args) string {
	ph := args.Add(db.ContainsPattern(string(k)))
	return "(j.title ILIKE " + ph + " OR j.description ILIKE " + ph + ")"
}

func (k keyword) Match(p *db.JobPosting) bool {
	return containsFold(p.Title, string(k)) || containsFold(p.Description, string(k))
}

type industry string

// Industry matches postings in exactly the given category.
func Industry(code string) Predicate { return industry(code) }

func (i industry) SQL(args *db.Args) string { return "j.industry = " + args.Add(string(i)) }

func (i industry) Match(p *db.JobPosting) bool { return p.Industry == string(i) }

type location string

// Location matches postings whose location contains loc, ignoring case.
func Location(loc string) Predicate { return location(loc) }

func (l location) SQL(args *db.Args) string {
	return "j.location ILIKE " + args.Add(db.ContainsPattern(string(l)))
}

func (l location) Match(p *db.JobPosting) bool { return containsFold(p.Location, string(l)) }

type companyIs uuid.UUID

// CompanyIs matches postings of one company.
func CompanyIs(id uuid.UUID) Predicate { return companyIs(id) }

func (c companyIs) SQL(args *db.Args) string { return "j.company_id = " + args.Add(uuid.UUID(c)) }

func (c companyIs) Match(p *db.JobPosting) bool { return p.CompanyID == uuid.UUID(c) }

type excludeID uuid.UUID

// ExcludeID matches every posting except one.
func ExcludeID(id uuid.UUID) Predicate { return excludeID(id) }

func (e excludeID) SQL(args *db.Args) string { return "j.id <> " + args.Add(uuid.UUID(e)) }

func (e excludeID) Match(p *db.JobPosting) bool { return p.ID != uuid.UUID(e) }

// -----------------------------------------------------------------------------
// Salary predicates
//
// A posting bound that is NULL never satisfies a comparison, in SQL and in
// Match alike.
// -----------------------------------------------------------------------------

// Salary returns the predicate for a requested range, or nil when the range
// has no bounds.
//   - both bounds: SalaryOverlap
//   - only min:    SalaryFloor
//   - only max:    SalaryCeiling
func Salary(r SalaryRange) Predicate {
	switch {
	case r.Min != nil && r.Max != nil:
		return SalaryOverlap(*r.Min, *r.Max)
	case r.Min != nil:
		return SalaryFloor(*r.Min)
	case r.Max != nil:
		return SalaryCeiling(*r.Max)
	}
	return nil
}

type salaryOverlap struct{ min, max int64 }

// SalaryOverlap matches postings satisfying any of:
//
//	(a) posting.min <= hi AND posting.max >= lo
//	(b) lo <= posting.min <= hi
//	(c) lo <= posting.max <= hi
//
// (b) and (c) add nothing to (a) for complete ranges but still match
// postings that declare only one bound.
func SalaryOverlap(lo, hi int64) Predicate { return salaryOverlap{min: lo, max: hi} }

func (s salaryOverlap) SQL(args *db.Args) string {
	lo := args.Add(s.min)
	hi := args.Add(s.max)
	return "((j.salary_min <= " + hi + " AND j.salary_max >= " + lo + ")" +
		" OR (j.salary_min >= " + lo + " AND j.salary_min <= " + hi + ")" +
		" OR (j.salary_max >= " + lo + " AND j.salary_max <= " + hi + "))"
}

func (s salaryOverlap) Match(p *db.JobPosting) bool {
	pmin, pmax := p.Salary.Min, p.Salary.Max
	overlaps := pmin != nil && pmax != nil && *pmin <= s.max && *pmax >= s.min
	minInside := pmin != nil && *pmin >= s.min && *pmin <= s.max
	maxInside := pmax != nil && *pmax >= s.min && *pmax <= s.max
	return overlaps || minInside || maxInside
}

type salaryFloor int64

// SalaryFloor matches postings whose upper bound reaches at least floor.
func SalaryFloor(floor int64) Predicate { return salaryFloor(floor) }

func (s salaryFloor) SQL(args *db.Args) string { return "j.salary_max >= " + args.Add(int64(s)) }

func (s salaryFloor) Match(p *db.JobPosting) bool {
	return p.Salary.Max != nil && *p.Salary.Max >= int64(s)
}

type salaryCeiling int64

// SalaryCeiling matches postings whose lower bound is at most ceiling.
func SalaryCeiling(ceiling int64) Predicate { return salaryCeiling(ceiling) }

func (s salaryCeiling) SQL(args *db.Args) string { return "j.salary_min <= " + args.Add(int64(s)) }

func (s salaryCeiling) Match(p *db.JobPosting) bool {
	return p.Salary.Min != nil && *p.Salary.Min <= int64(s)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
