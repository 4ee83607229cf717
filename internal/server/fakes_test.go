package server

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/job-board/internal/appstatus"
	"github.com/jonathan/job-board/internal/db"
	"github.com/jonathan/job-board/internal/events"
	"github.com/jonathan/job-board/internal/jobsearch"
	"github.com/jonathan/job-board/internal/types"
)

// memStore is an in-memory Store. Search clauses are evaluated through
// jobsearch.Predicate.Match.
type memStore struct {
	mu           sync.Mutex
	users        map[uuid.UUID]*db.User
	companies    map[uuid.UUID]*db.Company
	reviews      []db.CompanyReview
	jobs         map[uuid.UUID]*db.JobPosting
	cvs          map[uuid.UUID]*db.CV
	applications map[uuid.UUID]*db.Application

	pingErr   error
	searchErr error
	clock     time.Time
}

func newMemStore() *memStore {
	return &memStore{
		users:        make(map[uuid.UUID]*db.User),
		companies:    make(map[uuid.UUID]*db.Company),
		jobs:         make(map[uuid.UUID]*db.JobPosting),
		cvs:          make(map[uuid.UUID]*db.CV),
		applications: make(map[uuid.UUID]*db.Application),
		clock:        time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
	}
}

// tick returns a strictly increasing timestamp so ordering is deterministic
func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Minute)
	return m.clock
}

func (m *memStore) Ping(context.Context) error { return m.pingErr }

// Users

func (m *memStore) CreateUser(_ context.Context, in *db.UserCreateInput) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, in.Email) {
			return nil, db.ErrDuplicate
		}
	}
	now := m.tick()
	u := &db.User{
		ID: uuid.New(), Name: in.Name, Email: in.Email, Role: in.Role,
		Phone: in.Phone, PasswordHash: in.PasswordHash, CreatedAt: now, UpdatedAt: now,
	}
	m.users[u.ID] = u
	cp := *u
	return &cp, nil
}

func (m *memStore) GetUser(_ context.Context, id uuid.UUID) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	u, err := m.GetUserByEmail(ctx, email)
	return u != nil, err
}

func (m *memStore) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return fmt.Errorf("user not found: %s", id)
	}
	u.PasswordHash = hash
	return nil
}

func (m *memStore) UpdateUserProfile(_ context.Context, id uuid.UUID, upd *db.UserProfileUpdate) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	setString(&u.Name, upd.Name)
	setString(&u.Phone, upd.Phone)
	setString(&u.Address, upd.Address)
	setString(&u.Avatar, upd.Avatar)
	u.UpdatedAt = m.tick()
	cp := *u
	return &cp, nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// Job postings

func (m *memStore) match(where db.Clause) []db.JobPosting {
	pred, ok := where.(jobsearch.Predicate)
	if !ok {
		panic(fmt.Sprintf("unexpected clause type %T", where))
	}
	var out []db.JobPosting
	for _, j := range m.jobs {
		if pred.Match(j) {
			out = append(out, *j)
		}
	}
	sort.Slice(out, func(i, k int) bool {
		if !out[i].PostedDate.Equal(out[k].PostedDate) {
			return out[i].PostedDate.After(out[k].PostedDate)
		}
		return bytes.Compare(out[i].ID[:], out[k].ID[:]) > 0
	})
	return out
}

func (m *memStore) CountJobPostings(_ context.Context, where db.Clause) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.searchErr != nil {
		return 0, m.searchErr
	}
	return len(m.match(where)), nil
}

func (m *memStore) FindJobPostings(_ context.Context, where db.Clause, limit, offset int) ([]db.JobPosting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	all := m.match(where)
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (m *memStore) GetJobPostingByID(_ context.Context, id uuid.UUID) (*db.JobPosting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	if !ok {
		return nil, nil
	}
	cp := *j
	return &cp, nil
}

func (m *memStore) ListJobPostingsByUser(_ context.Context, userID uuid.UUID) ([]db.JobPosting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []db.JobPosting{}
	for _, j := range m.jobs {
		if j.UserID == userID {
			out = append(out, *j)
		}
	}
	return out, nil
}

func (m *memStore) CreateJobPosting(_ context.Context, in *db.JobPostingCreateInput) (*db.JobPosting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.tick()
	j := &db.JobPosting{
		ID: uuid.New(), CompanyID: in.CompanyID, UserID: in.UserID, Title: in.Title,
		Description: in.Description, Requirements: in.Requirements, Benefits: in.Benefits,
		Salary: in.Salary, Location: in.Location, Industry: in.Industry, Level: in.Level,
		Type: in.Type, Status: in.Status, PostedDate: now, UpdatedAt: now,
	}
	m.jobs[j.ID] = j
	cp := *j
	return &cp, nil
}

func (m *memStore) UpdateJobPosting(_ context.Context, id uuid.UUID, upd *db.JobPostingUpdate) (*db.JobPosting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	if !ok {
		return nil, nil
	}
	setString(&j.Title, upd.Title)
	setString(&j.Description, upd.Description)
	setString(&j.Requirements, upd.Requirements)
	setString(&j.Benefits, upd.Benefits)
	setString(&j.Location, upd.Location)
	setString(&j.Industry, upd.Industry)
	setString(&j.Level, upd.Level)
	setString(&j.Type, upd.Type)
	if upd.Salary != nil {
		j.Salary = *upd.Salary
	}
	if upd.Status != nil {
		j.Status = *upd.Status
	}
	j.UpdatedAt = m.tick()
	cp := *j
	return &cp, nil
}

func (m *memStore) DeleteJobPosting(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.jobs, id)
	return nil
}

// Companies

func (m *memStore) CreateCompany(_ context.Context, in *db.CompanyCreateInput) (*db.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	norm := db.NormalizeName(in.Name)
	for _, c := range m.companies {
		if c.NameNormalized == norm {
			return nil, db.ErrDuplicate
		}
	}
	now := m.tick()
	c := &db.Company{
		ID: uuid.New(), UserID: in.UserID, Name: in.Name, NameNormalized: norm,
		Logo: in.Logo, CoverImage: in.CoverImage, Description: in.Description, Size: in.Size,
		Website: in.Website, Industry: in.Industry, Location: in.Location,
		CreatedAt: now, UpdatedAt: now,
	}
	m.companies[c.ID] = c
	cp := *c
	return &cp, nil
}

func (m *memStore) GetCompanyByID(_ context.Context, id uuid.UUID) (*db.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.companies[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (m *memStore) sortedCompanies(keep func(*db.Company) bool) []db.Company {
	out := []db.Company{}
	for _, c := range m.companies {
		if keep(c) {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, k int) bool {
		if out[i].Rating != out[k].Rating {
			return out[i].Rating > out[k].Rating
		}
		return out[i].Name < out[k].Name
	})
	return out
}

func (m *memStore) ListCompanies(_ context.Context, opts db.ListCompaniesOptions) ([]db.Company, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.sortedCompanies(func(c *db.Company) bool {
		if opts.Name != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(opts.Name)) {
			return false
		}
		if opts.Industry != "" && c.Industry != opts.Industry {
			return false
		}
		if opts.Location != "" && !strings.Contains(strings.ToLower(c.Location), strings.ToLower(opts.Location)) {
			return false
		}
		return true
	})
	total := len(all)
	if opts.Offset >= total {
		return []db.Company{}, total, nil
	}
	all = all[opts.Offset:]
	if opts.Limit > 0 && opts.Limit < len(all) {
		all = all[:opts.Limit]
	}
	return all, total, nil
}

func (m *memStore) ListTopCompanies(_ context.Context, n int) ([]db.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.sortedCompanies(func(*db.Company) bool { return true })
	if n < len(all) {
		all = all[:n]
	}
	return all, nil
}

func (m *memStore) ListCompaniesByUser(_ context.Context, userID uuid.UUID) ([]db.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sortedCompanies(func(c *db.Company) bool { return c.UserID == userID }), nil
}

func (m *memStore) UpdateCompany(_ context.Context, id uuid.UUID, upd *db.CompanyUpdate) (*db.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.companies[id]
	if !ok {
		return nil, nil
	}
	if upd.Name != nil {
		norm := db.NormalizeName(*upd.Name)
		for _, other := range m.companies {
			if other.ID != id && other.NameNormalized == norm {
				return nil, db.ErrDuplicate
			}
		}
		c.Name, c.NameNormalized = *upd.Name, norm
	}
	setString(&c.Logo, upd.Logo)
	setString(&c.CoverImage, upd.CoverImage)
	setString(&c.Description, upd.Description)
	setString(&c.Size, upd.Size)
	setString(&c.Website, upd.Website)
	setString(&c.Industry, upd.Industry)
	setString(&c.Location, upd.Location)
	c.UpdatedAt = m.tick()
	cp := *c
	return &cp, nil
}

func (m *memStore) ListCompanyReviews(_ context.Context, companyID uuid.UUID) ([]db.CompanyReview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []db.CompanyReview{}
	for _, r := range m.reviews {
		if r.CompanyID == companyID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) AddCompanyReview(_ context.Context, in *db.CompanyReviewInput) (*db.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.companies[in.CompanyID]
	if !ok {
		return nil, fmt.Errorf("company not found: %s", in.CompanyID)
	}
	var ratings []int
	for _, r := range m.reviews {
		if r.CompanyID != in.CompanyID {
			continue
		}
		if r.UserID == in.UserID {
			return nil, db.ErrDuplicate
		}
		ratings = append(ratings, r.Rating)
	}
	m.reviews = append(m.reviews, db.CompanyReview{
		ID: uuid.New(), CompanyID: in.CompanyID, UserID: in.UserID, Rating: in.Rating,
		Title: in.Title, Position: in.Position, EmploymentStatus: in.EmploymentStatus,
		Pros: in.Pros, Cons: in.Cons, Comment: in.Comment, CreatedAt: m.tick(),
	})
	ratings = append(ratings, in.Rating)
	c.Rating = db.AverageRating(ratings)
	c.ReviewCount = len(ratings)
	cp := *c
	return &cp, nil
}

// CVs

func (m *memStore) CreateCV(_ context.Context, in *db.CVInput) (*db.CV, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.tick()
	cv := &db.CV{
		ID: uuid.New(), UserID: in.UserID, Title: in.Title, TemplateID: in.TemplateID,
		Content: in.Content, CreatedAt: now, UpdatedAt: now,
	}
	m.cvs[cv.ID] = cv
	cp := *cv
	return &cp, nil
}

func (m *memStore) GetCVByID(_ context.Context, id uuid.UUID) (*db.CV, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cv, ok := m.cvs[id]
	if !ok {
		return nil, nil
	}
	cp := *cv
	return &cp, nil
}

func (m *memStore) ListCVsByUser(_ context.Context, userID uuid.UUID) ([]db.CV, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []db.CV{}
	for _, cv := range m.cvs {
		if cv.UserID == userID {
			out = append(out, *cv)
		}
	}
	return out, nil
}

func (m *memStore) UpdateCV(_ context.Context, id uuid.UUID, in *db.CVInput) (*db.CV, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cv, ok := m.cvs[id]
	if !ok {
		return nil, nil
	}
	cv.Title, cv.TemplateID, cv.Content = in.Title, in.TemplateID, in.Content
	cv.UpdatedAt = m.tick()
	cp := *cv
	return &cp, nil
}

func (m *memStore) DeleteCV(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.cvs, id)
	return nil
}

// Applications

func (m *memStore) joined(a *db.Application) db.Application {
	cp := *a
	if j, ok := m.jobs[a.JobID]; ok {
		job := &db.ApplicationJob{ID: j.ID, Title: j.Title, OwnerID: j.UserID}
		if c, ok := m.companies[j.CompanyID]; ok {
			job.CompanyName = c.Name
		}
		cp.Job = job
	}
	if u, ok := m.users[a.UserID]; ok {
		cp.Applicant = &db.ApplicantSummary{Name: u.Name, Email: u.Email}
	}
	return cp
}

func (m *memStore) CreateApplication(_ context.Context, in *db.ApplicationCreateInput) (*db.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.applications {
		if a.UserID == in.UserID && a.JobID == in.JobID {
			return nil, db.ErrDuplicate
		}
	}
	now := m.tick()
	a := &db.Application{
		ID: uuid.New(), UserID: in.UserID, JobID: in.JobID, CVID: in.CVID,
		CoverLetter: in.CoverLetter, Status: appstatus.Pending, AppliedAt: now, UpdatedAt: now,
	}
	m.applications[a.ID] = a
	out := m.joined(a)
	return &out, nil
}

func (m *memStore) ApplicationExists(_ context.Context, userID, jobID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.applications {
		if a.UserID == userID && a.JobID == jobID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) GetApplicationByID(_ context.Context, id uuid.UUID) (*db.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.applications[id]
	if !ok {
		return nil, nil
	}
	out := m.joined(a)
	return &out, nil
}

func (m *memStore) listApplications(keep func(*db.Application) bool) []db.Application {
	out := []db.Application{}
	for _, a := range m.applications {
		if keep(a) {
			out = append(out, m.joined(a))
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].AppliedAt.After(out[k].AppliedAt) })
	return out
}

func (m *memStore) ListApplicationsByUser(_ context.Context, userID uuid.UUID) ([]db.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listApplications(func(a *db.Application) bool { return a.UserID == userID }), nil
}

func (m *memStore) ListApplicationsByRecruiter(_ context.Context, recruiterID uuid.UUID) ([]db.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listApplications(func(a *db.Application) bool {
		j, ok := m.jobs[a.JobID]
		return ok && j.UserID == recruiterID
	}), nil
}

func (m *memStore) ListApplicationsByJob(_ context.Context, jobID uuid.UUID) ([]db.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listApplications(func(a *db.Application) bool { return a.JobID == jobID }), nil
}

func (m *memStore) UpdateApplication(_ context.Context, id uuid.UUID, upd *db.ApplicationUpdate) (*db.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.applications[id]
	if !ok {
		return nil, nil
	}
	if upd.Status != nil {
		a.Status = *upd.Status
	}
	setString(&a.Notes, upd.Notes)
	a.UpdatedAt = m.tick()
	out := m.joined(a)
	return &out, nil
}

func (m *memStore) DeleteApplication(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.applications, id)
	return nil
}

// Seeding helpers

func (m *memStore) addUser(role types.Role) *db.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.tick()
	u := &db.User{ID: uuid.New(), Name: string(role) + " user", Email: uuid.NewString() + "@example.com", Role: role, CreatedAt: now, UpdatedAt: now}
	m.users[u.ID] = u
	return u
}

func (m *memStore) addCompany(owner uuid.UUID, name string) *db.Company {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := &db.Company{ID: uuid.New(), UserID: owner, Name: name, NameNormalized: db.NormalizeName(name), Industry: "it"}
	m.companies[c.ID] = c
	return c
}

func (m *memStore) addJob(owner uuid.UUID, company *db.Company, title string, status db.JobStatus) *db.JobPosting {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.tick()
	j := &db.JobPosting{
		ID: uuid.New(), CompanyID: company.ID, UserID: owner, Title: title,
		Description: "Build things", Location: "Hà Nội", Industry: "it", Type: "fulltime",
		Status: status, Salary: db.Salary{Currency: db.DefaultSalaryCurrency},
		PostedDate: now, UpdatedAt: now,
		Company: &db.CompanySummary{ID: company.ID, Name: company.Name},
	}
	m.jobs[j.ID] = j
	return j
}

func (m *memStore) addCV(owner uuid.UUID) *db.CV {
	m.mu.Lock()
	defer m.mu.Unlock()
	cv := &db.CV{ID: uuid.New(), UserID: owner, Title: "My CV", TemplateID: db.CVTemplateSimple, Content: []byte(`{}`)}
	m.cvs[cv.ID] = cv
	return cv
}

func (m *memStore) addApplication(user uuid.UUID, job *db.JobPosting, cv *db.CV, status appstatus.Status) *db.Application {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.tick()
	a := &db.Application{ID: uuid.New(), UserID: user, JobID: job.ID, CVID: cv.ID, Status: status, AppliedAt: now, UpdatedAt: now}
	m.applications[a.ID] = a
	return a
}

// recordingPublisher keeps every published event
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}
