package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"swimteam/swimlog/internal/domain"
	"swimteam/swimlog/internal/repository"
)

// memDB is an in-memory backend for service tests.
type memDB struct {
	mu       sync.Mutex
	seq      int
	profiles map[string]domain.Profile
	training map[string]domain.TrainingEntry
	rhr      map[string]domain.RestingHeartRateEntry
	body     map[string]domain.BodyMetricEntry
	comments map[string]domain.WeeklyComment
	plans    map[string]domain.TechniquePlan
	goals    map[string]domain.SeasonGoal
	settings map[string]domain.Settings
	links    map[string]domain.MagicLink
	exports  []domain.ExportRecord

	failExportCreate bool
	failNoteWrites   bool
}

func newMemDB() *memDB {
	return &memDB{
		profiles: map[string]domain.Profile{},
		training: map[string]domain.TrainingEntry{},
		rhr:      map[string]domain.RestingHeartRateEntry{},
		body:     map[string]domain.BodyMetricEntry{},
		comments: map[string]domain.WeeklyComment{},
		plans:    map[string]domain.TechniquePlan{},
		goals:    map[string]domain.SeasonGoal{},
		settings: map[string]domain.Settings{},
		links:    map[string]domain.MagicLink{},
	}
}

func (db *memDB) store() repository.Store {
	return repository.Store{
		Profiles:   memProfiles{db},
		Training:   memTraining{db},
		RHR:        memRHR{db},
		Body:       memBody{db},
		Comments:   memComments{db},
		Plans:      memPlans{db},
		Goals:      memGoals{db},
		Settings:   memSettings{db},
		MagicLinks: memLinks{db},
		Exports:    memExports{db},
	}
}

func (db *memDB) nextID(prefix string) string {
	db.seq++
	return fmt.Sprintf("%s-%d", prefix, db.seq)
}

func (db *memDB) addProfile(id, username, email string, role domain.Role) domain.Profile {
	db.mu.Lock()
	defer db.mu.Unlock()
	p := domain.Profile{ID: id, Username: username, Email: email, Role: role}
	db.profiles[id] = p
	return p
}

func inRange(date string, r repository.DateRange) bool {
	return (r.From == "" || date >= r.From) && (r.To == "" || date <= r.To)
}

type memProfiles struct{ db *memDB }

func (m memProfiles) Create(_ context.Context, p *domain.Profile) (string, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if p.ID == "" {
		p.ID = m.db.nextID("profile")
	}
	m.db.profiles[p.ID] = *p
	return p.ID, nil
}

func (m memProfiles) GetByID(_ context.Context, id string) (*domain.Profile, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	p, ok := m.db.profiles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (m memProfiles) GetByEmail(_ context.Context, email string) (*domain.Profile, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, p := range m.db.profiles {
		if p.Email == email {
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m memProfiles) ListByRole(_ context.Context, role domain.Role) ([]domain.Profile, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var out []domain.Profile
	for _, p := range m.db.profiles {
		if p.Role == role {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

type memTraining struct{ db *memDB }

func (m memTraining) Create(_ context.Context, e *domain.TrainingEntry) (string, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	e.ID = m.db.nextID("training")
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	m.db.training[e.ID] = *e
	return e.ID, nil
}

func (m memTraining) GetByID(_ context.Context, id string) (*domain.TrainingEntry, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	e, ok := m.db.training[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (m memTraining) Update(_ context.Context, e *domain.TrainingEntry) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, ok := m.db.training[e.ID]; !ok {
		return repository.ErrNotFound
	}
	m.db.training[e.ID] = *e
	return nil
}

func (m memTraining) ListByUser(_ context.Context, userID string, r repository.DateRange) ([]domain.TrainingEntry, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var out []domain.TrainingEntry
	for _, e := range m.db.training {
		if e.UserID == userID && inRange(e.Date, r) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m memTraining) ListRecent(ctx context.Context, userID string, limit int) ([]domain.TrainingEntry, error) {
	all, _ := m.ListByUser(ctx, userID, repository.DateRange{})
	out := make([]domain.TrainingEntry, 0, len(all))
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, all[i])
	}
	return out, nil
}

type memRHR struct{ db *memDB }

func (m memRHR) Upsert(_ context.Context, e *domain.RestingHeartRateEntry) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for id, old := range m.db.rhr {
		if old.UserID == e.UserID && old.Date == e.Date {
			e.ID = id
			m.db.rhr[id] = *e
			return nil
		}
	}
	e.ID = m.db.nextID("rhr")
	m.db.rhr[e.ID] = *e
	return nil
}

func (m memRHR) GetByID(_ context.Context, id string) (*domain.RestingHeartRateEntry, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	e, ok := m.db.rhr[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (m memRHR) Update(_ context.Context, e *domain.RestingHeartRateEntry) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, ok := m.db.rhr[e.ID]; !ok {
		return repository.ErrNotFound
	}
	for id, old := range m.db.rhr {
		if id != e.ID && old.UserID == e.UserID && old.Date == e.Date {
			return repository.ErrDuplicate
		}
	}
	m.db.rhr[e.ID] = *e
	return nil
}

func (m memRHR) ListByUser(_ context.Context, userID string, r repository.DateRange) ([]domain.RestingHeartRateEntry, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var out []domain.RestingHeartRateEntry
	for _, e := range m.db.rhr {
		if e.UserID == userID && inRange(e.Date, r) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

type memBody struct{ db *memDB }

func (m memBody) Create(_ context.Context, e *domain.BodyMetricEntry) (string, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	e.ID = m.db.nextID("body")
	m.db.body[e.ID] = *e
	return e.ID, nil
}

func (m memBody) GetByID(_ context.Context, id string) (*domain.BodyMetricEntry, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	e, ok := m.db.body[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (m memBody) Update(_ context.Context, e *domain.BodyMetricEntry) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, ok := m.db.body[e.ID]; !ok {
		return repository.ErrNotFound
	}
	m.db.body[e.ID] = *e
	return nil
}

func (m memBody) ListByUser(_ context.Context, userID string, r repository.DateRange) ([]domain.BodyMetricEntry, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var out []domain.BodyMetricEntry
	for _, e := range m.db.body {
		if e.UserID == userID && inRange(e.Date, r) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

type memComments struct{ db *memDB }

func (m memComments) Get(_ context.Context, swimmerID, weekStart string) (*domain.WeeklyComment, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	c, ok := m.db.comments[swimmerID+"|"+weekStart]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (m memComments) Upsert(_ context.Context, c *domain.WeeklyComment) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if m.db.failNoteWrites {
		return fmt.Errorf("write failed")
	}
	m.db.comments[c.SwimmerID+"|"+c.WeekStart] = *c
	return nil
}

type memPlans struct{ db *memDB }

func (m memPlans) Get(_ context.Context, swimmerID string) (*domain.TechniquePlan, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	p, ok := m.db.plans[swimmerID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (m memPlans) Upsert(_ context.Context, p *domain.TechniquePlan) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	m.db.plans[p.SwimmerID] = *p
	return nil
}

type memGoals struct{ db *memDB }

func (m memGoals) Get(_ context.Context, userID string, year int) (*domain.SeasonGoal, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	g, ok := m.db.goals[fmt.Sprintf("%s|%d", userID, year)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &g, nil
}

func (m memGoals) Upsert(_ context.Context, g *domain.SeasonGoal) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if m.db.failNoteWrites {
		return fmt.Errorf("write failed")
	}
	m.db.goals[fmt.Sprintf("%s|%d", g.UserID, g.SeasonYear)] = *g
	return nil
}

type memSettings struct{ db *memDB }

func (m memSettings) Get(_ context.Context, userID string) (*domain.Settings, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	s, ok := m.db.settings[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (m memSettings) Upsert(_ context.Context, s *domain.Settings) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if m.db.failNoteWrites {
		return fmt.Errorf("write failed")
	}
	m.db.settings[s.UserID] = *s
	return nil
}

type memLinks struct{ db *memDB }

func (m memLinks) Create(_ context.Context, l *domain.MagicLink) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	m.db.links[l.ID] = *l
	return nil
}

func (m memLinks) GetByID(_ context.Context, id string) (*domain.MagicLink, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	l, ok := m.db.links[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &l, nil
}

func (m memLinks) MarkUsed(_ context.Context, id string, at time.Time) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	l, ok := m.db.links[id]
	if !ok || l.UsedAt != nil {
		return repository.ErrNotFound
	}
	l.UsedAt = &at
	m.db.links[id] = l
	return nil
}

func (m memLinks) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var n int64
	for id, l := range m.db.links {
		if l.ExpiresAt.Before(before) {
			delete(m.db.links, id)
			n++
		}
	}
	return n, nil
}

type memExports struct{ db *memDB }

func (m memExports) Create(_ context.Context, e *domain.ExportRecord) (string, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if m.db.failExportCreate {
		return "", fmt.Errorf("insert failed")
	}
	e.ID = m.db.nextID("export")
	m.db.exports = append(m.db.exports, *e)
	return e.ID, nil
}

func (m memExports) ListBySwimmer(_ context.Context, swimmerID string, limit int) ([]domain.ExportRecord, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var out []domain.ExportRecord
	for i := len(m.db.exports) - 1; i >= 0 && len(out) < limit; i-- {
		if m.db.exports[i].SwimmerID == swimmerID {
			out = append(out, m.db.exports[i])
		}
	}
	return out, nil
}

// memFiles is an in-memory FileStorage.
type memFiles struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemFiles() *memFiles { return &memFiles{objects: map[string][]byte{}} }

func (f *memFiles) PutObject(_ context.Context, key, _ string, body []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = body
	return nil
}

func (f *memFiles) GeneratePresignedDownloadURL(_ context.Context, key string, expires time.Duration) (string, error) {
	return fmt.Sprintf("https://files.test/%s?expires=%d", key, int(expires.Seconds())), nil
}

func (f *memFiles) DeleteObject(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	return nil
}

// team fixtures shared by the tests
const (
	coachID = "coach-1"
	sanneID = "swimmer-sanne"
	daanID  = "swimmer-daan"
)

var (
	coach = Actor{ID: coachID, Role: domain.RoleCoach}
	sanne = Actor{ID: sanneID, Role: domain.RoleSwimmer}
	daan  = Actor{ID: daanID, Role: domain.RoleSwimmer}
)

func seededDB() *memDB {
	db := newMemDB()
	db.addProfile(coachID, "Coach Ria", "ria@example.org", domain.RoleCoach)
	db.addProfile(sanneID, "Sanne", "sanne@example.org", domain.RoleSwimmer)
	db.addProfile(daanID, "Daan", "daan@example.org", domain.RoleSwimmer)
	return db
}
