package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/anil1907/fidi-api/internal/model"
)

func newID() string { return uuid.New().String() }

// Memory is the default store for development and tests. A RWMutex guards
// the maps; every call copies in and out so callers never share state with
// the store.
type Memory struct {
	mu           sync.RWMutex
	users        map[string]model.User
	clients      map[string]model.Client
	templates    map[string]model.Template
	plans        map[string]model.DietPlan
	appointments map[string]model.Appointment
	refresh      map[string]RefreshToken
}

func NewMemory() *Memory {
	return &Memory{
		users:        map[string]model.User{},
		clients:      map[string]model.Client{},
		templates:    map[string]model.Template{},
		plans:        map[string]model.DietPlan{},
		appointments: map[string]model.Appointment{},
		refresh:      map[string]RefreshToken{},
	}
}

var _ Store = (*Memory)(nil)

// normalize prepares text for search. NFC + lowercase keeps Turkish input
// (İ, ı, ğ, ş) matching regardless of how the browser composed it.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFC.String(s)))
}

func (m *Memory) CreateUser(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return ErrDuplicateEmail
		}
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	m.users[u.ID] = *u
	return nil
}

func (m *Memory) UserByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) CreateRefreshToken(_ context.Context, userID, tokenHash string, expiresAt time.Time) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := newID()
	m.refresh[id] = RefreshToken{
		ID:        id,
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	return id, nil
}

func (m *Memory) GetRefreshTokenByHash(_ context.Context, tokenHash string) (*RefreshToken, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, rt := range m.refresh {
		if rt.TokenHash == tokenHash {
			cp := rt
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) RotateRefreshToken(_ context.Context, oldID, newID, userID, newHash string, newExpiry time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.refresh[oldID]
	if !ok {
		return ErrNotFound
	}
	old.Revoked = true
	old.ReplacedBy = &newID
	m.refresh[oldID] = old
	m.refresh[newID] = RefreshToken{
		ID:        newID,
		UserID:    userID,
		TokenHash: newHash,
		ExpiresAt: newExpiry,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

func (m *Memory) RevokeAllRefreshTokens(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, rt := range m.refresh {
		if rt.UserID == userID && !rt.Revoked {
			rt.Revoked = true
			m.refresh[id] = rt
		}
	}
	return nil
}

func (m *Memory) ListClients(_ context.Context, f ClientFilter) ([]model.Client, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.Client, 0, len(m.clients))
	search := normalize(f.Search)
	for _, c := range m.clients {
		if search != "" && !clientMatches(c, search) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })

	total := len(out)
	if f.Page > 0 && f.PageSize > 0 {
		start := (f.Page - 1) * f.PageSize
		if start >= total {
			return []model.Client{}, total, nil
		}
		end := start + f.PageSize
		if end > total {
			end = total
		}
		out = out[start:end]
	}
	return out, total, nil
}

func clientMatches(c model.Client, search string) bool {
	first := normalize(c.FirstName)
	last := normalize(c.LastName)
	full := first + " " + last
	return strings.Contains(first, search) ||
		strings.Contains(last, search) ||
		strings.Contains(full, search) ||
		strings.Contains(normalize(c.Email), search) ||
		strings.Contains(c.Phone, search)
}

func (m *Memory) GetClient(_ context.Context, id string) (*model.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.clients[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := c
	cp.Goals = append([]string(nil), c.Goals...)
	return &cp, nil
}

func (m *Memory) CreateClient(_ context.Context, c *model.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	cp := *c
	cp.Goals = append([]string(nil), c.Goals...)
	m.clients[c.ID] = cp
	return nil
}

func (m *Memory) UpdateClient(_ context.Context, c *model.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev, ok := m.clients[c.ID]
	if !ok {
		return ErrNotFound
	}
	c.CreatedAt = prev.CreatedAt
	c.UpdatedAt = time.Now().UTC()
	cp := *c
	cp.Goals = append([]string(nil), c.Goals...)
	m.clients[c.ID] = cp
	return nil
}

func (m *Memory) DeleteClient(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.clients[id]; !ok {
		return ErrNotFound
	}
	delete(m.clients, id)
	return nil
}

func (m *Memory) ListTemplates(_ context.Context) ([]model.Template, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Template, 0, len(m.templates))
	for _, t := range m.templates {
		t.Sections = model.CopySections(t.Sections)
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) GetTemplate(_ context.Context, id string) (*model.Template, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.templates[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := t
	cp.Sections = model.CopySections(t.Sections)
	return &cp, nil
}

func (m *Memory) CreateTemplate(_ context.Context, t *model.Template) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	cp := *t
	cp.Sections = model.CopySections(t.Sections)
	m.templates[t.ID] = cp
	return nil
}

func (m *Memory) UpdateTemplate(_ context.Context, t *model.Template) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev, ok := m.templates[t.ID]
	if !ok {
		return ErrNotFound
	}
	t.CreatedAt = prev.CreatedAt
	t.UpdatedAt = time.Now().UTC()
	cp := *t
	cp.Sections = model.CopySections(t.Sections)
	m.templates[t.ID] = cp
	return nil
}

func (m *Memory) DeleteTemplate(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.templates[id]; !ok {
		return ErrNotFound
	}
	delete(m.templates, id)
	return nil
}

func (m *Memory) ListPlans(_ context.Context, clientID string) ([]model.DietPlan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.DietPlan, 0, len(m.plans))
	for _, p := range m.plans {
		if clientID != "" && p.ClientID != clientID {
			continue
		}
		p.Sections = model.CopySections(p.Sections)
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) GetPlan(_ context.Context, id string) (*model.DietPlan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.plans[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := p
	cp.Sections = model.CopySections(p.Sections)
	return &cp, nil
}

func (m *Memory) CreatePlan(_ context.Context, p *model.DietPlan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	cp := *p
	cp.Sections = model.CopySections(p.Sections)
	m.plans[p.ID] = cp
	return nil
}

func (m *Memory) UpdatePlan(_ context.Context, p *model.DietPlan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev, ok := m.plans[p.ID]
	if !ok {
		return ErrNotFound
	}
	p.CreatedAt = prev.CreatedAt
	p.UpdatedAt = time.Now().UTC()
	cp := *p
	cp.Sections = model.CopySections(p.Sections)
	m.plans[p.ID] = cp
	return nil
}

func (m *Memory) DeletePlan(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.plans[id]; !ok {
		return ErrNotFound
	}
	delete(m.plans, id)
	return nil
}

func (m *Memory) ListAppointments(_ context.Context, f AppointmentFilter) ([]model.Appointment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Appointment, 0, len(m.appointments))
	for _, a := range m.appointments {
		if f.ClientID != "" && a.ClientID != f.ClientID {
			continue
		}
		if f.From != nil && a.StartsAt.Before(*f.From) {
			continue
		}
		if f.To != nil && a.StartsAt.After(*f.To) {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out, nil
}

func (m *Memory) GetAppointment(_ context.Context, id string) (*model.Appointment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.appointments[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := a
	return &cp, nil
}

func (m *Memory) CreateAppointment(_ context.Context, a *model.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	m.appointments[a.ID] = *a
	return nil
}

func (m *Memory) UpdateAppointment(_ context.Context, a *model.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev, ok := m.appointments[a.ID]
	if !ok {
		return ErrNotFound
	}
	a.CreatedAt = prev.CreatedAt
	a.UpdatedAt = time.Now().UTC()
	m.appointments[a.ID] = *a
	return nil
}

func (m *Memory) DeleteAppointment(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.appointments[id]; !ok {
		return ErrNotFound
	}
	delete(m.appointments, id)
	return nil
}
