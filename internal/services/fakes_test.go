package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/polito-log/backend/internal/email"
	"github.com/polito-log/backend/internal/models"
	"github.com/polito-log/backend/internal/repositories"
)

type fakeUsers struct {
	mu    sync.Mutex
	byID  map[uuid.UUID]models.User
	err   error
	calls int
}

func newFakeUsers(users ...models.User) *fakeUsers {
	f := &fakeUsers{byID: make(map[uuid.UUID]models.User)}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsers) find(match func(models.User) bool) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.byID {
		if match(u) {
			u := u
			return &u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	return f.find(func(u models.User) bool { return u.ID == id })
}

func (f *fakeUsers) GetByEmail(_ context.Context, addr string) (*models.User, error) {
	return f.find(func(u models.User) bool { return u.Email == addr })
}

func (f *fakeUsers) GetByUsername(_ context.Context, name string) (*models.User, error) {
	return f.find(func(u models.User) bool { return u.Username == name })
}

func (f *fakeUsers) conflicts(user *models.User) bool {
	for id, u := range f.byID {
		if id != user.ID && (u.Email == user.Email || u.Username == user.Username) {
			return true
		}
	}
	return false
}

func (f *fakeUsers) Create(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.conflicts(user) {
		return repositories.ErrDuplicate
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	f.byID[user.ID] = *user
	return nil
}

func (f *fakeUsers) Update(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	if f.conflicts(user) {
		return repositories.ErrDuplicate
	}
	user.UpdatedAt = time.Now()
	f.byID[user.ID] = *user
	return nil
}

func (f *fakeUsers) get(id uuid.UUID) models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byID[id]
}

func (f *fakeUsers) all() []models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.User, 0, len(f.byID))
	for _, u := range f.byID {
		out = append(out, u)
	}
	return out
}

type fakeMagicLinks struct {
	mu      sync.Mutex
	byToken map[string]*models.MagicLink
}

func newFakeMagicLinks() *fakeMagicLinks {
	return &fakeMagicLinks{byToken: make(map[string]*models.MagicLink)}
}

func (f *fakeMagicLinks) GetByToken(_ context.Context, token string) (*models.MagicLink, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.byToken[token]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (f *fakeMagicLinks) GetValidByToken(_ context.Context, token string, now time.Time) (*models.MagicLink, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.byToken[token]
	if !ok || !l.ValidAt(now) {
		return nil, repositories.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (f *fakeMagicLinks) Create(_ context.Context, link *models.MagicLink) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byToken[link.Token]; ok {
		return repositories.ErrDuplicate
	}
	link.CreatedAt = time.Now()
	cp := *link
	f.byToken[link.Token] = &cp
	return nil
}

func (f *fakeMagicLinks) MarkUsed(_ context.Context, id uuid.UUID, userID uuid.UUID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.byToken {
		if l.ID == id && l.ValidAt(at) {
			l.IsUsed = true
			l.UsedAt = &at
			l.UserID = &userID
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *fakeMagicLinks) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for tok, l := range f.byToken {
		if l.ExpiresAt.Before(now) {
			delete(f.byToken, tok)
			n++
		}
	}
	return n, nil
}

func (f *fakeMagicLinks) forEmail(addr string) []models.MagicLink {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.MagicLink
	for _, l := range f.byToken {
		if l.Email == addr {
			out = append(out, *l)
		}
	}
	return out
}

type fakeSender struct {
	mu   sync.Mutex
	sent []email.MagicLinkMessage
	err  error
}

func (f *fakeSender) SendMagicLink(_ context.Context, msg email.MagicLinkMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

// lastToken pulls the token out of the most recent link.
func (f *fakeSender) lastToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return ""
	}
	_, tok, _ := strings.Cut(f.sent[len(f.sent)-1].Link, "token=")
	return tok
}

type fakeStatements struct {
	byID     map[uuid.UUID]models.Statement
	filter   repositories.StatementFilter
	page     repositories.Page
	err      error
	softDels []uuid.UUID
}

func newFakeStatements(items ...models.Statement) *fakeStatements {
	f := &fakeStatements{byID: make(map[uuid.UUID]models.Statement)}
	for _, s := range items {
		f.byID[s.ID] = s
	}
	return f
}

func (f *fakeStatements) GetByID(_ context.Context, id uuid.UUID) (*models.Statement, error) {
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &s, nil
}

func (f *fakeStatements) Find(_ context.Context, filter repositories.StatementFilter, page repositories.Page) ([]models.Statement, error) {
	f.filter, f.page = filter, page
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Statement
	for _, s := range f.byID {
		if filter.ActiveOnly && !s.IsActive {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeStatements) Count(_ context.Context, filter repositories.StatementFilter) (int64, error) {
	list, err := f.Find(context.Background(), filter, repositories.Page{})
	return int64(len(list)), err
}

func (f *fakeStatements) Create(_ context.Context, s *models.Statement) error {
	if f.err != nil {
		return f.err
	}
	f.byID[s.ID] = *s
	return nil
}

func (f *fakeStatements) Save(_ context.Context, s *models.Statement) error {
	if f.err != nil {
		return f.err
	}
	f.byID[s.ID] = *s
	return nil
}

func (f *fakeStatements) SoftDelete(_ context.Context, id uuid.UUID) (bool, error) {
	f.softDels = append(f.softDels, id)
	s, ok := f.byID[id]
	if !ok {
		return false, nil
	}
	s.IsActive = false
	f.byID[id] = s
	return true, nil
}

func (f *fakeStatements) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	if _, ok := f.byID[id]; !ok {
		return false, nil
	}
	delete(f.byID, id)
	return true, nil
}
