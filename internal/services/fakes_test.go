package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"communityadmin/internal/domain"
)

var errDB = errors.New("db unavailable")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

// fakeEventRepo is an in-memory EventRepository for tests.
type fakeEventRepo struct {
	byID   map[string]*domain.Event
	nextID int
	err    error // if set, every method returns this error

	collisions int      // Create reports this many event code collisions before succeeding
	codes      []string // event codes passed to Create
}

func newFakeEventRepo(events ...*domain.Event) *fakeEventRepo {
	f := &fakeEventRepo{byID: make(map[string]*domain.Event), nextID: 1}
	for _, e := range events {
		f.byID[e.ID] = e
	}
	return f
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	if f.err != nil {
		return f.err
	}
	f.codes = append(f.codes, e.EventCode)
	if f.collisions > 0 {
		f.collisions--
		return domain.ErrDuplicateEventCode
	}
	e.ID = fmt.Sprintf("ev-%d", f.nextID)
	f.nextID++
	f.byID[e.ID] = e
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	if e, ok := f.byID[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) GetByEventCode(ctx context.Context, eventCode string) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, e := range f.byID {
		if strings.EqualFold(e.EventCode, eventCode) {
			cp := *e
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) List(ctx context.Context, q domain.EventQuery) ([]*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.Event
	for _, e := range f.byID {
		if q.OwnerID != "" && e.OwnerID != q.OwnerID {
			continue
		}
		if !q.From.IsZero() && e.ScheduledStart.Before(q.From) {
			continue
		}
		if !q.To.IsZero() && !e.ScheduledStart.Before(q.To) {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledStart.Before(out[j].ScheduledStart) })
	return out, nil
}

func (f *fakeEventRepo) Update(ctx context.Context, id string, p domain.EventPatch) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	e, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.Description != nil {
		e.Description = p.Description
	}
	if p.Location != nil {
		e.Location = p.Location
	}
	if p.DurationMinutes != nil {
		e.DurationMinutes = p.DurationMinutes
	}
	if p.Capacity != nil {
		e.Capacity = p.Capacity
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeRegistrationRepo is an in-memory EventRegistrationRepository.
type fakeRegistrationRepo struct {
	regs   []*domain.EventRegistration
	nextID int
	err    error

	// concurrent, when set, is stored just before the next Create, which then
	// reports domain.ErrAlreadyRegistered like the unique constraint would.
	concurrent *domain.EventRegistration
	createErr  error
}

func (f *fakeRegistrationRepo) Create(ctx context.Context, reg *domain.EventRegistration) error {
	if f.err != nil {
		return f.err
	}
	if f.createErr != nil {
		return f.createErr
	}
	if f.concurrent != nil {
		f.regs = append(f.regs, f.concurrent)
		f.concurrent = nil
		return domain.ErrAlreadyRegistered
	}
	f.nextID++
	reg.ID = fmt.Sprintf("reg-%d", f.nextID)
	f.regs = append(f.regs, reg)
	return nil
}

func (f *fakeRegistrationRepo) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.EventRegistration, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, r := range f.regs {
		if r.EventID == eventID && r.UserID == userID {
			return r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRegistrationRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.EventRegistration, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.EventRegistration
	for _, r := range f.regs {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRegistrationRepo) ListByEventID(ctx context.Context, eventID string) ([]*domain.EventRegistration, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.EventRegistration
	for _, r := range f.regs {
		if r.EventID == eventID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRegistrationRepo) CountByEventID(ctx context.Context, eventID string) (int, error) {
	regs, err := f.ListByEventID(ctx, eventID)
	return len(regs), err
}

func (f *fakeRegistrationRepo) MarkCheckedIn(ctx context.Context, id string, at time.Time) error {
	if f.err != nil {
		return f.err
	}
	for _, r := range f.regs {
		if r.ID == id {
			r.CheckedInAt = &at
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeRegistrationRepo) Delete(ctx context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	for i, r := range f.regs {
		if r.ID == id {
			f.regs = append(f.regs[:i], f.regs[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	byID      map[string]*domain.User
	createErr error
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	f := &fakeUserRepo{byID: make(map[string]*domain.User)}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return domain.ErrDuplicateEmail
		}
	}
	u.ID = fmt.Sprintf("user-%d", len(f.byID)+1)
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

// fakeEmailService records sent emails.
type fakeEmailService struct {
	welcomes []*domain.WelcomeMessageEmailData
	rsvps    []*domain.RSVPConfirmationEmailData
	err      error
}

func (f *fakeEmailService) SendWelcomeMessage(ctx context.Context, data *domain.WelcomeMessageEmailData) error {
	f.welcomes = append(f.welcomes, data)
	return f.err
}

func (f *fakeEmailService) SendRSVPConfirmation(ctx context.Context, data *domain.RSVPConfirmationEmailData) error {
	f.rsvps = append(f.rsvps, data)
	return f.err
}

// fakeContentRepo is an in-memory ContentRepository. Tag filtering consults tagRepo.
type fakeContentRepo struct {
	items     []*domain.ContentItem
	tagRepo   *fakeTagRepo
	err       error
	deleteErr error
}

func (f *fakeContentRepo) Create(ctx context.Context, item *domain.ContentItem) error {
	if f.err != nil {
		return f.err
	}
	item.ID = fmt.Sprintf("c-%d", len(f.items)+1)
	f.items = append(f.items, item)
	return nil
}

func (f *fakeContentRepo) GetByID(ctx context.Context, id string) (*domain.ContentItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, it := range f.items {
		if it.ID == id {
			cp := *it
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeContentRepo) List(ctx context.Context, q domain.ContentQuery) ([]*domain.ContentItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.ContentItem
	for _, it := range f.items {
		if q.EventID != "" && (it.EventID == nil || *it.EventID != q.EventID) {
			continue
		}
		if q.Tag != "" && !f.tagRepo.hasTag(it.ID, q.Tag) {
			continue
		}
		cp := *it
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeContentRepo) Delete(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, it := range f.items {
		if it.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// fakeTagRepo is an in-memory TagRepository.
type fakeTagRepo struct {
	names     map[string]string   // id -> name
	byContent map[string][]string // content id -> tag ids
	err       error
}

func newFakeTagRepo() *fakeTagRepo {
	return &fakeTagRepo{names: map[string]string{}, byContent: map[string][]string{}}
}

func (f *fakeTagRepo) EnsureTag(ctx context.Context, name string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	for id, n := range f.names {
		if n == name {
			return id, nil
		}
	}
	id := fmt.Sprintf("tag-%d", len(f.names)+1)
	f.names[id] = name
	return id, nil
}

func (f *fakeTagRepo) SetContentTags(ctx context.Context, contentID string, tagIDs []string) error {
	if f.err != nil {
		return f.err
	}
	f.byContent[contentID] = append([]string(nil), tagIDs...)
	return nil
}

func (f *fakeTagRepo) ListTagNamesByContentIDs(ctx context.Context, contentIDs []string) (map[string][]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string][]string)
	for _, cid := range contentIDs {
		for _, tid := range f.byContent[cid] {
			out[cid] = append(out[cid], f.names[tid])
		}
		sort.Strings(out[cid])
	}
	return out, nil
}

func (f *fakeTagRepo) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.Tag
	for id, n := range f.names {
		out = append(out, &domain.Tag{ID: id, Name: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeTagRepo) hasTag(contentID, name string) bool {
	for _, tid := range f.byContent[contentID] {
		if f.names[tid] == name {
			return true
		}
	}
	return false
}

// fakeStorage returns deterministic presigned URLs.
type fakeStorage struct {
	expiresAt time.Time
	err       error
	lastKey   string
	lastType  string
}

func (f *fakeStorage) PresignUpload(ctx context.Context, key, contentType string) (string, time.Time, error) {
	if f.err != nil {
		return "", time.Time{}, f.err
	}
	f.lastKey, f.lastType = key, contentType
	return "https://bucket.example.com/" + key + "?sig=1", f.expiresAt, nil
}

func (f *fakeStorage) PublicURL(key string) string {
	return "https://cdn.example.com/" + key
}
