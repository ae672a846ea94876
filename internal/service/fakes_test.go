package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"bistro-cms-be/internal/dto"
	"bistro-cms-be/internal/entity"
	"bistro-cms-be/internal/repository/contract"
	"bistro-cms-be/internal/repository/specification"
	"bistro-cms-be/internal/repository/unitofwork"
	"bistro-cms-be/pkg/editor"
	"bistro-cms-be/pkg/events"
	"bistro-cms-be/pkg/lexical"

	"github.com/google/uuid"
)

// fakeDB backs every fake repository. The repositories understand the
// specification values the services use.
type fakeDB struct {
	mu       sync.Mutex
	posts    map[uuid.UUID]*entity.BlogPost
	deleted  map[uuid.UUID]*entity.BlogPost
	menu     map[uuid.UUID]*entity.LandingMenuItem
	slides   map[uuid.UUID]*entity.MarqueeSlide
	admins   map[uuid.UUID]*entity.AdminUser
	activity []*entity.ActivityLog

	tocUpdates int
	commits    int
	rollbacks  int
	failFind   error
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		posts:   map[uuid.UUID]*entity.BlogPost{},
		deleted: map[uuid.UUID]*entity.BlogPost{},
		menu:    map[uuid.UUID]*entity.LandingMenuItem{},
		slides:  map[uuid.UUID]*entity.MarqueeSlide{},
		admins:  map[uuid.UUID]*entity.AdminUser{},
	}
}

func (db *fakeDB) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUow{db: db}
}

type fakeUow struct {
	db   *fakeDB
	inTx bool
}

func (u *fakeUow) Begin(ctx context.Context) error {
	u.inTx = true
	return nil
}

func (u *fakeUow) Commit() error {
	u.db.mu.Lock()
	defer u.db.mu.Unlock()
	u.db.commits++
	u.inTx = false
	return nil
}

func (u *fakeUow) Rollback() error {
	if !u.inTx {
		return unitofwork.ErrNoTransaction
	}
	u.db.mu.Lock()
	defer u.db.mu.Unlock()
	u.db.rollbacks++
	u.inTx = false
	return nil
}

func (u *fakeUow) BlogPostRepository() contract.BlogPostRepository { return &fakePostRepo{u.db} }
func (u *fakeUow) LandingMenuItemRepository() contract.LandingMenuItemRepository {
	return &fakeMenuRepo{u.db}
}
func (u *fakeUow) MarqueeSlideRepository() contract.MarqueeSlideRepository {
	return &fakeSlideRepo{u.db}
}
func (u *fakeUow) AdminUserRepository() contract.AdminUserRepository { return &fakeAdminRepo{u.db} }
func (u *fakeUow) ActivityLogRepository() contract.ActivityLogRepository {
	return &fakeActivityRepo{u.db}
}

// query is the subset of specifications the fakes understand.
type query struct {
	id        *uuid.UUID
	excludeID *uuid.UUID
	slug      *string
	status    *string
	email     *string
	eventType *string
	category  *string
	active    bool
	unscoped  bool
	limit     int
	offset    int
}

func parseSpecs(specs []specification.Specification) query {
	var q query
	for _, s := range specs {
		switch v := s.(type) {
		case specification.ByID:
			q.id = &v.ID
		case specification.ExcludeID:
			q.excludeID = &v.ID
		case specification.BySlug:
			q.slug = &v.Slug
		case specification.ByStatus:
			q.status = &v.Status
		case specification.ByEmail:
			q.email = &v.Email
		case specification.ByEventType:
			q.eventType = &v.EventType
		case specification.ByCategory:
			q.category = &v.Category
		case specification.ActiveOnly:
			q.active = true
		case specification.Pagination:
			q.limit, q.offset = v.Limit, v.Offset
		case specification.Scoped:
			// Only WithSoftDelete changes what the fakes return; orderings are
			// applied by each repository.
			q.unscoped = true
		}
	}
	return q
}

func paginate[T any](items []T, q query) []T {
	if q.offset > len(items) {
		return nil
	}
	items = items[q.offset:]
	if q.limit > 0 && q.limit < len(items) {
		items = items[:q.limit]
	}
	return items
}

func clonePost(p *entity.BlogPost) *entity.BlogPost {
	cp := *p
	cp.Title = p.Title.Clone()
	cp.Excerpt = p.Excerpt.Clone()
	cp.Content = map[string]json.RawMessage{}
	for k, v := range p.Content {
		cp.Content[k] = v
	}
	cp.Toc = map[string][]lexical.TocEntry{}
	for k, v := range p.Toc {
		cp.Toc[k] = v
	}
	return &cp
}

type fakePostRepo struct{ db *fakeDB }

func (r *fakePostRepo) match(p *entity.BlogPost, q query) bool {
	if q.id != nil && p.Id != *q.id {
		return false
	}
	if q.excludeID != nil && p.Id == *q.excludeID {
		return false
	}
	if q.slug != nil && p.Slug != *q.slug {
		return false
	}
	if q.status != nil && string(p.Status) != *q.status {
		return false
	}
	return true
}

func (r *fakePostRepo) candidates(q query) []*entity.BlogPost {
	var out []*entity.BlogPost
	for _, p := range r.db.posts {
		out = append(out, p)
	}
	if q.unscoped {
		for _, p := range r.db.deleted {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *fakePostRepo) Create(ctx context.Context, post *entity.BlogPost) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, p := range r.db.posts {
		if p.Slug == post.Slug {
			return contract.ErrDuplicateKey
		}
	}
	r.db.posts[post.Id] = clonePost(post)
	return nil
}

func (r *fakePostRepo) Update(ctx context.Context, post *entity.BlogPost) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.posts[post.Id] = clonePost(post)
	return nil
}

func (r *fakePostRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if p, ok := r.db.posts[id]; ok {
		r.db.deleted[id] = p
		delete(r.db.posts, id)
	}
	return nil
}

func (r *fakePostRepo) UpdateToc(ctx context.Context, id uuid.UUID, locale string, toc []lexical.TocEntry) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.tocUpdates++
	if p, ok := r.db.posts[id]; ok {
		if p.Toc == nil {
			p.Toc = map[string][]lexical.TocEntry{}
		}
		p.Toc[locale] = toc
	}
	return nil
}

func (r *fakePostRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.BlogPost, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.failFind != nil {
		return nil, r.db.failFind
	}
	q := parseSpecs(specs)
	for _, p := range r.candidates(q) {
		if r.match(p, q) {
			return clonePost(p), nil
		}
	}
	return nil, nil
}

func (r *fakePostRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.BlogPost, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	q := parseSpecs(specs)
	var out []*entity.BlogPost
	for _, p := range r.candidates(query{}) {
		if r.match(p, q) {
			out = append(out, clonePost(p))
		}
	}
	return paginate(out, q), nil
}

func (r *fakePostRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	q := parseSpecs(specs)
	var n int64
	for _, p := range r.candidates(q) {
		if r.match(p, q) {
			n++
		}
	}
	return n, nil
}

type fakeMenuRepo struct{ db *fakeDB }

func (r *fakeMenuRepo) sorted(q query) []*entity.LandingMenuItem {
	var out []*entity.LandingMenuItem
	for _, m := range r.db.menu {
		if q.id != nil && m.Id != *q.id {
			continue
		}
		if q.active && !m.IsActive {
			continue
		}
		if q.category != nil && m.Category != *q.category {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out
}

func (r *fakeMenuRepo) Create(ctx context.Context, item *entity.LandingMenuItem) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cp := *item
	r.db.menu[item.Id] = &cp
	return nil
}

func (r *fakeMenuRepo) Update(ctx context.Context, item *entity.LandingMenuItem) error {
	return r.Create(ctx, item)
}

func (r *fakeMenuRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.menu, id)
	return nil
}

func (r *fakeMenuRepo) UpdateSortOrder(ctx context.Context, id uuid.UUID, sortOrder int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if m, ok := r.db.menu[id]; ok {
		m.SortOrder = sortOrder
	}
	return nil
}

func (r *fakeMenuRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.LandingMenuItem, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	items := r.sorted(parseSpecs(specs))
	if len(items) == 0 {
		return nil, nil
	}
	return items[0], nil
}

func (r *fakeMenuRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.LandingMenuItem, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.sorted(parseSpecs(specs)), nil
}

func (r *fakeMenuRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return int64(len(r.sorted(parseSpecs(specs)))), nil
}

type fakeSlideRepo struct{ db *fakeDB }

func (r *fakeSlideRepo) sorted(q query) []*entity.MarqueeSlide {
	var out []*entity.MarqueeSlide
	for _, s := range r.db.slides {
		if q.id != nil && s.Id != *q.id {
			continue
		}
		if q.active && !s.IsActive {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out
}

func (r *fakeSlideRepo) Create(ctx context.Context, slide *entity.MarqueeSlide) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cp := *slide
	r.db.slides[slide.Id] = &cp
	return nil
}

func (r *fakeSlideRepo) Update(ctx context.Context, slide *entity.MarqueeSlide) error {
	return r.Create(ctx, slide)
}

func (r *fakeSlideRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.slides, id)
	return nil
}

func (r *fakeSlideRepo) UpdateSortOrder(ctx context.Context, id uuid.UUID, sortOrder int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if s, ok := r.db.slides[id]; ok {
		s.SortOrder = sortOrder
	}
	return nil
}

func (r *fakeSlideRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.MarqueeSlide, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	items := r.sorted(parseSpecs(specs))
	if len(items) == 0 {
		return nil, nil
	}
	return items[0], nil
}

func (r *fakeSlideRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MarqueeSlide, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.sorted(parseSpecs(specs)), nil
}

func (r *fakeSlideRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return int64(len(r.sorted(parseSpecs(specs)))), nil
}

type fakeAdminRepo struct{ db *fakeDB }

func (r *fakeAdminRepo) Create(ctx context.Context, user *entity.AdminUser) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.admins {
		if u.Email == user.Email {
			return contract.ErrDuplicateKey
		}
	}
	cp := *user
	r.db.admins[user.Id] = &cp
	return nil
}

func (r *fakeAdminRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if u, ok := r.db.admins[id]; ok {
		u.LastLoginAt = &at
	}
	return nil
}

func (r *fakeAdminRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AdminUser, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	q := parseSpecs(specs)
	for _, u := range r.db.admins {
		if q.id != nil && u.Id != *q.id {
			continue
		}
		if q.email != nil && u.Email != *q.email {
			continue
		}
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

type fakeActivityRepo struct{ db *fakeDB }

func (r *fakeActivityRepo) filtered(q query) []*entity.ActivityLog {
	var out []*entity.ActivityLog
	for i := len(r.db.activity) - 1; i >= 0; i-- {
		l := r.db.activity[i]
		if q.eventType != nil && l.EventType != *q.eventType {
			continue
		}
		out = append(out, l)
	}
	return out
}

func (r *fakeActivityRepo) Create(ctx context.Context, log *entity.ActivityLog) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.activity = append(r.db.activity, log)
	return nil
}

func (r *fakeActivityRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ActivityLog, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	q := parseSpecs(specs)
	return paginate(r.filtered(q), q), nil
}

func (r *fakeActivityRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return int64(len(r.filtered(parseSpecs(specs)))), nil
}

type fakeEvents struct {
	mu     sync.Mutex
	events []events.Event
}

func (f *fakeEvents) Publish(ctx context.Context, event events.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *fakeEvents) Types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.events))
	for i, e := range f.events {
		out[i] = e.EventType()
	}
	return out
}

type fakeQueue struct {
	mu       sync.Mutex
	messages [][]byte
	err      error
}

func (f *fakeQueue) Publish(ctx context.Context, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, payload)
	return nil
}

type fakeCache struct {
	mu          sync.Mutex
	entries     map[string]*dto.RenderedPostResponse
	invalidated []string
	gets        int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]*dto.RenderedPostResponse{}}
}

func (c *fakeCache) Get(ctx context.Context, slug, locale string) (*dto.RenderedPostResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	return c.entries[slug+":"+locale], nil
}

func (c *fakeCache) Set(ctx context.Context, slug, locale string, rendered *dto.RenderedPostResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[slug+":"+locale] = rendered
	return nil
}

func (c *fakeCache) Invalidate(ctx context.Context, slug string, locales ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, l := range locales {
		delete(c.entries, slug+":"+l)
		c.invalidated = append(c.invalidated, slug+":"+l)
	}
	return nil
}

type fakeDelivery struct {
	mu   sync.Mutex
	sent map[string][]interface{}
}

func newFakeDelivery() *fakeDelivery {
	return &fakeDelivery{sent: map[string][]interface{}{}}
}

func (d *fakeDelivery) SendToTopic(topic string, v interface{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent[topic] = append(d.sent[topic], v)
}

func (d *fakeDelivery) Events(topic string) []dto.EditorEvent {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []dto.EditorEvent
	for _, v := range d.sent[topic] {
		if e, ok := v.(dto.EditorEvent); ok {
			out = append(out, e)
		}
	}
	return out
}

type fakeImageStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	failOn  int // 1-based Put call that fails; 0 never
	puts    int
	deletes []string
	baseURL string
}

func newFakeImageStore(baseURL string) *fakeImageStore {
	return &fakeImageStore{objects: map[string][]byte{}, types: map[string]string{}, baseURL: baseURL}
}

func (s *fakeImageStore) Put(ctx context.Context, key string, contentType string, r io.Reader) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.puts++
	if s.failOn == s.puts {
		return "", errStoreDown
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.objects[key] = data
	s.types[key] = contentType
	return s.PublicURL(key), nil
}

func (s *fakeImageStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	s.deletes = append(s.deletes, key)
	return nil
}

func (s *fakeImageStore) PublicURL(key string) string {
	return s.baseURL + "/" + key
}

var errStoreDown = errors.New("store down")

type fakeUploader struct {
	results []editor.UploadResult
	err     error
}

func (f *fakeUploader) Upload(ctx context.Context, file editor.UploadFile) (editor.UploadResult, error) {
	if f.err != nil {
		return editor.UploadResult{}, f.err
	}
	return editor.UploadResult{SecureURL: "https://cdn.test/" + file.Filename}, nil
}

func (f *fakeUploader) UploadBatch(ctx context.Context, files []editor.UploadFile) ([]editor.UploadResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]editor.UploadResult, len(files))
	for i, file := range files {
		out[i] = editor.UploadResult{SecureURL: "https://cdn.test/" + file.Filename}
	}
	return out, nil
}

type logEntry struct {
	level   string
	module  string
	message string
	details map[string]interface{}
}

// recordingLogger keeps every entry for assertions.
type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *recordingLogger) add(level, module, message string, details map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level, module, message, details})
}

func (l *recordingLogger) Debug(module, message string, details map[string]interface{}) {
	l.add("debug", module, message, details)
}
func (l *recordingLogger) Info(module, message string, details map[string]interface{}) {
	l.add("info", module, message, details)
}
func (l *recordingLogger) Warn(module, message string, details map[string]interface{}) {
	l.add("warn", module, message, details)
}
func (l *recordingLogger) Error(module, message string, details map[string]interface{}) {
	l.add("error", module, message, details)
}
func (l *recordingLogger) Sync() error { return nil }

func (l *recordingLogger) Messages(level string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []string
	for _, e := range l.entries {
		if e.level == level {
			out = append(out, e.message)
		}
	}
	return out
}
