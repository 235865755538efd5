// internal/service/service_test.go
//
// Service-layer tests over an in-memory Store.
//
// Context
// -------
// The memStore fake mirrors the repository contract (typed errors,
// uniqueness, cascade delete, referrer nulling) so the services, the
// engine, and the real ttlcache-backed cache can be wired together
// without a database.  The interesting properties live at this layer:
//
//   • duplicate rejection for domain names and (domain, language) pairs
//   • cycle rejection before any write, state unchanged after
//   • write-path invalidation: updates, renames, and deletes are never
//     answered with stale cached results
//   • idempotent resolution, cache hit or not
//
// Run: go test ./internal/service -v
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/yanizio/domainconf/internal/cache"
	"github.com/yanizio/domainconf/internal/domain"
	"github.com/yanizio/domainconf/internal/errs"
	"github.com/yanizio/domainconf/internal/resolver"
	"github.com/yanizio/domainconf/internal/siteconfig"
)

var testLangs = resolver.Languages{
	Default:   "zh-CN",
	Supported: []string{"zh-CN", "en-US", "ja-JP", "zh-TW", "th-TH"},
}

/*──────────────────────────── memStore fake ───────────────────────────────*/

type memStore struct {
	mu      sync.Mutex
	nextID  uint64
	domains map[uint64]*domain.Record
	configs map[string]*siteconfig.Record // "<id>|<lang>"
}

func newMemStore() *memStore {
	return &memStore{
		domains: map[uint64]*domain.Record{},
		configs: map[string]*siteconfig.Record{},
	}
}

func ckey(id uint64, lang string) string { return fmt.Sprintf("%d|%s", id, lang) }

func (m *memStore) CreateDomain(_ context.Context, rec *domain.Record) (*domain.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.domains {
		if d.Name == rec.Name {
			return nil, errs.Duplicatef("domain %q already exists", rec.Name)
		}
	}
	m.nextID++
	cp := *rec
	cp.ID = m.nextID
	m.domains[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memStore) DomainByID(_ context.Context, id uint64) (*domain.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d, ok := m.domains[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, errs.NotFoundf("domain id %d not found", id)
}

func (m *memStore) DomainByName(_ context.Context, name string) (*domain.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.domains {
		if d.Name == name {
			cp := *d
			return &cp, nil
		}
	}
	return nil, errs.NotFoundf("domain %q not found", name)
}

func (m *memStore) Domains(_ context.Context, activeOnly bool) ([]domain.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Record, 0, len(m.domains))
	for _, d := range m.domains {
		if activeOnly && !d.IsActive {
			continue
		}
		out = append(out, *d)
	}
	return out, nil
}

func (m *memStore) UpdateDomain(_ context.Context, rec *domain.Record) (*domain.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.domains[rec.ID]; !ok {
		return nil, errs.NotFoundf("domain id %d not found", rec.ID)
	}
	for _, d := range m.domains {
		if d.Name == rec.Name && d.ID != rec.ID {
			return nil, errs.Duplicatef("domain %q already exists", rec.Name)
		}
	}
	cp := *rec
	m.domains[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memStore) DeleteDomain(_ context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.domains[id]; !ok {
		return errs.NotFoundf("domain id %d not found", id)
	}
	for key, c := range m.configs {
		if c.DomainID == id {
			delete(m.configs, key)
		}
	}
	for _, d := range m.domains {
		if d.FallbackDomainID != nil && *d.FallbackDomainID == id {
			d.FallbackDomainID = nil
		}
	}
	delete(m.domains, id)
	return nil
}

func (m *memStore) DomainsReferencing(_ context.Context, id uint64) ([]domain.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Record, 0, 2)
	for _, d := range m.domains {
		if d.FallbackDomainID != nil && *d.FallbackDomainID == id {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (m *memStore) CreateConfig(_ context.Context, domainID uint64, lang string, data []byte) (*siteconfig.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := ckey(domainID, lang)
	if _, ok := m.configs[key]; ok {
		return nil, errs.Duplicatef("config for domain id %d and language %q already exists", domainID, lang)
	}
	if len(data) == 0 {
		data = []byte("{}")
	}
	rec := &siteconfig.Record{DomainID: domainID, Language: lang, Data: data}
	m.configs[key] = rec
	cp := *rec
	return &cp, nil
}

func (m *memStore) ConfigByDomainAndLanguage(_ context.Context, domainID uint64, lang string) (*siteconfig.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.configs[ckey(domainID, lang)]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, errs.NotFoundf("config for domain id %d and language %q not found", domainID, lang)
}

func (m *memStore) ConfigsByDomain(_ context.Context, domainID uint64) ([]siteconfig.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]siteconfig.Record, 0, 4)
	for _, c := range m.configs {
		if c.DomainID == domainID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *memStore) UpdateConfig(_ context.Context, domainID uint64, lang string, data []byte) (*siteconfig.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.configs[ckey(domainID, lang)]
	if !ok {
		return nil, errs.NotFoundf("config for domain id %d and language %q not found", domainID, lang)
	}
	if len(data) == 0 {
		data = []byte("{}")
	}
	c.Data = data
	cp := *c
	return &cp, nil
}

func (m *memStore) DeleteConfig(_ context.Context, domainID uint64, lang string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := ckey(domainID, lang)
	if _, ok := m.configs[key]; !ok {
		return errs.NotFoundf("config for domain id %d and language %q not found", domainID, lang)
	}
	delete(m.configs, key)
	return nil
}

/*────────────────────────────── harness ───────────────────────────────────*/

type fixture struct {
	store   *memStore
	cache   *cache.Cache
	domains *Domains
	configs *Configs
	queries *Queries
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := newMemStore()
	c := cache.New(time.Minute, true)
	t.Cleanup(c.Close)
	return &fixture{
		store:   st,
		cache:   c,
		domains: NewDomains(st, c),
		configs: NewConfigs(st, c, testLangs),
		queries: NewQueries(resolver.New(st, testLangs), c),
	}
}

func (f *fixture) mustDomain(t *testing.T, name string) *domain.Record {
	t.Helper()
	rec, err := f.domains.Create(context.Background(), DomainCreate{Name: name})
	if err != nil {
		t.Fatalf("create domain %q: %v", name, err)
	}
	return rec
}

func (f *fixture) mustConfig(t *testing.T, domainID uint64, lang, data string) {
	t.Helper()
	if _, err := f.configs.Create(context.Background(), domainID, lang, json.RawMessage(data)); err != nil {
		t.Fatalf("create config (%d, %s): %v", domainID, lang, err)
	}
}

/*─────────────────────────────── tests ────────────────────────────────────*/

func TestCreateDomain_NormalizedDuplicate(t *testing.T) {
	f := newFixture(t)
	f.mustDomain(t, "test.com")

	_, err := f.domains.Create(context.Background(), DomainCreate{Name: "  Test.COM "})
	if !errs.IsDuplicate(err) {
		t.Fatalf("err = %v, want DuplicateError", err)
	}
}

func TestCreateConfig_Duplicate(t *testing.T) {
	f := newFixture(t)
	d := f.mustDomain(t, "test.com")
	f.mustConfig(t, d.ID, "zh-CN", `{"title":"一"}`)

	_, err := f.configs.Create(context.Background(), d.ID, "zh-CN", json.RawMessage(`{"title":"二"}`))
	if !errs.IsDuplicate(err) {
		t.Fatalf("err = %v, want DuplicateError", err)
	}
}

func TestCreateConfig_UnknownDomain(t *testing.T) {
	f := newFixture(t)
	_, err := f.configs.Create(context.Background(), 42, "zh-CN", nil)
	if !errs.IsNotFound(err) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
}

func TestFallbackCycleRejected(t *testing.T) {
	f := newFixture(t)
	a := f.mustDomain(t, "a.com")
	b := f.mustDomain(t, "b.com")

	if _, err := f.domains.Update(context.Background(), a.ID,
		DomainUpdate{FallbackDomainID: &b.ID}); err != nil {
		t.Fatalf("a → b: %v", err)
	}

	// Closing the loop must fail before any write.
	_, err := f.domains.Update(context.Background(), b.ID,
		DomainUpdate{FallbackDomainID: &a.ID})
	if !errs.IsDuplicate(err) {
		t.Fatalf("err = %v, want DuplicateError", err)
	}

	got, _ := f.store.DomainByID(context.Background(), b.ID)
	if got.FallbackDomainID != nil {
		t.Fatal("store mutated by rejected cycle assignment")
	}
}

func TestFallbackSelfReferenceRejected(t *testing.T) {
	f := newFixture(t)
	a := f.mustDomain(t, "a.com")

	_, err := f.domains.Update(context.Background(), a.ID,
		DomainUpdate{FallbackDomainID: &a.ID})
	if !errs.IsDuplicate(err) {
		t.Fatalf("err = %v, want DuplicateError", err)
	}
}

func TestTransitiveCycleRejected(t *testing.T) {
	f := newFixture(t)
	a := f.mustDomain(t, "a.com")
	b := f.mustDomain(t, "b.com")
	c := f.mustDomain(t, "c.com")

	ctx := context.Background()
	if _, err := f.domains.Update(ctx, a.ID, DomainUpdate{FallbackDomainID: &b.ID}); err != nil {
		t.Fatalf("a → b: %v", err)
	}
	if _, err := f.domains.Update(ctx, b.ID, DomainUpdate{FallbackDomainID: &c.ID}); err != nil {
		t.Fatalf("b → c: %v", err)
	}
	if _, err := f.domains.Update(ctx, c.ID, DomainUpdate{FallbackDomainID: &a.ID}); !errs.IsDuplicate(err) {
		t.Fatalf("c → a err = %v, want DuplicateError", err)
	}
}

func TestUpdateConfigInvalidatesCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := f.mustDomain(t, "test.com")
	f.mustConfig(t, d.ID, "zh-CN", `{"title":"old"}`)

	res, err := f.queries.ResolveLanguage(ctx, "test.com", "zh-CN")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if string(res.Data) != `{"title":"old"}` {
		t.Fatalf("data = %s", res.Data)
	}

	if _, err := f.configs.Update(ctx, d.ID, "zh-CN", json.RawMessage(`{"title":"new"}`)); err != nil {
		t.Fatalf("update config: %v", err)
	}

	res, err = f.queries.ResolveLanguage(ctx, "test.com", "zh-CN")
	if err != nil {
		t.Fatalf("resolve after update: %v", err)
	}
	if string(res.Data) != `{"title":"new"}` {
		t.Fatalf("stale data after invalidation: %s", res.Data)
	}
}

func TestConfigWriteInvalidatesReferrers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.mustDomain(t, "a.com")
	b := f.mustDomain(t, "b.com")
	if _, err := f.domains.Update(ctx, b.ID, DomainUpdate{FallbackDomainID: &a.ID}); err != nil {
		t.Fatalf("b → a: %v", err)
	}
	f.mustConfig(t, a.ID, "zh-CN", `{"title":"old"}`)

	// b resolves through a; the result lands in b's cache variants.
	res, err := f.queries.ResolveLanguage(ctx, "b.com", "zh-CN")
	if err != nil {
		t.Fatalf("resolve b: %v", err)
	}
	if !res.IsDomainFallback {
		t.Fatal("expected domain fallback")
	}

	// Writing a's config must also clear b's cached answer.
	if _, err := f.configs.Update(ctx, a.ID, "zh-CN", json.RawMessage(`{"title":"new"}`)); err != nil {
		t.Fatalf("update a config: %v", err)
	}
	res, err = f.queries.ResolveLanguage(ctx, "b.com", "zh-CN")
	if err != nil {
		t.Fatalf("resolve b after update: %v", err)
	}
	if string(res.Data) != `{"title":"new"}` {
		t.Fatalf("referrer served stale data: %s", res.Data)
	}
}

func TestRenameInvalidatesOldName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := f.mustDomain(t, "old.com")
	f.mustConfig(t, d.ID, "zh-CN", `{"title":"x"}`)

	if _, err := f.queries.ResolveLanguage(ctx, "old.com", "zh-CN"); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	newName := "new.com"
	if _, err := f.domains.Update(ctx, d.ID, DomainUpdate{Name: &newName}); err != nil {
		t.Fatalf("rename: %v", err)
	}

	// A stale cache entry would still answer for the old name.
	if _, err := f.queries.ResolveLanguage(ctx, "old.com", "zh-CN"); !errs.IsNotFound(err) {
		t.Fatalf("old name err = %v, want NotFoundError", err)
	}
	if _, err := f.queries.ResolveLanguage(ctx, "new.com", "zh-CN"); err != nil {
		t.Fatalf("new name: %v", err)
	}
}

func TestDeleteDomainNullsReferrersAndInvalidates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.mustDomain(t, "a.com")
	b := f.mustDomain(t, "b.com")
	if _, err := f.domains.Update(ctx, b.ID, DomainUpdate{FallbackDomainID: &a.ID}); err != nil {
		t.Fatalf("b → a: %v", err)
	}
	f.mustConfig(t, a.ID, "zh-CN", `{"title":"x"}`)

	if _, err := f.queries.ResolveLanguage(ctx, "b.com", "zh-CN"); err != nil {
		t.Fatalf("resolve b: %v", err)
	}

	if err := f.domains.Delete(ctx, a.ID); err != nil {
		t.Fatalf("delete a: %v", err)
	}

	got, err := f.store.DomainByID(ctx, b.ID)
	if err != nil {
		t.Fatalf("b lookup: %v", err)
	}
	if got.FallbackDomainID != nil {
		t.Fatal("b still references the deleted domain")
	}
	if _, err := f.queries.ResolveLanguage(ctx, "b.com", "zh-CN"); !errs.IsNotFound(err) {
		t.Fatalf("b err = %v, want NotFoundError after target delete", err)
	}
}

func TestDeactivateInvalidates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := f.mustDomain(t, "test.com")
	f.mustConfig(t, d.ID, "zh-CN", `{"title":"x"}`)

	if _, err := f.queries.ResolveLanguage(ctx, "test.com", "zh-CN"); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	off := false
	if _, err := f.domains.Update(ctx, d.ID, DomainUpdate{IsActive: &off}); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := f.queries.ResolveLanguage(ctx, "test.com", "zh-CN"); !errs.IsNotFound(err) {
		t.Fatalf("err = %v, want NotFoundError for inactive domain", err)
	}
}

func TestIdempotentResolution(t *testing.T) {
	run := func(t *testing.T, cacheEnabled bool) {
		st := newMemStore()
		c := cache.New(time.Minute, cacheEnabled)
		t.Cleanup(c.Close)
		domains := NewDomains(st, c)
		configs := NewConfigs(st, c, testLangs)
		queries := NewQueries(resolver.New(st, testLangs), c)

		ctx := context.Background()
		d, err := domains.Create(ctx, DomainCreate{Name: "test.com"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if _, err := configs.Create(ctx, d.ID, "zh-CN", json.RawMessage(`{"title":"x"}`)); err != nil {
			t.Fatalf("config: %v", err)
		}

		first, err := queries.ResolveLanguage(ctx, "test.com", "en-US")
		if err != nil {
			t.Fatalf("first resolve: %v", err)
		}
		second, err := queries.ResolveLanguage(ctx, "test.com", "en-US")
		if err != nil {
			t.Fatalf("second resolve: %v", err)
		}

		a, _ := json.Marshal(first)
		b, _ := json.Marshal(second)
		if string(a) != string(b) {
			t.Fatalf("results differ:\n%s\n%s", a, b)
		}
	}

	t.Run("cache_enabled", func(t *testing.T) { run(t, true) })
	t.Run("cache_disabled", func(t *testing.T) { run(t, false) })
}

func TestDomainUpdate_ClearFallback(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.mustDomain(t, "a.com")
	b := f.mustDomain(t, "b.com")

	if _, err := f.domains.Update(ctx, b.ID, DomainUpdate{FallbackDomainID: &a.ID}); err != nil {
		t.Fatalf("b → a: %v", err)
	}
	rec, err := f.domains.Update(ctx, b.ID, DomainUpdate{ClearFallback: true})
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if rec.FallbackDomainID != nil {
		t.Fatal("fallback pointer not cleared")
	}
}

func TestDomainCreate_InvalidDefaultConfig(t *testing.T) {
	f := newFixture(t)
	_, err := f.domains.Create(context.Background(), DomainCreate{
		Name:          "test.com",
		DefaultConfig: json.RawMessage(`{not json`),
	})
	if !errs.IsValidation(err) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}
