// internal/service/configs.go
//
// Language-config management service.
//
// Admission (language membership, owning-domain existence, duplicate
// checks) and write-path cache invalidation for the `config` table.  The
// same affected-name rule as the domain service applies: a config write
// invalidates the owning domain's variants and those of any domain whose
// fallback pointer targets the owner.
package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/yanizio/domainconf/internal/cache"
	"github.com/yanizio/domainconf/internal/domain"
	"github.com/yanizio/domainconf/internal/errs"
	"github.com/yanizio/domainconf/internal/resolver"
	"github.com/yanizio/domainconf/internal/siteconfig"
)

// Configs provides config CRUD with invariant enforcement.
type Configs struct {
	store Store
	cache *cache.Cache
	langs resolver.Languages
}

// NewConfigs constructs the service.
func NewConfigs(store Store, c *cache.Cache, langs resolver.Languages) *Configs {
	return &Configs{store: store, cache: c, langs: langs}
}

// Create inserts a config for an existing domain.  One config per
// (domain, language); a second create for the same pair is a duplicate.
func (s *Configs) Create(ctx context.Context, domainID uint64, language string, data json.RawMessage) (*siteconfig.Record, error) {
	owner, err := s.store.DomainByID(ctx, domainID)
	if err != nil {
		return nil, err
	}
	language, err = s.langs.Normalize(language)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.ConfigByDomainAndLanguage(ctx, domainID, language); err == nil {
		return nil, errs.Duplicatef("config for domain id %d and language %q already exists",
			domainID, language)
	} else if !errs.IsNotFound(err) {
		return nil, err
	}
	doc, err := admitDocument(data, "data")
	if err != nil {
		return nil, err
	}

	rec, err := s.store.CreateConfig(ctx, domainID, language, doc)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, owner)
	return rec, nil
}

// Get returns the config for one (domain, language) pair.
func (s *Configs) Get(ctx context.Context, domainID uint64, language string) (*siteconfig.Record, error) {
	language, err := s.langs.Normalize(language)
	if err != nil {
		return nil, err
	}
	return s.store.ConfigByDomainAndLanguage(ctx, domainID, language)
}

// List returns every config owned by one domain.
func (s *Configs) List(ctx context.Context, domainID uint64) ([]siteconfig.Record, error) {
	if _, err := s.store.DomainByID(ctx, domainID); err != nil {
		return nil, err
	}
	return s.store.ConfigsByDomain(ctx, domainID)
}

// Update replaces the data document for one (domain, language) pair.
func (s *Configs) Update(ctx context.Context, domainID uint64, language string, data json.RawMessage) (*siteconfig.Record, error) {
	owner, err := s.store.DomainByID(ctx, domainID)
	if err != nil {
		return nil, err
	}
	language, err = s.langs.Normalize(language)
	if err != nil {
		return nil, err
	}
	doc, err := admitDocument(data, "data")
	if err != nil {
		return nil, err
	}

	rec, err := s.store.UpdateConfig(ctx, domainID, language, doc)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, owner)
	return rec, nil
}

// Delete removes the config for one (domain, language) pair.
func (s *Configs) Delete(ctx context.Context, domainID uint64, language string) error {
	owner, err := s.store.DomainByID(ctx, domainID)
	if err != nil {
		return err
	}
	language, err = s.langs.Normalize(language)
	if err != nil {
		return err
	}
	if err := s.store.DeleteConfig(ctx, domainID, language); err != nil {
		return err
	}
	s.invalidate(ctx, owner)
	return nil
}

func (s *Configs) invalidate(ctx context.Context, owner *domain.Record) {
	s.cache.Invalidate(owner.Name)
	refs, err := s.store.DomainsReferencing(ctx, owner.ID)
	if err != nil {
		zap.L().Warn("fallback referrer lookup failed",
			zap.Uint64("domain_id", owner.ID), zap.Error(err))
		return
	}
	for i := range refs {
		s.cache.Invalidate(refs[i].Name)
	}
}
