// internal/service/store.go
//
// Store contract consumed by the services, plus its sqlx implementation.
//
// Context
// -------
// The services depend on this interface rather than on *sqlx.DB so tests
// can substitute an in-memory fake.  SQLStore is the production
// implementation; it delegates to the repository helpers in
// internal/domain and internal/siteconfig and therefore inherits their
// typed-error mapping.  SQLStore also satisfies resolver.Store, so one
// adapter feeds both the services and the resolution engine.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
package service

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/yanizio/domainconf/internal/domain"
	"github.com/yanizio/domainconf/internal/siteconfig"
)

// Store is the persistence surface the services consume.
type Store interface {
	CreateDomain(ctx context.Context, rec *domain.Record) (*domain.Record, error)
	DomainByID(ctx context.Context, id uint64) (*domain.Record, error)
	DomainByName(ctx context.Context, name string) (*domain.Record, error)
	Domains(ctx context.Context, activeOnly bool) ([]domain.Record, error)
	UpdateDomain(ctx context.Context, rec *domain.Record) (*domain.Record, error)
	DeleteDomain(ctx context.Context, id uint64) error
	DomainsReferencing(ctx context.Context, id uint64) ([]domain.Record, error)

	CreateConfig(ctx context.Context, domainID uint64, language string, data []byte) (*siteconfig.Record, error)
	ConfigByDomainAndLanguage(ctx context.Context, domainID uint64, language string) (*siteconfig.Record, error)
	ConfigsByDomain(ctx context.Context, domainID uint64) ([]siteconfig.Record, error)
	UpdateConfig(ctx context.Context, domainID uint64, language string, data []byte) (*siteconfig.Record, error)
	DeleteConfig(ctx context.Context, domainID uint64, language string) error
}

// SQLStore implements Store (and resolver.Store) over one *sqlx.DB.
type SQLStore struct {
	DB *sqlx.DB
}

// NewSQLStore wraps db in a Store.
func NewSQLStore(db *sqlx.DB) *SQLStore { return &SQLStore{DB: db} }

func (s *SQLStore) CreateDomain(ctx context.Context, rec *domain.Record) (*domain.Record, error) {
	return domain.Create(ctx, s.DB, rec)
}

func (s *SQLStore) DomainByID(ctx context.Context, id uint64) (*domain.Record, error) {
	return domain.ByID(ctx, s.DB, id)
}

func (s *SQLStore) DomainByName(ctx context.Context, name string) (*domain.Record, error) {
	return domain.ByName(ctx, s.DB, name)
}

func (s *SQLStore) Domains(ctx context.Context, activeOnly bool) ([]domain.Record, error) {
	return domain.All(ctx, s.DB, activeOnly)
}

func (s *SQLStore) UpdateDomain(ctx context.Context, rec *domain.Record) (*domain.Record, error) {
	return domain.Update(ctx, s.DB, rec)
}

func (s *SQLStore) DeleteDomain(ctx context.Context, id uint64) error {
	return domain.Delete(ctx, s.DB, id)
}

func (s *SQLStore) DomainsReferencing(ctx context.Context, id uint64) ([]domain.Record, error) {
	return domain.ReferencedBy(ctx, s.DB, id)
}

func (s *SQLStore) CreateConfig(ctx context.Context, domainID uint64, language string, data []byte) (*siteconfig.Record, error) {
	return siteconfig.Create(ctx, s.DB, domainID, language, data)
}

func (s *SQLStore) ConfigByDomainAndLanguage(ctx context.Context, domainID uint64, language string) (*siteconfig.Record, error) {
	return siteconfig.ByDomainAndLanguage(ctx, s.DB, domainID, language)
}

func (s *SQLStore) ConfigsByDomain(ctx context.Context, domainID uint64) ([]siteconfig.Record, error) {
	return siteconfig.AllByDomain(ctx, s.DB, domainID)
}

func (s *SQLStore) UpdateConfig(ctx context.Context, domainID uint64, language string, data []byte) (*siteconfig.Record, error) {
	return siteconfig.Update(ctx, s.DB, domainID, language, data)
}

func (s *SQLStore) DeleteConfig(ctx context.Context, domainID uint64, language string) error {
	return siteconfig.Delete(ctx, s.DB, domainID, language)
}
