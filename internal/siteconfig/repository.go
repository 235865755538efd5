// internal/siteconfig/repository.go
//
// Config-table query helpers.
//
// Context
// -------
// CRUD access to the **config** table, always addressed by the composite
// key (domain_id, language).  The unique index `uq_config_domain_language`
// backs the one-config-per-pair invariant; a violation surfaces as a
// DuplicateError before the caller sees driver details.
//
// Notes
// -----
// • Column list matches the fields in `Record`; update both together.
// • Oxford commas, two spaces after periods.
package siteconfig

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/yanizio/domainconf/internal/errs"
)

const columns = `id, domain_id, language, data, created_at, updated_at`

// Create inserts a new config row for an existing domain and returns the
// stored record.
func Create(ctx context.Context, db *sqlx.DB, domainID uint64, language string, data []byte) (*Record, error) {
	const q = `INSERT INTO config (domain_id, language, data) VALUES (?, ?, ?)`
	if len(data) == 0 {
		data = []byte("{}")
	}
	_, err := db.ExecContext(ctx, q, domainID, language, data)
	if err != nil {
		if isDuplicateKey(err) {
			return nil, errs.Duplicatef("config for domain id %d and language %q already exists",
				domainID, language)
		}
		return nil, err
	}
	return ByDomainAndLanguage(ctx, db, domainID, language)
}

// ByDomainAndLanguage fetches the config row for one (domain, language)
// pair.
func ByDomainAndLanguage(ctx context.Context, db *sqlx.DB, domainID uint64, language string) (*Record, error) {
	const q = `
        SELECT ` + columns + `
        FROM   config
        WHERE  domain_id = ? AND language = ?
        LIMIT  1`
	var rec Record
	if err := db.GetContext(ctx, &rec, q, domainID, language); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.NotFoundf("config for domain id %d and language %q not found",
				domainID, language)
		}
		return nil, err
	}
	return &rec, nil
}

// AllByDomain returns every config row owned by one domain, ordered by
// language for stable admin listings.
func AllByDomain(ctx context.Context, db *sqlx.DB, domainID uint64) ([]Record, error) {
	const q = `
        SELECT ` + columns + `
        FROM   config
        WHERE  domain_id = ?
        ORDER  BY language`
	rows := make([]Record, 0, 8)
	if err := db.SelectContext(ctx, &rows, q, domainID); err != nil {
		return nil, err
	}
	return rows, nil
}

// Update replaces the data document for one (domain, language) pair.
func Update(ctx context.Context, db *sqlx.DB, domainID uint64, language string, data []byte) (*Record, error) {
	const q = `UPDATE config SET data = ? WHERE domain_id = ? AND language = ?`
	if len(data) == 0 {
		data = []byte("{}")
	}
	res, err := db.ExecContext(ctx, q, data, domainID, language)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// Distinguish "row absent" from "data unchanged"; MySQL reports
		// zero affected rows for both, so re-check existence.
		if _, err := ByDomainAndLanguage(ctx, db, domainID, language); err != nil {
			return nil, err
		}
	}
	return ByDomainAndLanguage(ctx, db, domainID, language)
}

// Delete removes the config row for one (domain, language) pair.
func Delete(ctx context.Context, db *sqlx.DB, domainID uint64, language string) error {
	const q = `DELETE FROM config WHERE domain_id = ? AND language = ?`
	res, err := db.ExecContext(ctx, q, domainID, language)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.NotFoundf("config for domain id %d and language %q not found",
			domainID, language)
	}
	return nil
}

// isDuplicateKey recognises the MySQL/MariaDB duplicate-entry error (1062)
// without importing driver-specific types.
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
