// Package pairconfig implements LanguagePairConfig persistence using PostgreSQL.
package pairconfig

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/linkword/linkword-backend/internal/adapter/postgres"
	"github.com/linkword/linkword-backend/internal/domain"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

const columns = "id, language_pair, config_key, config_value, created_at, updated_at"

// Repo provides language-pair config persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new pair-config repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Upsert creates or replaces the value for a (pair, key) combination and
// returns the persisted row.
func (r *Repo) Upsert(ctx context.Context, c *domain.LanguagePairConfig) (*domain.LanguagePairConfig, error) {
	id := c.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	sql, args, err := psql.Insert("language_pair_configs").
		Columns("id", "language_pair", "config_key", "config_value").
		Values(id, c.LanguagePair, c.ConfigKey, []byte(c.ConfigValue)).
		Suffix(`ON CONFLICT (language_pair, config_key) DO UPDATE
SET config_value = EXCLUDED.config_value, updated_at = now()
RETURNING ` + columns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("pair config %s/%s: build upsert: %w", c.LanguagePair, c.ConfigKey, err)
	}

	return r.scanOne(ctx, c.LanguagePair+"/"+c.ConfigKey, sql, args...)
}

// Get returns the value for a (pair, key) combination, or domain.ErrNotFound.
func (r *Repo) Get(ctx context.Context, pair, key string) (*domain.LanguagePairConfig, error) {
	sql, args, err := psql.Select(columns).
		From("language_pair_configs").
		Where(squirrel.Eq{"language_pair": pair, "config_key": key}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("pair config %s/%s: build select: %w", pair, key, err)
	}

	return r.scanOne(ctx, pair+"/"+key, sql, args...)
}

// List returns configs, optionally filtered by language pair, ordered by
// pair then key.
func (r *Repo) List(ctx context.Context, pair *string) ([]domain.LanguagePairConfig, error) {
	q := psql.Select(columns).
		From("language_pair_configs").
		OrderBy("language_pair ASC", "config_key ASC")
	if pair != nil && *pair != "" {
		q = q.Where(squirrel.Eq{"language_pair": *pair})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("pair configs: build select: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "pair configs", "list")
	}
	defer rows.Close()

	var out []domain.LanguagePairConfig
	for rows.Next() {
		c, err := scanConfig(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("pair configs: %w", err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "pair configs", "list")
	}
	return out, nil
}

// Delete removes one config row by ID. Returns domain.ErrNotFound when
// no row matched.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	sql, args, err := psql.Delete("language_pair_configs").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("pair config %s: build delete: %w", id, err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "pair config", id.String())
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("pair config %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *Repo) scanOne(ctx context.Context, key, sql string, args ...any) (*domain.LanguagePairConfig, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)
	row := querier.QueryRow(ctx, sql, args...)
	c, err := scanConfig(row.Scan)
	if err != nil {
		return nil, postgres.MapError(err, "pair config", key)
	}
	return c, nil
}

func scanConfig(scan func(...any) error) (*domain.LanguagePairConfig, error) {
	var (
		c                    domain.LanguagePairConfig
		value                []byte
		createdAt, updatedAt time.Time
	)
	if err := scan(&c.ID, &c.LanguagePair, &c.ConfigKey, &value, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	c.ConfigValue = value
	c.CreatedAt = createdAt
	c.UpdatedAt = updatedAt
	return &c, nil
}
