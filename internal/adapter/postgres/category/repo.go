// Package category implements Category persistence using PostgreSQL.
package category

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/linkword/linkword-backend/internal/adapter/postgres"
	"github.com/linkword/linkword-backend/internal/domain"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

const columns = "category_id, display_name, description, created_at, updated_at"

// Repo provides category persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new category repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Create inserts a new category. Returns domain.ErrAlreadyExists when
// the slug is taken.
func (r *Repo) Create(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	displayName, description, err := marshalMaps(c)
	if err != nil {
		return nil, fmt.Errorf("category %s: %w", c.CategoryID, err)
	}

	sql, args, err := psql.Insert("categories").
		Columns("category_id", "display_name", "description").
		Values(c.CategoryID, displayName, description).
		Suffix("RETURNING " + columns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("category %s: build insert: %w", c.CategoryID, err)
	}

	return r.scanOne(ctx, c.CategoryID, sql, args...)
}

// GetByID returns the category by slug, or domain.ErrNotFound.
func (r *Repo) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	sql, args, err := psql.Select(columns).
		From("categories").
		Where(squirrel.Eq{"category_id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("category %s: build select: %w", id, err)
	}

	return r.scanOne(ctx, id, sql, args...)
}

// List returns all categories ordered by slug.
func (r *Repo) List(ctx context.Context) ([]domain.Category, error) {
	sql, args, err := psql.Select(columns).
		From("categories").
		OrderBy("category_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("categories: build select: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "categories", "all")
	}
	defer rows.Close()

	var out []domain.Category
	for rows.Next() {
		c, err := scanCategory(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("categories: %w", err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "categories", "all")
	}
	return out, nil
}

// Update replaces the display name and description of a category.
func (r *Repo) Update(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	displayName, description, err := marshalMaps(c)
	if err != nil {
		return nil, fmt.Errorf("category %s: %w", c.CategoryID, err)
	}

	sql, args, err := psql.Update("categories").
		Set("display_name", displayName).
		Set("description", description).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"category_id": c.CategoryID}).
		Suffix("RETURNING " + columns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("category %s: build update: %w", c.CategoryID, err)
	}

	return r.scanOne(ctx, c.CategoryID, sql, args...)
}

// Delete removes a category by slug. Returns domain.ErrNotFound when no
// row matched.
func (r *Repo) Delete(ctx context.Context, id string) error {
	sql, args, err := psql.Delete("categories").
		Where(squirrel.Eq{"category_id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("category %s: build delete: %w", id, err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "category", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("category %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *Repo) scanOne(ctx context.Context, id, sql string, args ...any) (*domain.Category, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)
	row := querier.QueryRow(ctx, sql, args...)
	c, err := scanCategory(row.Scan)
	if err != nil {
		return nil, postgres.MapError(err, "category", id)
	}
	return c, nil
}

func scanCategory(scan func(...any) error) (*domain.Category, error) {
	var (
		c                         domain.Category
		displayName, description  []byte
		createdAt, updatedAt      time.Time
	)
	if err := scan(&c.CategoryID, &displayName, &description, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(displayName, &c.DisplayName); err != nil {
		return nil, fmt.Errorf("unmarshal display_name: %w", err)
	}
	if err := json.Unmarshal(description, &c.Description); err != nil {
		return nil, fmt.Errorf("unmarshal description: %w", err)
	}
	c.CreatedAt = createdAt
	c.UpdatedAt = updatedAt
	return &c, nil
}

func marshalMaps(c *domain.Category) (displayName, description []byte, err error) {
	if displayName, err = json.Marshal(c.DisplayName); err != nil {
		return nil, nil, fmt.Errorf("marshal display_name: %w", err)
	}
	if description, err = json.Marshal(c.Description); err != nil {
		return nil, nil, fmt.Errorf("marshal description: %w", err)
	}
	return displayName, description, nil
}
