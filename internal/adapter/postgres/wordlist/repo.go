// Package wordlist implements GeneratedWordList persistence using PostgreSQL.
package wordlist

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/linkword/linkword-backend/internal/adapter/postgres"
	"github.com/linkword/linkword-backend/internal/domain"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

const columns = `id, readable_id, status, language, cefr_level, list_category_id,
admin_notes, requested_word_count, generated_word_count, prompt_text_sent,
source_model, words, created_at, updated_at`

// Repo provides generated-word-list persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new word-list repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Create inserts a freshly generated list and returns the persisted row.
func (r *Repo) Create(ctx context.Context, l *domain.GeneratedWordList) (*domain.GeneratedWordList, error) {
	words, err := json.Marshal(l.Words)
	if err != nil {
		return nil, fmt.Errorf("word list %s: marshal words: %w", l.ReadableID, err)
	}

	id := l.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	sql, args, err := psql.Insert("generated_word_lists").
		Columns("id", "readable_id", "status", "language", "cefr_level", "list_category_id",
			"admin_notes", "requested_word_count", "generated_word_count",
			"prompt_text_sent", "source_model", "words").
		Values(id, l.ReadableID, l.Status, l.Language, l.CEFRLevel, l.ListCategoryID,
			l.AdminNotes, l.RequestedWordCount, l.GeneratedWordCount,
			l.PromptTextSent, l.SourceModel, words).
		Suffix("RETURNING " + columns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("word list %s: build insert: %w", l.ReadableID, err)
	}

	return r.scanOne(ctx, l.ReadableID, sql, args...)
}

// GetByID returns the list by UUID, or domain.ErrNotFound.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.GeneratedWordList, error) {
	sql, args, err := psql.Select(columns).
		From("generated_word_lists").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("word list %s: build select: %w", id, err)
	}

	return r.scanOne(ctx, id.String(), sql, args...)
}

// List returns lists matching the filter, newest first.
func (r *Repo) List(ctx context.Context, f domain.ListFilter) ([]domain.GeneratedWordList, error) {
	normalizeFilter(&f)

	q := psql.Select(columns).
		From("generated_word_lists").
		OrderBy("created_at DESC").
		Limit(uint64(f.Limit)).
		Offset(uint64(f.Offset))
	if f.Status != nil {
		q = q.Where(squirrel.Eq{"status": *f.Status})
	}
	if f.Language != nil {
		q = q.Where(squirrel.Eq{"language": *f.Language})
	}
	if f.CategoryID != nil {
		q = q.Where(squirrel.Eq{"list_category_id": *f.CategoryID})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("word lists: build select: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "word lists", "list")
	}
	defer rows.Close()

	var out []domain.GeneratedWordList
	for rows.Next() {
		l, err := scanList(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("word lists: %w", err)
		}
		out = append(out, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "word lists", "list")
	}
	return out, nil
}

// UpdateReview changes the review state and admin notes of a list.
func (r *Repo) UpdateReview(ctx context.Context, id uuid.UUID, status domain.ListStatus, adminNotes *string) (*domain.GeneratedWordList, error) {
	sql, args, err := psql.Update("generated_word_lists").
		Set("status", status).
		Set("admin_notes", adminNotes).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + columns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("word list %s: build update: %w", id, err)
	}

	return r.scanOne(ctx, id.String(), sql, args...)
}

// Delete removes a list by UUID. Returns domain.ErrNotFound when no row
// matched.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	sql, args, err := psql.Delete("generated_word_lists").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("word list %s: build delete: %w", id, err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "word list", id.String())
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("word list %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *Repo) scanOne(ctx context.Context, key, sql string, args ...any) (*domain.GeneratedWordList, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)
	row := querier.QueryRow(ctx, sql, args...)
	l, err := scanList(row.Scan)
	if err != nil {
		return nil, postgres.MapError(err, "word list", key)
	}
	return l, nil
}

func scanList(scan func(...any) error) (*domain.GeneratedWordList, error) {
	var (
		l                    domain.GeneratedWordList
		words                []byte
		createdAt, updatedAt time.Time
	)
	if err := scan(&l.ID, &l.ReadableID, &l.Status, &l.Language, &l.CEFRLevel,
		&l.ListCategoryID, &l.AdminNotes, &l.RequestedWordCount, &l.GeneratedWordCount,
		&l.PromptTextSent, &l.SourceModel, &words, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(words, &l.Words); err != nil {
		return nil, fmt.Errorf("unmarshal words: %w", err)
	}
	l.CreatedAt = createdAt
	l.UpdatedAt = updatedAt
	return &l, nil
}
