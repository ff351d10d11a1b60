// Package word implements Word persistence on a JSONB document table.
// The full aggregate is stored as one document; the table carries only
// the columns needed for lookup (normalized headword, language) and the
// uniqueness constraint of the (headword, language) pair.
package word

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/linkword/linkword-backend/internal/adapter/postgres"
	"github.com/linkword/linkword-backend/internal/domain"
)

// Repo provides word persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new word repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// The lookup runs a prefix scan limited to one row and then insists on
// an exact normalized-headword match. The prefix form keeps the query on
// the (headword_normalized, language) index.
const findByHeadwordSQL = `
SELECT headword_normalized, doc, created_at, updated_at
FROM words
WHERE language = $1 AND headword_normalized LIKE $2 || '%'
ORDER BY headword_normalized
LIMIT 1`

const getByIDSQL = `
SELECT doc, created_at, updated_at
FROM words
WHERE id = $1`

const upsertSQL = `
INSERT INTO words (id, headword, headword_normalized, language, doc, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (headword_normalized, language) DO UPDATE
SET doc = EXCLUDED.doc, updated_at = EXCLUDED.updated_at
RETURNING doc, created_at, updated_at`

// escapeLikePattern escapes LIKE metacharacters so a normalized
// headword is matched literally by the prefix scan. Postgres treats
// backslash as the default LIKE escape character.
func escapeLikePattern(s string) string {
	return likeEscaper.Replace(s)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// FindByHeadwordAndLanguage returns the stored word whose normalized
// headword exactly equals the given one, or domain.ErrNotFound.
func (r *Repo) FindByHeadwordAndLanguage(ctx context.Context, headword string, lang domain.Language) (*domain.Word, error) {
	normalized := domain.NormalizeHeadword(headword)
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var (
		gotNormalized        string
		doc                  []byte
		createdAt, updatedAt time.Time
	)
	err := querier.QueryRow(ctx, findByHeadwordSQL, lang, escapeLikePattern(normalized)).
		Scan(&gotNormalized, &doc, &createdAt, &updatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "word", normalized)
	}
	if gotNormalized != normalized {
		return nil, fmt.Errorf("word %s: %w", normalized, domain.ErrNotFound)
	}

	return decodeWord(doc, createdAt, updatedAt, normalized)
}

// GetByID returns the stored word by its UUID, or domain.ErrNotFound.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var (
		doc                  []byte
		createdAt, updatedAt time.Time
	)
	err := querier.QueryRow(ctx, getByIDSQL, id).Scan(&doc, &createdAt, &updatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "word", id.String())
	}

	return decodeWord(doc, createdAt, updatedAt, id.String())
}

// Save upserts the word keyed by its (normalized headword, language)
// pair and returns the persisted aggregate.
func (r *Repo) Save(ctx context.Context, w *domain.Word) (*domain.Word, error) {
	normalized := domain.NormalizeHeadword(w.Headword)

	doc, err := json.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("word %s: marshal: %w", normalized, err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var (
		savedDoc             []byte
		createdAt, updatedAt time.Time
	)
	err = querier.QueryRow(ctx, upsertSQL,
		w.WordID, w.Headword, normalized, w.Language, doc, w.CreatedAt, w.UpdatedAt,
	).Scan(&savedDoc, &createdAt, &updatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "word", normalized)
	}

	return decodeWord(savedDoc, createdAt, updatedAt, normalized)
}

// decodeWord unmarshals a stored document and stamps the column-held
// timestamps, which are authoritative over the ones inside the document.
func decodeWord(doc []byte, createdAt, updatedAt time.Time, key string) (*domain.Word, error) {
	var w domain.Word
	if err := json.Unmarshal(doc, &w); err != nil {
		return nil, fmt.Errorf("word %s: unmarshal: %w", key, err)
	}
	w.CreatedAt = createdAt
	w.UpdatedAt = updatedAt
	return &w, nil
}
