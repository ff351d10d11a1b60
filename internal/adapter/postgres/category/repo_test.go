package category_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/linkword/linkword-backend/internal/adapter/postgres/category"
	"github.com/linkword/linkword-backend/internal/adapter/postgres/testhelper"
	"github.com/linkword/linkword-backend/internal/domain"
)

// newRepo sets up a test DB and returns a ready Repo + pool.
func newRepo(t *testing.T) (*category.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return category.New(pool), pool
}

func uniqueSlug(base string) string {
	return base + "-" + uuid.New().String()[:8]
}

func testCategory(slug string) *domain.Category {
	return &domain.Category{
		CategoryID: slug,
		DisplayName: map[domain.Language]string{
			"en": "Food & Drink",
			"id": "Makanan & Minuman",
		},
		Description: map[domain.Language]string{
			"en": "Everyday food vocabulary.",
		},
	}
}

func TestRepo_Create_RoundTrip(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	slug := uniqueSlug("food")
	created, err := repo.Create(ctx, testCategory(slug))
	if err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}
	if created.DisplayName["id"] != "Makanan & Minuman" {
		t.Errorf("DisplayName mismatch: got %q", created.DisplayName["id"])
	}
	if created.CreatedAt.IsZero() {
		t.Error("CreatedAt not stamped")
	}

	got, err := repo.GetByID(ctx, slug)
	if err != nil {
		t.Fatalf("GetByID: unexpected error: %v", err)
	}
	if got.Description["en"] != "Everyday food vocabulary." {
		t.Errorf("Description mismatch: got %q", got.Description["en"])
	}
}

func TestRepo_Create_DuplicateSlug(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	slug := uniqueSlug("travel")
	if _, err := repo.Create(ctx, testCategory(slug)); err != nil {
		t.Fatalf("Create[0]: unexpected error: %v", err)
	}

	_, err := repo.Create(ctx, testCategory(slug))
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("Create[1]: got %v, want ErrAlreadyExists", err)
	}
}

func TestRepo_Update(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	slug := uniqueSlug("animals")
	if _, err := repo.Create(ctx, testCategory(slug)); err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}

	updated := testCategory(slug)
	updated.DisplayName["en"] = "Animals"
	updated.Description = map[domain.Language]string{}

	got, err := repo.Update(ctx, updated)
	if err != nil {
		t.Fatalf("Update: unexpected error: %v", err)
	}
	if got.DisplayName["en"] != "Animals" {
		t.Errorf("DisplayName not replaced: got %q", got.DisplayName["en"])
	}
	if len(got.Description) != 0 {
		t.Errorf("Description not replaced: got %v", got.Description)
	}

	_, err = repo.Update(ctx, testCategory(uniqueSlug("missing")))
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Update(missing): got %v, want ErrNotFound", err)
	}
}

func TestRepo_List_OrderedBySlug(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	a := uniqueSlug("aaa-list")
	b := uniqueSlug("zzz-list")
	for _, slug := range []string{b, a} {
		if _, err := repo.Create(ctx, testCategory(slug)); err != nil {
			t.Fatalf("Create(%s): unexpected error: %v", slug, err)
		}
	}

	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: unexpected error: %v", err)
	}

	posA, posB := -1, -1
	for i, c := range all {
		switch c.CategoryID {
		case a:
			posA = i
		case b:
			posB = i
		}
	}
	if posA == -1 || posB == -1 {
		t.Fatalf("created categories missing from List: a=%d b=%d", posA, posB)
	}
	if posA > posB {
		t.Errorf("ordering: %q listed after %q", a, b)
	}
}

func TestRepo_Delete(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	slug := uniqueSlug("temp")
	if _, err := repo.Create(ctx, testCategory(slug)); err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}

	if err := repo.Delete(ctx, slug); err != nil {
		t.Fatalf("Delete: unexpected error: %v", err)
	}
	if _, err := repo.GetByID(ctx, slug); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetByID after delete: got %v, want ErrNotFound", err)
	}
	if err := repo.Delete(ctx, slug); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Delete twice: got %v, want ErrNotFound", err)
	}
}
