package foodies

import (
	"context"
	"errors"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "data", "test_meals.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testMeal(slug, title string) Meal {
	return Meal{
		Slug:         slug,
		Title:        title,
		Summary:      "summary of " + title,
		Instructions: "cook " + title,
		Image:        "/public/uploads/" + slug + ".jpg",
		Creator:      "Ann",
		CreatorEmail: "a@x.com",
	}
}

func TestNewStore(t *testing.T) {
	s := setupTestStore(t)

	if s.db == nil {
		t.Fatal("db should not be nil")
	}
}

func TestNewStoreReopensExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meals.db")
	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if err := s.InsertMeal(context.Background(), testMeal("soup", "Soup")); err != nil {
		t.Fatalf("InsertMeal failed: %v", err)
	}
	s.Close()

	s, err = NewStore(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s.Close()
	if _, err := s.GetMeal(context.Background(), "soup"); err != nil {
		t.Errorf("meal should survive reopen: %v", err)
	}
}

func TestNewStoreAppliesPragmasToEveryConnection(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	// Holding each conn forces the pool to open a new one for the next.
	for i := 0; i < 3; i++ {
		conn, err := s.db.Conn(ctx)
		if err != nil {
			t.Fatalf("conn %d: %v", i, err)
		}
		defer conn.Close()

		var timeout, sync int
		if err := conn.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&timeout); err != nil {
			t.Fatalf("conn %d busy_timeout: %v", i, err)
		}
		if err := conn.QueryRowContext(ctx, "PRAGMA synchronous").Scan(&sync); err != nil {
			t.Fatalf("conn %d synchronous: %v", i, err)
		}
		if timeout != 5000 {
			t.Errorf("conn %d busy_timeout = %d, want 5000", i, timeout)
		}
		if sync != 1 {
			t.Errorf("conn %d synchronous = %d, want 1 (NORMAL)", i, sync)
		}
	}
}

func TestSQLiteDSN(t *testing.T) {
	dsn := sqliteDSN("data/meals.db")
	if !strings.HasPrefix(dsn, "data/meals.db?") {
		t.Fatalf("dsn = %q, want the path before the query", dsn)
	}
	q, err := url.ParseQuery(strings.TrimPrefix(dsn, "data/meals.db?"))
	if err != nil {
		t.Fatalf("parse query: %v", err)
	}
	if got := q["_pragma"]; len(got) != len(sqlitePragmas) || got[1] != "busy_timeout(5000)" {
		t.Errorf("_pragma = %v, want %v", got, sqlitePragmas)
	}
}

func TestInsertAndGetMeal(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	meal := Meal{
		Slug:         "big-burger",
		Title:        "Big Burger",
		Summary:      "Tasty",
		Instructions: "Grill it",
		Image:        "/public/uploads/big-burger-0a1b2c3d.jpg",
		Creator:      "Ann",
		CreatorEmail: "a@x.com",
	}
	if err := s.InsertMeal(ctx, meal); err != nil {
		t.Fatalf("InsertMeal failed: %v", err)
	}

	got, err := s.GetMeal(ctx, "big-burger")
	if err != nil {
		t.Fatalf("GetMeal failed: %v", err)
	}
	if got != meal {
		t.Errorf("GetMeal = %+v, want %+v", got, meal)
	}
	if got.Link() != "/meals/big-burger/" {
		t.Errorf("Link = %q, want %q", got.Link(), "/meals/big-burger/")
	}
}

func TestGetMealNotFound(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.GetMeal(context.Background(), "nonexistent")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestInsertDuplicateSlug(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	first := testMeal("soup", "Soup")
	second := testMeal("soup", "SOUP!")
	if err := s.InsertMeal(ctx, first); err != nil {
		t.Fatalf("InsertMeal failed: %v", err)
	}

	err := s.InsertMeal(ctx, second)
	if !errors.Is(err, ErrSlugExists) {
		t.Fatalf("expected ErrSlugExists, got %v", err)
	}
	var conflict *SlugConflictError
	if !errors.As(err, &conflict) || conflict.Slug != "soup" {
		t.Errorf("expected *SlugConflictError for soup, got %#v", err)
	}

	meals, err := s.ListMeals(ctx)
	if err != nil {
		t.Fatalf("ListMeals failed: %v", err)
	}
	if len(meals) != 1 {
		t.Fatalf("ListMeals count = %d, want 1", len(meals))
	}
	if meals[0].Title != "Soup" {
		t.Errorf("first meal should be retained, got %q", meals[0].Title)
	}
}

func TestListMealsInsertionOrder(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	for _, m := range []Meal{
		testMeal("zucchini-fritters", "Zucchini Fritters"),
		testMeal("apple-pie", "Apple Pie"),
		testMeal("mac-and-cheese", "Mac and Cheese"),
	} {
		if err := s.InsertMeal(ctx, m); err != nil {
			t.Fatalf("InsertMeal failed: %v", err)
		}
	}

	got, err := s.ListMeals(ctx)
	if err != nil {
		t.Fatalf("ListMeals failed: %v", err)
	}
	want := []string{"zucchini-fritters", "apple-pie", "mac-and-cheese"}
	if len(got) != len(want) {
		t.Fatalf("ListMeals count = %d, want %d", len(got), len(want))
	}
	for i, slug := range want {
		if got[i].Slug != slug {
			t.Errorf("ListMeals[%d] = %q, want %q", i, got[i].Slug, slug)
		}
	}
}

func TestListMealsEmpty(t *testing.T) {
	s := setupTestStore(t)

	got, err := s.ListMeals(context.Background())
	if err != nil {
		t.Fatalf("ListMeals failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("ListMeals on empty store = %v, want none", got)
	}
}
