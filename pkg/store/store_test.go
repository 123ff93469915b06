package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/cmdtower/pkg/coord"
	"github.com/matzehuels/cmdtower/pkg/errors"
	"github.com/matzehuels/cmdtower/pkg/layout"
)

func testLayout(name string, created time.Time) *layout.Layout {
	return &layout.Layout{
		ID:          uuid.NewString(),
		Name:        name,
		CreatedAt:   created.UTC(),
		Orientation: coord.DefaultOrientation,
		Max:         coord.Of(4, 4, 4),
		SideLength:  1,
		Attempts:    1,
		Blocks: []layout.Block{
			{Index: 0, Command: "say " + name, Mode: "impulse", Position: coord.Of(0, 0, 0), Facing: coord.Up},
		},
	}
}

// exercise runs the shared Store contract against s.
func exercise(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	older := testLayout("older", base)
	newer := testLayout("newer", base.Add(time.Minute))

	for _, l := range []*layout.Layout{older, newer} {
		if err := s.Save(ctx, l); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	got, err := s.Get(ctx, older.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "older" || len(got.Blocks) != 1 || got.Blocks[0].Facing != coord.Up {
		t.Errorf("Get = %+v", got)
	}

	list, err := s.List(ctx, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].ID != newer.ID || list[0].Blocks != 1 {
		t.Errorf("List = %+v", list)
	}
	if list, _ := s.List(ctx, 1); len(list) != 1 {
		t.Errorf("List(1) returned %d", len(list))
	}

	if err := s.Delete(ctx, older.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, older.ID); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Get after Delete err = %v", err)
	}
	if err := s.Delete(ctx, older.ID); err != nil {
		t.Errorf("Delete missing: %v", err)
	}
	if err := s.Save(ctx, &layout.Layout{ID: "../etc"}); !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("Save bad id err = %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	exercise(t, s)
}

func TestMemoryStoreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	l := testLayout("x", time.Now())
	_ = s.Save(ctx, l)
	l.Blocks[0].Command = "changed"
	got, _ := s.Get(ctx, l.ID)
	if got.Blocks[0].Command != "say x" {
		t.Error("store shares block slice with caller")
	}
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "layouts"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	exercise(t, s)

	if _, err := s.Get(context.Background(), "../../passwd"); !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("Get traversal err = %v", err)
	}
}

func TestNewFileStoreRequiresDir(t *testing.T) {
	if _, err := NewFileStore(""); err == nil {
		t.Error("NewFileStore(\"\") succeeded")
	}
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("CMDTOWER_TEST_MONGO")
	if uri == "" {
		t.Skip("CMDTOWER_TEST_MONGO not set")
	}
	s, err := NewMongoStore(context.Background(), MongoOptions{
		URI:        uri,
		Database:   "cmdtower_test",
		Collection: "layouts_" + uuid.NewString()[:8],
	})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	defer s.coll.Drop(context.Background())
	exercise(t, s)
}
