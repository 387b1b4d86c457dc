package scriptstore

import (
	"errors"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "store.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndGet(t *testing.T) {
	s := openTestStore(t)

	id, err := s.Save("ndvi", "direct", "dest = src;")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if id == "" {
		t.Fatal("Save returned an empty id")
	}

	sc, err := s.Get("ndvi")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if sc.Name != "ndvi" || sc.Model != "direct" || sc.Source != "dest = src;" {
		t.Errorf("got %+v", sc)
	}
	if sc.CreatedAt.IsZero() {
		t.Error("created_at should be set")
	}
}

func TestSaveReplacesByName(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.Save("ndvi", "direct", "dest = src;"); err != nil {
		t.Fatalf("first Save: %v", err)
	}
	if _, err := s.Save("ndvi", "indirect", "dest = src * 2;"); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	sc, err := s.Get("ndvi")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if sc.Model != "indirect" || sc.Source != "dest = src * 2;" {
		t.Errorf("got %+v, want the replaced version", sc)
	}

	scripts, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(scripts) != 1 {
		t.Errorf("got %d scripts, want 1", len(scripts))
	}
}

func TestGetMissing(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Get("nosuch"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListOrdersByName(t *testing.T) {
	s := openTestStore(t)
	for _, name := range []string{"zonal", "brighten", "mask"} {
		if _, err := s.Save(name, "direct", "dest = 1;"); err != nil {
			t.Fatalf("Save(%s): %v", name, err)
		}
	}
	scripts, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var names []string
	for _, sc := range scripts {
		names = append(names, sc.Name)
	}
	want := []string{"brighten", "mask", "zonal"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("names = %v, want %v", names, want)
		}
	}
}

func TestGeneratedCache(t *testing.T) {
	s := openTestStore(t)

	if _, ok, err := s.LookupGenerated("dest = 1;", "direct", "Proc"); err != nil || ok {
		t.Fatalf("empty lookup = (%v, %v)", ok, err)
	}

	if err := s.CacheGenerated("dest = 1;", "direct", "Proc", "package main"); err != nil {
		t.Fatalf("CacheGenerated: %v", err)
	}
	got, ok, err := s.LookupGenerated("dest = 1;", "direct", "Proc")
	if err != nil || !ok || got != "package main" {
		t.Fatalf("lookup = (%q, %v, %v)", got, ok, err)
	}

	// Any key component change misses the cache.
	if _, ok, _ := s.LookupGenerated("dest = 1;", "indirect", "Proc"); ok {
		t.Error("model change should miss the cache")
	}
	if _, ok, _ := s.LookupGenerated("dest = 1;", "direct", "Other"); ok {
		t.Error("name change should miss the cache")
	}
}
