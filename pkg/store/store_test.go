package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/influencemap/pkg/errors"
	"github.com/matzehuels/influencemap/pkg/stakeholder"
)

func sample() stakeholder.Set {
	return stakeholder.Set{
		{Name: "CEO", Role: "Chief Executive", Division: "Executive", RelationshipScore: 8, DecisionWeighting: 95},
		{Name: "CFO", Role: "Finance", Division: "Finance", ReportsTo: stakeholder.ReportsTo("CEO"), RelationshipScore: 2, DecisionWeighting: 85},
	}
}

// testStore runs the behaviour every backend shares.
func testStore(t *testing.T, st Store) {
	t.Helper()
	ctx := context.Background()

	if _, found, err := st.Load(ctx, "absent"); err != nil || found {
		t.Fatalf("Load(absent) = found %v, err %v", found, err)
	}

	if err := st.Save(ctx, DefaultKey, sample()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, found, err := st.Load(ctx, DefaultKey)
	if err != nil || !found {
		t.Fatalf("Load = found %v, err %v", found, err)
	}
	if !got.Equal(sample()) {
		t.Errorf("Load = %+v, want %+v", got, sample())
	}

	if err := st.Save(ctx, DefaultKey, stakeholder.Set{}); err != nil {
		t.Fatalf("Save(empty): %v", err)
	}
	got, found, _ = st.Load(ctx, DefaultKey)
	if !found || got.Len() != 0 {
		t.Errorf("Load after empty save = %+v, found %v", got, found)
	}

	if err := st.Delete(ctx, DefaultKey); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, found, _ := st.Load(ctx, DefaultKey); found {
		t.Error("Load after Delete found a snapshot")
	}
	if err := st.Delete(ctx, DefaultKey); err != nil {
		t.Errorf("Delete(missing) = %v", err)
	}
}

func TestFileStore(t *testing.T) {
	st, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	testStore(t, st)
}

func TestFileStore_InvalidKey(t *testing.T) {
	st, _ := NewFileStore(t.TempDir())
	err := st.Save(context.Background(), "../escape", sample())
	if !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("Save(../escape) = %v, want INVALID_PATH", err)
	}
}

func TestFileStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	st, _ := NewFileStore(dir)
	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	_, _, err := st.Load(context.Background(), "bad")
	if !errors.Is(err, errors.ErrCodePersistence) {
		t.Errorf("Load(bad) = %v, want PERSISTENCE", err)
	}
}

func TestFileStore_WriteFailure(t *testing.T) {
	dir := t.TempDir()
	st, _ := NewFileStore(dir)
	if err := os.RemoveAll(dir); err != nil {
		t.Fatal(err)
	}
	err := st.Save(context.Background(), DefaultKey, sample())
	if !errors.Is(err, errors.ErrCodePersistence) {
		t.Errorf("Save into removed dir = %v, want PERSISTENCE", err)
	}
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestMemoryStore_Isolation(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()
	set := sample()
	_ = st.Save(ctx, DefaultKey, set)
	set[0].Name = "changed"

	got, _, _ := st.Load(ctx, DefaultKey)
	if got[0].Name != "CEO" {
		t.Errorf("stored set aliased caller slice: %v", got.Names())
	}
}

func TestNullStore(t *testing.T) {
	var st NullStore
	ctx := context.Background()
	if err := st.Save(ctx, DefaultKey, sample()); err != nil {
		t.Fatal(err)
	}
	if _, found, _ := st.Load(ctx, DefaultKey); found {
		t.Error("NullStore found a snapshot")
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		backend string
		wantErr bool
	}{
		{"", false},
		{"file", false},
		{"memory", false},
		{"none", false},
		{"sqlite", true},
	}
	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			st, err := Open(ctx, Config{Backend: tt.backend, Dir: t.TempDir()})
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open(%q) error = %v", tt.backend, err)
			}
			if st != nil {
				st.Close()
			}
		})
	}
	if got := (Config{}).StoreKey(); got != DefaultKey {
		t.Errorf("StoreKey() = %q", got)
	}
}
