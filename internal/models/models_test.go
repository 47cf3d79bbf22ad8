package models

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestFieldIDsUniqueAndOrdered(t *testing.T) {
	ids := FieldIDs()
	seen := map[string]bool{}
	for _, id := range ids {
		if seen[id] {
			t.Errorf("duplicate field id %q", id)
		}
		seen[id] = true
	}
	if ids[0] != FieldLocationName {
		t.Errorf("first field = %q, want %q", ids[0], FieldLocationName)
	}
	if ids[len(ids)-1] != FieldAchievements {
		t.Errorf("last field = %q, want %q", ids[len(ids)-1], FieldAchievements)
	}
	if len(ids) != 14 {
		t.Errorf("got %d fields, want 14", len(ids))
	}
}

func TestValidateField(t *testing.T) {
	if err := ValidateField(FieldStory); err != nil {
		t.Errorf("ValidateField(%q) = %v", FieldStory, err)
	}
	if err := ValidateField("nope"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("ValidateField(nope) = %v, want ErrUnknownField", err)
	}
}

// testStore runs the Store contract against s.
func testStore(t *testing.T, s Store) {
	t.Helper()

	if v, err := s.Read(FieldLocationName); err != nil || v != "" {
		t.Fatalf("Read on empty store = %q, %v", v, err)
	}
	if err := s.Write(FieldLocationName, "Route 1"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := s.Write(FieldEncounters, "Land\n45,Pidgey,2,4"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := s.Write(FieldLocationName, "Route 2"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	fields, err := LoadFields(s)
	if err != nil {
		t.Fatalf("LoadFields: %v", err)
	}
	if got := fields.Get(FieldLocationName); got != "Route 2" {
		t.Errorf("location = %q, want %q", got, "Route 2")
	}
	if got := fields.Get(FieldEncounters); got != "Land\n45,Pidgey,2,4" {
		t.Errorf("encounters = %q", got)
	}
	if len(fields) != len(FieldIDs()) {
		t.Errorf("LoadFields returned %d fields, want %d", len(fields), len(FieldIDs()))
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if v, _ := s.Read(FieldLocationName); v != "" {
		t.Errorf("after Clear location = %q, want empty", v)
	}
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore(nil))
}

func TestMemoryStoreCopiesSeed(t *testing.T) {
	seed := Fields{FieldQuest: "Find the hat"}
	s := NewMemoryStore(seed)
	_ = s.Write(FieldQuest, "changed")
	if seed[FieldQuest] != "Find the hat" {
		t.Error("MemoryStore modified its seed map")
	}
}

func TestYAMLStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "fields.yaml")
	s, err := OpenYAMLStore(path)
	if err != nil {
		t.Fatalf("OpenYAMLStore: %v", err)
	}
	testStore(t, s)
}

func TestYAMLStoreWriteThrough(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fields.yaml")
	s, err := OpenYAMLStore(path)
	if err != nil {
		t.Fatalf("OpenYAMLStore: %v", err)
	}
	if err := s.Write(FieldItems, "Potion | Heals 20 HP"); err != nil {
		t.Fatalf("Write: %v", err)
	}

	reopened, err := OpenYAMLStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if v, _ := reopened.Read(FieldItems); v != "Potion | Heals 20 HP" {
		t.Errorf("reopened value = %q", v)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		t.Fatalf("snapshot is not a YAML mapping: %v", err)
	}
	if raw[FieldItems] != "Potion | Heals 20 HP" {
		t.Errorf("snapshot %s = %q", FieldItems, raw[FieldItems])
	}
}

func TestYAMLStoreRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fields.yaml")
	if err := os.WriteFile(path, []byte("- not\n- a mapping\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := OpenYAMLStore(path); err == nil {
		t.Error("OpenYAMLStore accepted a YAML list")
	}
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "fields.db"))
	if err != nil {
		t.Fatalf("OpenSQLiteStore: %v", err)
	}
	defer s.Close()
	testStore(t, s)
}

func TestSQLiteStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fields.db")
	s, err := OpenSQLiteStore(path)
	if err != nil {
		t.Fatalf("OpenSQLiteStore: %v", err)
	}
	if err := s.Write(FieldStory, "[x, Blue, 1]"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	s.Close()

	s, err = OpenSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	if v, _ := s.Read(FieldStory); v != "[x, Blue, 1]" {
		t.Errorf("reopened value = %q", v)
	}
}
