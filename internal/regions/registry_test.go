package regions

import (
	"os"
	"path/filepath"
	"testing"
)

func testCatalog(t *testing.T) *Registry {
	t.Helper()
	reg, err := New([]Region{
		{Code: "belgrade", Name: "Belgrade", Latitude: 44.7866, Longitude: 20.4489},
		{Code: "novi-sad", Name: "Novi Sad", Latitude: 45.2671, Longitude: 19.8335},
		{Code: "nis", Name: "Nis", Latitude: 43.3209, Longitude: 21.8958},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return reg
}

func TestNew_RejectsEmptyCatalog(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatal("New(nil) err = nil; want error")
	}
}

func TestNew_RejectsDuplicateCode(t *testing.T) {
	_, err := New([]Region{
		{Code: "belgrade", Name: "Belgrade"},
		{Code: "belgrade", Name: "Belgrade Again"},
	})
	if err == nil {
		t.Fatal("New with duplicate code: err = nil; want error")
	}
}

func TestAll_PreservesConfigurationOrder(t *testing.T) {
	reg := testCatalog(t)

	all := reg.All()
	want := []string{"belgrade", "novi-sad", "nis"}
	if len(all) != len(want) {
		t.Fatalf("All() returned %d regions; want %d", len(all), len(want))
	}
	for i, code := range want {
		if all[i].Code != code {
			t.Errorf("All()[%d].Code = %q; want %q", i, all[i].Code, code)
		}
	}
}

func TestGet(t *testing.T) {
	reg := testCatalog(t)

	r, ok := reg.Get("novi-sad")
	if !ok {
		t.Fatal("Get(novi-sad) ok = false; want true")
	}
	if r.Name != "Novi Sad" {
		t.Errorf("Name = %q; want Novi Sad", r.Name)
	}

	if _, ok := reg.Get("atlantis"); ok {
		t.Error("Get(atlantis) ok = true; want false")
	}
}

func TestValidate(t *testing.T) {
	reg := testCatalog(t)

	valid, unknown := reg.Validate([]string{"belgrade", "atlantis", "nis", "belgrade"})
	if len(valid) != 2 || valid[0] != "belgrade" || valid[1] != "nis" {
		t.Errorf("valid = %v; want [belgrade nis]", valid)
	}
	if len(unknown) != 1 || unknown[0] != "atlantis" {
		t.Errorf("unknown = %v; want [atlantis]", unknown)
	}
}

func TestColorForIndex(t *testing.T) {
	cases := []struct {
		index int
		want  string
	}{
		{0, "hsl(0.0, 70%, 60%)"},
		{1, "hsl(137.5, 70%, 60%)"},
		{2, "hsl(275.0, 70%, 60%)"},
		{3, "hsl(52.5, 70%, 60%)"},
	}
	for _, tc := range cases {
		if got := ColorForIndex(tc.index); got != tc.want {
			t.Errorf("ColorForIndex(%d) = %q; want %q", tc.index, got, tc.want)
		}
	}
}

func TestColor_StableAcrossSelections(t *testing.T) {
	reg := testCatalog(t)

	// nis is the third catalog entry; its color never depends on what else
	// a client selected.
	if got, want := reg.Color("nis"), ColorForIndex(2); got != want {
		t.Errorf("Color(nis) = %q; want %q", got, want)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regions.yaml")
	content := []byte(`regions:
  - code: belgrade
    name: Belgrade
    latitude: 44.7866
    longitude: 20.4489
  - code: zagreb
    name: Zagreb
    latitude: 45.815
    longitude: 15.9819
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	reg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if reg.Len() != 2 {
		t.Fatalf("Len() = %d; want 2", reg.Len())
	}
	if i, _ := reg.Index("zagreb"); i != 1 {
		t.Errorf("Index(zagreb) = %d; want 1", i)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Load of missing file: err = nil; want error")
	}
}
