package section

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/handiism/f1rdf/internal/model"
)

func TestDefault_Catalog(t *testing.T) {
	reg := Default()

	if reg.Len() != 14 {
		t.Fatalf("Len() = %d, want 14", reg.Len())
	}

	d, ok := reg.Get(CircuitInfo)
	if !ok {
		t.Fatal("circuit_info missing from default registry")
	}
	if d.Shape != model.Structured {
		t.Errorf("circuit_info shape = %v, want structured", d.Shape)
	}

	for _, d := range reg.All() {
		if d.ID != CircuitInfo && d.Shape != model.Tabular {
			t.Errorf("%s shape = %v, want tabular", d.ID, d.Shape)
		}
		if d.Label == "" {
			t.Errorf("%s has no label", d.ID)
		}
	}

	if got := reg.IDs()[0]; got != RaceResults {
		t.Errorf("first id = %q, want %q", got, RaceResults)
	}
}

func TestNew_RejectsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		descs []Descriptor
	}{
		{"empty id", []Descriptor{{ID: "", Label: "x"}}},
		{"duplicate id", []Descriptor{{ID: "a"}, {ID: "a"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.descs...); err == nil {
				t.Error("expected error but got none")
			}
		})
	}
}

func TestRegistry_Ordered(t *testing.T) {
	reg := Default()

	known, unknown := reg.Ordered([]string{SprintResults, "bogus", RaceResults, CircuitInfo})

	if diff := cmp.Diff([]string{RaceResults, CircuitInfo, SprintResults}, known); diff != "" {
		t.Errorf("known mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"bogus"}, unknown); diff != "" {
		t.Errorf("unknown mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry_AllIsACopy(t *testing.T) {
	reg := Default()
	all := reg.All()
	all[0].Label = "changed"

	if d, _ := reg.Get(all[0].ID); d.Label == "changed" {
		t.Error("mutating All() result changed the registry")
	}
}

func TestRegistry_ParseList(t *testing.T) {
	reg := Default()

	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{" , ", nil},
		{"lap_times, race_results", []string{"lap_times", "race_results"}},
		{"race_results,bogus", []string{"race_results", "bogus"}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, reg.ParseList(tt.in)); diff != "" {
			t.Errorf("ParseList(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}

	if got := reg.ParseList("ALL"); len(got) != reg.Len() {
		t.Errorf("ParseList(ALL) returned %d ids, want %d", len(got), reg.Len())
	}
}
