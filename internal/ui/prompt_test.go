package ui

import (
	"strings"
	"testing"

	"pet-health-console/internal/records"
	"pet-health-console/internal/state"
)

func TestPromptFor_DestructiveVsStateChange(t *testing.T) {
	cases := []struct {
		name        string
		action      state.Action
		destructive bool
		askWeight   bool
		contains    string
	}{
		{
			name:        "delete pet warns about cascade",
			action:      state.DeletePet{Pet: records.Pet{Name: "Milo"}},
			destructive: true,
			contains:    "Milo",
		},
		{
			name:     "complete vaccine is not destructive",
			action:   state.CompleteVaccine{Vaccine: records.Vaccine{Name: "rabies"}},
			contains: "rabies",
		},
		{
			name:      "complete medication offers weight input",
			action:    state.CompleteMedication{Medication: records.Medication{Name: "antibiotic"}},
			askWeight: true,
			contains:  "antibiotic",
		},
		{
			name:      "complete deworming offers weight input",
			action:    state.CompleteDeworming{Deworming: records.Deworming{Product: "drontal"}},
			askWeight: true,
			contains:  "drontal",
		},
		{
			name:        "delete file names file and document",
			action:      state.DeleteDocumentFile{Document: records.Document{DocumentName: "card"}, File: records.DocumentFile{DisplayName: "Front"}},
			destructive: true,
			contains:    "Front",
		},
		{
			name:     "logout is a plain confirmation",
			action:   state.Logout{},
			contains: "session",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := promptFor(tc.action)
			if p.destructive != tc.destructive {
				t.Fatalf("destructive = %v, want %v", p.destructive, tc.destructive)
			}
			if p.askWeight != tc.askWeight {
				t.Fatalf("askWeight = %v, want %v", p.askWeight, tc.askWeight)
			}
			if !strings.Contains(p.message, tc.contains) {
				t.Fatalf("message %q does not mention %q", p.message, tc.contains)
			}
			if p.title == "" || p.confirmLabel == "" {
				t.Fatalf("incomplete prompt: %+v", p)
			}
		})
	}
}

func TestParseKg(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"12.5", 12.5},
		{"12,5", 12.5}, // coma decimal
		{" 3 ", 3},
		{"", 0},
		{"abc", 0},
		{"-4", 0},
	}
	for _, tc := range cases {
		if got := parseKg(tc.in); got != tc.want {
			t.Errorf("parseKg(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
