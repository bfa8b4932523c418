package db

import "testing"

func validDefinition() *IndexDefinition {
	return &IndexDefinition{
		Name:        "tasks-2026-08",
		StorageType: StorageJSON,
		Prefixes:    []string{"tasks-2026-08:"},
		Fields: []IndexField{
			{Path: "$.title", Alias: "title", Type: IndexFieldText, TextWeight: 3},
			{Path: "$.userId", Alias: "user_id", Type: IndexFieldTag},
			{Path: "$.createdAt", Alias: "created_at", Type: IndexFieldNumeric, Sortable: true},
		},
	}
}

func TestIndexDefinitionValidate(t *testing.T) {
	if err := validDefinition().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestIndexDefinitionValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*IndexDefinition)
	}{
		{"empty name", func(d *IndexDefinition) { d.Name = "" }},
		{"invalid name", func(d *IndexDefinition) { d.Name = "tasks index" }},
		{"no fields", func(d *IndexDefinition) { d.Fields = nil }},
		{"empty path", func(d *IndexDefinition) { d.Fields[0].Path = "" }},
		{"duplicate alias", func(d *IndexDefinition) { d.Fields[1].Alias = "title" }},
		{"weight on tag field", func(d *IndexDefinition) { d.Fields[1].TextWeight = 2 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			def := validDefinition()
			tc.mutate(def)
			if err := def.Validate(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestIsValidIdentifier(t *testing.T) {
	tests := []struct {
		s    string
		want bool
	}{
		{"tasks-2026-08", true},
		{"tasks:idx", true},
		{"under_score", true},
		{"", false},
		{"has space", false},
		{"semi;colon", false},
	}
	for _, tc := range tests {
		if got := IsValidIdentifier(tc.s); got != tc.want {
			t.Errorf("IsValidIdentifier(%q) = %v, want %v", tc.s, got, tc.want)
		}
	}
}
