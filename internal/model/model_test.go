package model

import "testing"

func TestTableNames(t *testing.T) {
	tests := []struct {
		model interface{ TableName() string }
		want  string
	}{
		{&LayoutInfo{}, "layout_infos"},
		{&Station{}, "stations"},
		{&Line{}, "lines"},
	}
	for _, tt := range tests {
		if got := tt.model.TableName(); got != tt.want {
			t.Errorf("TableName = %q, want %q", got, tt.want)
		}
	}
}

func TestDatabaseModels_CoversAllTables(t *testing.T) {
	if len(DatabaseModels) != 3 {
		t.Errorf("DatabaseModels has %d entries, want 3", len(DatabaseModels))
	}
}
