package sqlitedb

import (
	"errors"
	"slices"
	"testing"
	"time"
)

func TestRowFromMap(t *testing.T) {
	row := RowFromMap(map[string]any{"name": "Ann", "age": 30, "ID": 5, "city": "Oslo"})

	if got, want := row.Columns(), []string{"ID", "age", "city", "name"}; !slices.Equal(got, want) {
		t.Errorf("Columns() = %v, want %v", got, want)
	}
	if id, ok := row.ID(); !ok || id != 5 {
		t.Errorf("ID() = %d, %v; want 5, true", id, ok)
	}
}

func TestRow_Accessors(t *testing.T) {
	row := Row{{"name", "Ann"}, {"age", 30}}

	if v, ok := row.Get("NAME"); !ok || v != "Ann" {
		t.Errorf("Get(NAME) = %v, %v; want Ann, true", v, ok)
	}
	if _, ok := row.Get("email"); ok {
		t.Error("Get(email) found a missing column")
	}

	updated := row.Set("Age", 31)
	if v, _ := updated.Get("age"); v != 31 {
		t.Errorf("Set() age = %v, want 31", v)
	}
	if v, _ := row.Get("age"); v != 30 {
		t.Errorf("Set() modified the receiver: age = %v", v)
	}
	if got, want := updated.Columns(), []string{"name", "age"}; !slices.Equal(got, want) {
		t.Errorf("Set() existing column moved: %v", got)
	}

	appended := row.Set("email", "ann@example.com")
	if got, want := appended.Columns(), []string{"name", "age", "email"}; !slices.Equal(got, want) {
		t.Errorf("Set() new column = %v, want %v", got, want)
	}

	trimmed := row.Without("NAME")
	if got, want := trimmed.Columns(), []string{"age"}; !slices.Equal(got, want) {
		t.Errorf("Without() = %v, want %v", got, want)
	}
	if len(row) != 2 {
		t.Errorf("Without() modified the receiver: %v", row)
	}

	m := row.Map()
	if len(m) != 2 || m["name"] != "Ann" || m["age"] != 30 {
		t.Errorf("Map() = %v", m)
	}
}

func TestRow_ID(t *testing.T) {
	tests := []struct {
		name   string
		row    Row
		want   int64
		wantOK bool
	}{
		{name: "int64", row: Row{{"id", int64(9)}}, want: 9, wantOK: true},
		{name: "int", row: Row{{"Id", 3}}, want: 3, wantOK: true},
		{name: "uint32", row: Row{{"id", uint32(4)}}, want: 4, wantOK: true},
		{name: "string", row: Row{{"id", "9"}}},
		{name: "missing", row: Row{{"name", "Ann"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.row.ID()
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ID() = %d, %v; want %d, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestRow_withoutEmptyID(t *testing.T) {
	tests := []struct {
		name     string
		row      Row
		wantKeep bool
	}{
		{name: "no id", row: Row{{"name", "Ann"}}},
		{name: "nil", row: Row{{"id", nil}, {"name", "Ann"}}},
		{name: "empty string", row: Row{{"id", ""}, {"name", "Ann"}}},
		{name: "zero int", row: Row{{"id", 0}, {"name", "Ann"}}},
		{name: "zero uint8", row: Row{{"ID", uint8(0)}, {"name", "Ann"}}},
		{name: "positive", row: Row{{"id", 12}, {"name", "Ann"}}, wantKeep: true},
		{name: "non-empty string", row: Row{{"id", "12"}, {"name", "Ann"}}, wantKeep: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.row.withoutEmptyID()
			_, kept := got.Get(IDColumn)
			if kept != tt.wantKeep {
				t.Errorf("withoutEmptyID() = %v, id kept = %v, want %v", got, kept, tt.wantKeep)
			}
			if _, ok := got.Get("name"); !ok {
				t.Errorf("withoutEmptyID() dropped other columns: %v", got)
			}
		})
	}
}

func TestRow_validate(t *testing.T) {
	if err := (Row{{"name", 1}, {"age", 2}}).validate(); err != nil {
		t.Errorf("validate() error = %v, want nil", err)
	}
	if err := (Row{{"name", 1}, {"Name", 2}}).validate(); !errors.Is(err, ErrDuplicateColumn) {
		t.Errorf("validate() error = %v, want ErrDuplicateColumn", err)
	}
	if err := (Row{{"na me", 1}}).validate(); !errors.Is(err, ErrInvalidIdentifier) {
		t.Errorf("validate() error = %v, want ErrInvalidIdentifier", err)
	}
}

func TestInferType(t *testing.T) {
	tests := []struct {
		value any
		want  string
	}{
		{value: "s", want: "TEXT"},
		{value: time.Now(), want: "TEXT"},
		{value: 1, want: "INTEGER"},
		{value: int64(1), want: "INTEGER"},
		{value: true, want: "INTEGER"},
		{value: 1.5, want: "REAL"},
		{value: float32(1.5), want: "REAL"},
		{value: []byte("x"), want: "BLOB"},
		{value: nil, want: ""},
		{value: struct{}{}, want: ""},
	}

	for _, tt := range tests {
		if got := inferType(tt.value); got != tt.want {
			t.Errorf("inferType(%T) = %q, want %q", tt.value, got, tt.want)
		}
	}
}
