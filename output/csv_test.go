package output

import (
	"bytes"
	"testing"
)

func TestCSVFormatter(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		rows    []map[string]interface{}
		want    string
	}{
		{
			name:    "header follows column order",
			columns: []string{"Id", "City"},
			rows: []map[string]interface{}{
				{"Id": int64(1), "City": "Porto"},
				{"Id": int64(2), "City": "Braga"},
			},
			want: "Id,City\n1,Porto\n2,Braga\n",
		},
		{
			name:    "empty table writes header only",
			columns: []string{"a", "b"},
			rows:    nil,
			want:    "a,b\n",
		},
		{
			name:    "no columns writes nothing",
			columns: nil,
			rows:    nil,
			want:    "",
		},
		{
			name:    "embedded comma is quoted",
			columns: []string{"City"},
			rows: []map[string]interface{}{
				{"City": "Porto, Portugal"},
			},
			want: "City\n\"Porto, Portugal\"\n",
		},
		{
			name:    "embedded quote is doubled",
			columns: []string{"Note"},
			rows: []map[string]interface{}{
				{"Note": `said "hello"`},
			},
			want: "Note\n\"said \"\"hello\"\"\"\n",
		},
		{
			name:    "missing cell becomes empty field",
			columns: []string{"a", "b"},
			rows: []map[string]interface{}{
				{"a": int64(1)},
			},
			want: "a,b\n1,\n",
		},
		{
			name:    "numeric formatting",
			columns: []string{"i", "f"},
			rows: []map[string]interface{}{
				{"i": int64(42), "f": 22.5},
				{"i": int64(-3), "f": 19.0},
			},
			want: "i,f\n42,22.5\n-3,19\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			f := NewCSVFormatter(&buf)
			if err := f.Format(tt.columns, tt.rows); err != nil {
				t.Fatalf("Format() error = %v", err)
			}
			if got := buf.String(); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  string
	}{
		{"nil", nil, ""},
		{"string", "Porto", "Porto"},
		{"int64", int64(42), "42"},
		{"negative int64", int64(-3), "-3"},
		{"float64", 22.5, "22.5"},
		{"float64 whole", 19.0, "19"},
		{"bool", true, "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatValue(tt.value); got != tt.want {
				t.Errorf("formatValue(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}
