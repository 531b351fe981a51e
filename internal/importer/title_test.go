package importer

import "testing"

func TestPlainTitle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Bats of Europe", "Bats of Europe"},
		{"emphasis", "The *Handbook* of bats", "The Handbook of bats"},
		{"strong", "A __strong__ claim", "A strong claim"},
		{"code", "Using `grep` on genomes", "Using grep on genomes"},
		{"link", "See [the paper](https://example.org)", "See the paper"},
		{"multiline", "First line\nsecond line", "First line second line"},
		{"absent", "", DefaultTitle},
		{"blank", "   ", DefaultTitle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PlainTitle(tt.in); got != tt.want {
				t.Errorf("PlainTitle(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
