package httpmetrics

import "testing"

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "/"},
		{"/api/equipment", "/api/equipment"},
		{"/api/equipment/3f2c1a9e-5b7d-4c1e-9a0b-1234567890ab", "/api/equipment/{param}"},
		{"/api/equipment/3F2C1A9E-5B7D-4C1E-9A0B-1234567890AB/status", "/api/equipment/{param}/status"},
		{"/api/stats/category/Instruments", "/api/stats/category/{name}"},
		{"/api/items/42", "/api/items/{param}"},
	}

	for _, tt := range tests {
		if got := NormalizePath(tt.in); got != tt.want {
			t.Errorf("NormalizePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
