package classifier

import "testing"

func TestSeverity(t *testing.T) {
	c := New()

	tests := []struct {
		name        string
		description string
		expected    int
	}{
		{"wildfire is severe", "Wildfire season getting longer every year", 3},
		{"flooding is severe", "Coastal flood risk in low-lying districts", 3},
		{"pollution is moderate", "Air pollution exceeding safe thresholds", 2},
		{"sea level is moderate", "Sea level rise of 3mm per year", 2},
		{"generic issue defaults to 1", "Unusually warm winter", 1},
		{"empty description defaults to 1", "", 1},
		{"case insensitive", "DROUGHT conditions persist", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Severity(tt.description); got != tt.expected {
				t.Errorf("Severity(%q) = %d, want %d", tt.description, got, tt.expected)
			}
		})
	}
}
