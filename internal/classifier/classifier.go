package classifier

import "strings"

// Classifier assigns a numeric severity to a climate issue description when
// the reporter did not provide one. Keyword scoring only.
type Classifier struct{}

// New creates a new classifier
func New() *Classifier { return &Classifier{} }

// Severity returns a severity between 1 (default) and 3
func (c *Classifier) Severity(description string) int {
	text := strings.ToLower(description)

	if containsAny(text, []string{
		"wildfire", "hurricane", "famine", "flood", "drought",
		"heatwave", "cyclone", "extinction",
	}) {
		return 3
	}
	if containsAny(text, []string{
		"deforestation", "pollution", "emission", "sea level",
		"melting", "erosion",
	}) {
		return 2
	}
	return 1
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
