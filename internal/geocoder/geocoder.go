package geocoder

import "strings"

// Geocoder resolves a country name to representative coordinates for the
// world-map view. The table is static; this is a display aid, not a real
// geocoding service.
type Geocoder struct {
	coords map[string][2]float64
}

// New creates a geocoder with the built-in country table
func New() *Geocoder {
	return &Geocoder{
		coords: map[string][2]float64{
			"uk":        {51.5074, -0.1278},
			"usa":       {37.0902, -95.7129},
			"china":     {35.8617, 104.1954},
			"india":     {20.5937, 78.9629},
			"russia":    {61.5240, 105.3188},
			"brazil":    {-14.2350, -51.9253},
			"australia": {-25.2744, 133.7751},
			"germany":   {51.1657, 10.4515},
			"france":    {46.2276, 2.2137},
			"japan":     {36.2048, 138.2529},
		},
	}
}

// Lookup returns the coordinates for a country, matching case-insensitively.
// Unknown countries return ok=false and are skipped by the caller.
func (g *Geocoder) Lookup(country string) (lat, lng float64, ok bool) {
	c, found := g.coords[strings.ToLower(strings.TrimSpace(country))]
	if !found {
		return 0, 0, false
	}
	return c[0], c[1], true
}
