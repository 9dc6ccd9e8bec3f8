package exchange

import "arbscout/internal/model"

// Default venue lists quoted when a caller does not name venues.
var (
	DefaultDexVenues = []string{"Uniswap V3", "PancakeSwap V3", "SushiSwap", "Curve"}
	DefaultCexVenues = []string{"Binance", "Coinbase", "Kraken", "OKX"}
)

// NoiseProfile bounds the synthetic variation of a venue class.
type NoiseProfile struct {
	// MaxDeviation is the half-width of the uniform price noise, as a fraction.
	MaxDeviation float64
	VolumeFloor  float64
	VolumeSpan   float64
}

// ProfileFor returns the noise profile of class.
func ProfileFor(class model.VenueClass) NoiseProfile {
	if class == model.VenueCentralized {
		return NoiseProfile{MaxDeviation: 0.0075, VolumeFloor: 5_000_000, VolumeSpan: 50_000_000}
	}
	return NoiseProfile{MaxDeviation: 0.01, VolumeFloor: 1_000_000, VolumeSpan: 10_000_000}
}

// Venues knows the class of every configured venue.
type Venues struct {
	dex     []string
	cex     []string
	classes map[string]model.VenueClass
}

// NewVenues builds a registry. Empty lists fall back to the defaults.
func NewVenues(dex, cex []string) *Venues {
	if len(dex) == 0 {
		dex = DefaultDexVenues
	}
	if len(cex) == 0 {
		cex = DefaultCexVenues
	}
	v := &Venues{
		dex:     append([]string(nil), dex...),
		cex:     append([]string(nil), cex...),
		classes: make(map[string]model.VenueClass, len(dex)+len(cex)),
	}
	for _, name := range v.dex {
		v.classes[name] = model.VenueOnChain
	}
	for _, name := range v.cex {
		v.classes[name] = model.VenueCentralized
	}
	return v
}

// Defaults returns the configured venue list for class.
func (v *Venues) Defaults(class model.VenueClass) []string {
	if class == model.VenueCentralized {
		return append([]string(nil), v.cex...)
	}
	return append([]string(nil), v.dex...)
}

// ClassOf returns the class of a known venue.
func (v *Venues) ClassOf(name string) (model.VenueClass, bool) {
	c, ok := v.classes[name]
	return c, ok
}
