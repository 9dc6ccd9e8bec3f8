package exchange

import (
	"context"
	"log/slog"
	"time"

	"arbscout/internal/cache"
	"arbscout/internal/model"
	"arbscout/internal/random"
)

// PriceSource synthesizes per-venue quotes around a resolved reference price
// and records every quote in the price cache.
type PriceSource struct {
	logger   *slog.Logger
	resolver *Resolver
	venues   *Venues
	cache    *cache.PriceCache
	rnd      random.Source
	now      func() time.Time
}

// NewPriceSource creates a PriceSource writing into c.
func NewPriceSource(logger *slog.Logger, resolver *Resolver, venues *Venues, c *cache.PriceCache, rnd random.Source) *PriceSource {
	if rnd == nil {
		rnd = random.Default()
	}
	return &PriceSource{
		logger:   logger,
		resolver: resolver,
		venues:   venues,
		cache:    c,
		rnd:      rnd,
		now:      time.Now,
	}
}

// Venues returns the registry the source quotes against.
func (s *PriceSource) Venues() *Venues {
	return s.venues
}

// FetchQuotes returns len(venues)*len(symbols) quotes of the given class.
// Empty venues means the configured defaults for class.
func (s *PriceSource) FetchQuotes(ctx context.Context, symbols, venues []string, class model.VenueClass) []model.PriceQuote {
	if len(venues) == 0 {
		venues = s.venues.Defaults(class)
	}
	refs := s.resolver.Resolve(ctx, symbols)
	profile := ProfileFor(class)
	observedAt := s.now()

	quotes := make([]model.PriceQuote, 0, len(venues)*len(symbols))
	for _, venue := range venues {
		for _, symbol := range symbols {
			symbol = model.NormalizeSymbol(symbol)
			q := model.PriceQuote{
				Exchange:   venue,
				Symbol:     symbol,
				Price:      s.perturb(refs[symbol], profile),
				Volume24h:  random.Uniform(s.rnd, profile.VolumeFloor, profile.VolumeFloor+profile.VolumeSpan),
				ObservedAt: observedAt,
				VenueClass: class,
			}
			s.cache.Put(q)
			quotes = append(quotes, q)
		}
	}
	s.logger.Debug("PriceSource: quotes synthesized", "class", class, "count", len(quotes))
	return quotes
}

func (s *PriceSource) perturb(ref float64, profile NoiseProfile) float64 {
	deviation := random.Uniform(s.rnd, -profile.MaxDeviation, profile.MaxDeviation)
	raw := ref * (1 + deviation)
	if p := model.RoundUSD(raw); p > 0 {
		return p
	}
	// Sub-cent assets keep more precision so the price stays positive.
	return model.RoundTo(raw, 8)
}
