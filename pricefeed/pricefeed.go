// Package pricefeed is the boundary to the provider price scrapers. Prices
// arrive as an untrusted mapping of provider to per-mode rupee amounts; every
// failure in this package degrades to a usable snapshot, never an error the
// caller has to handle.
package pricefeed

import "context"

const (
	ProviderRapido = "rapido"
	ProviderUber   = "uber"
)

// Snapshot maps provider -> mode -> price in whole rupees. Missing entries
// read as 0.
type Snapshot map[string]map[string]int

// Price looks up a quote, defaulting to 0 for unknown providers or modes.
func (s Snapshot) Price(provider, mode string) int {
	return s[provider][mode]
}

// Defaults is the snapshot served when no feed data is available, matching
// the scraper's fallback quotes.
func Defaults() Snapshot {
	return Snapshot{
		ProviderRapido: {"Bike": 50, "Auto": 90, "Cab": 110},
		ProviderUber:   {"Bike": 55, "Auto": 95, "Cab": 130},
	}
}

// Source supplies the current snapshot. Sources never fail: a broken feed
// yields defaults or zeroes.
type Source interface {
	Prices(ctx context.Context) Snapshot
}

// Fixed is a Source that always returns the same snapshot.
type Fixed Snapshot

func (f Fixed) Prices(ctx context.Context) Snapshot {
	return Snapshot(f)
}
