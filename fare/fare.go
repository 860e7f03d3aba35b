// Package fare turns a price feed snapshot into per-mode display options.
package fare

import (
	"math"

	"github.com/poolkaro/poolkaro-backend/pricefeed"
	"github.com/poolkaro/poolkaro-backend/ride"
)

// Option is one row of the mode comparison shown before a rider picks a
// vehicle: both provider quotes, the cheaper one, and what a full ride would
// cost per seat.
type Option struct {
	Mode         string  `json:"mode"`
	RapidoPrice  int     `json:"rapido"`
	UberPrice    int     `json:"uber"`
	BestPrice    int     `json:"best"`
	PerSeatPrice float64 `json:"perPerson"`
	SeatCount    int     `json:"seats"`
	ChatEnabled  bool    `json:"chat"`
}

// Estimate builds one option per known mode, in display order. Pure and
// deterministic: identical snapshots yield identical options.
func Estimate(prices pricefeed.Snapshot) []Option {
	options := make([]Option, 0, len(ride.Modes))
	for _, mode := range ride.Modes {
		rapido := prices.Price(pricefeed.ProviderRapido, mode)
		uber := prices.Price(pricefeed.ProviderUber, mode)
		seats := ride.SeatsFor(mode)

		options = append(options, Option{
			Mode:         mode,
			RapidoPrice:  rapido,
			UberPrice:    uber,
			BestPrice:    bestPrice(rapido, uber),
			PerSeatPrice: round2(float64(bestPrice(rapido, uber)) / float64(seats)),
			SeatCount:    seats,
			ChatEnabled:  ride.ChatEnabled(mode),
		})
	}
	return options
}

// bestPrice picks the lower of two quotes, ignoring providers with no quote.
// A zero price means the provider had nothing for that mode.
func bestPrice(a, b int) int {
	if a != 0 && b != 0 {
		if a < b {
			return a
		}
		return b
	}
	if a != 0 {
		return a
	}
	return b
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
