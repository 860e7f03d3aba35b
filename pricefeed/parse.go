package pricefeed

import (
	"regexp"
	"strconv"
	"strings"
)

// Feed lines look like "Bike = ₹46" or "Auto Economy = 85". The rupee sign is
// optional because the OCR pass frequently drops it.
var entryPattern = regexp.MustCompile(`(?i)(bike|auto|cab)\s*(?:economy)?\s*=\s*₹?(\d+)`)

var modeNames = map[string]string{
	"bike": "Bike",
	"auto": "Auto",
	"cab":  "Cab",
}

// ParseText reads the scraper's text format: a provider header line
// ("rapido" or "uber", in any casing, anywhere on the line) followed by
// mode/price entry lines. Lines before the first header and lines that match
// nothing are ignored. Quotes pass through the misread-digit correction
// since the file is OCR output.
func ParseText(raw string) Snapshot {
	prices := Snapshot{
		ProviderRapido: {"Bike": 0, "Auto": 0, "Cab": 0},
		ProviderUber:   {"Bike": 0, "Auto": 0, "Cab": 0},
	}

	provider := ""
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)

		lower := strings.ToLower(line)
		if strings.Contains(lower, ProviderRapido) {
			provider = ProviderRapido
			continue
		}
		if strings.Contains(lower, ProviderUber) {
			provider = ProviderUber
			continue
		}
		if provider == "" || line == "" {
			continue
		}

		m := entryPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		mode, ok := modeNames[strings.ToLower(m[1])]
		if !ok {
			continue
		}
		price, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		prices[provider][mode] = CorrectPrice(mode, price)
	}
	return prices
}
