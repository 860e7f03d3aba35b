package pricefeed

import (
	"strconv"
	"strings"
)

// The OCR pass sometimes reads the rupee sign as a leading digit, turning
// ₹60 into 260 or ₹136 into 2136. A correction strips the misread leading
// digit when the amount is implausible for the vehicle class.
type correction struct {
	// services the rule applies to; nil means any service.
	services  map[string]bool
	threshold int
	// leading digits the rupee sign is misread as.
	leading string
}

var corrections = []correction{
	{
		services:  map[string]bool{"Bike": true, "Bike Saver": true, "Auto": true},
		threshold: 200,
		leading:   "27",
	},
	{
		threshold: 1000,
		leading:   "27",
	},
}

// CorrectPrice applies the misread-digit rule table to a scraped quote.
// The service name is the scraper's label ("Bike", "Bike Saver", "Auto",
// "Cab Economy", ...); quotes that trip no rule pass through unchanged.
func CorrectPrice(service string, price int) int {
	s := strconv.Itoa(price)
	for _, rule := range corrections {
		if rule.services != nil && !rule.services[service] {
			continue
		}
		if price > rule.threshold && strings.ContainsRune(rule.leading, rune(s[0])) {
			corrected, err := strconv.Atoi(s[1:])
			if err != nil {
				return price
			}
			return corrected
		}
	}
	return price
}
