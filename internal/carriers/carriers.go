// Package carriers holds the configured shipping rate table. Rates are
// injected configuration, not constants: the built-in table is only a default
// that a JSON file can replace without a redeploy.
package carriers

import (
	"encoding/json"
	"fmt"
	"os"

	"storefront-orders/internal/domain"
)

// Rate is one configured shipping option.
type Rate struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Service        string `json:"service"`
	PriceCents     int64  `json:"priceCents"`
	EstimatedDays  int    `json:"estimatedDays"`
	TrackingPrefix string `json:"trackingPrefix"`
}

// Table is an ordered carrier rate table with lookup by rate id.
type Table struct {
	rates []Rate
	byID  map[string]Rate
}

// Postal-style brands get a short numeric prefix, parcel brands a two-char
// alpha prefix. Unmapped brands ship with no prefix.
var brandPrefixes = map[string]string{
	"USPS":  "94",
	"UPS":   "1Z",
	"DHL":   "JD",
	"FedEx": "",
}

func defaultRates() []Rate {
	return []Rate{
		{ID: "usps-priority", Name: "USPS", Service: "Priority Mail", PriceCents: 1000, EstimatedDays: 3},
		{ID: "ups-ground", Name: "UPS", Service: "Ground", PriceCents: 1250, EstimatedDays: 5},
		{ID: "ups-2day", Name: "UPS", Service: "2nd Day Air", PriceCents: 2400, EstimatedDays: 2},
		{ID: "fedex-express", Name: "FedEx", Service: "Express Saver", PriceCents: 1800, EstimatedDays: 3},
		{ID: "dhl-express", Name: "DHL", Service: "Express Worldwide", PriceCents: 3200, EstimatedDays: 4},
	}
}

// Default returns the built-in rate table.
func Default() *Table {
	return build(defaultRates())
}

// Load reads a rate table from a JSON file. An empty path falls back to the
// built-in defaults.
func Load(path string) (*Table, error) {
	if path == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read carrier rates: %w", err)
	}
	var rates []Rate
	if err := json.Unmarshal(raw, &rates); err != nil {
		return nil, fmt.Errorf("parse carrier rates: %w", err)
	}
	if len(rates) == 0 {
		return nil, fmt.Errorf("carrier rates file %s is empty", path)
	}
	for i, r := range rates {
		if r.ID == "" || r.Name == "" {
			return nil, fmt.Errorf("carrier rate %d: id and name are required", i)
		}
		if r.EstimatedDays <= 0 {
			return nil, fmt.Errorf("carrier rate %q: estimatedDays must be positive", r.ID)
		}
	}
	return build(rates), nil
}

func build(rates []Rate) *Table {
	byID := make(map[string]Rate, len(rates))
	for i, r := range rates {
		if r.TrackingPrefix == "" {
			r.TrackingPrefix = brandPrefixes[r.Name]
			rates[i] = r
		}
		byID[r.ID] = r
	}
	return &Table{rates: rates, byID: byID}
}

// All returns the configured rates in order.
func (t *Table) All() []Rate {
	return t.rates
}

// Get looks a rate up by id.
func (t *Table) Get(id string) (Rate, error) {
	r, ok := t.byID[id]
	if !ok {
		return Rate{}, fmt.Errorf("carrier rate %q: %w", id, domain.ErrNotFound)
	}
	return r, nil
}
