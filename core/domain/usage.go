// ABOUTME: Token usage counters and pricing data for cost accounting
// ABOUTME: Cost is derived from running totals and a static pricing table

package domain

// UsageBucketDigest is the only usage bucket the pipeline writes to
const UsageBucketDigest = "digest"

// UsageCounters are running token totals for one bucket
type UsageCounters struct {
	Input  int64 `json:"input"`
	Output int64 `json:"output"`
	Calls  int64 `json:"calls"`
}

// PricingEntry is the per-million-token price of one model.
// It is configuration data, never fetched live.
type PricingEntry struct {
	Model            string  `json:"model"`
	InputPerMillion  float64 `json:"inputPerMillion"`
	OutputPerMillion float64 `json:"outputPerMillion"`
	EffectiveDate    string  `json:"effectiveDate"`
}

// DefaultPricing returns the built-in pricing table
func DefaultPricing() []PricingEntry {
	return []PricingEntry{
		{Model: "gpt-4o-mini", InputPerMillion: 0.15, OutputPerMillion: 0.60, EffectiveDate: "2024-07-18"},
		{Model: "gpt-4.1-mini", InputPerMillion: 0.40, OutputPerMillion: 1.60, EffectiveDate: "2025-04-14"},
		{Model: "gpt-4.1-nano", InputPerMillion: 0.10, OutputPerMillion: 0.40, EffectiveDate: "2025-04-14"},
	}
}

// FindPricing returns the entry for model, falling back to the first entry
func FindPricing(table []PricingEntry, model string) (PricingEntry, bool) {
	for _, entry := range table {
		if entry.Model == model {
			return entry, true
		}
	}
	if len(table) > 0 {
		return table[0], false
	}
	return PricingEntry{}, false
}

// Cost returns the accumulated cost of counters under price
func Cost(counters UsageCounters, price PricingEntry) float64 {
	return float64(counters.Input)*price.InputPerMillion/1e6 +
		float64(counters.Output)*price.OutputPerMillion/1e6
}
