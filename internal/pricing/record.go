// Package pricing defines the normalized price record schema shared by all
// vendor extractors, along with the price-string parsers that feed it.
package pricing

// Commodity identifies which price table an extractor should produce.
type Commodity string

const (
	Gold   Commodity = "gold"
	Silver Commodity = "silver"
)

// Record is the vendor-independent shape a parsed table row normalizes to.
// Buy and Sell are nil when the source cell was missing or unparsable; a
// missing price is never encoded as zero.
type Record struct {
	Product  string `json:"product"`
	Category string `json:"category,omitempty"`
	Purity   string `json:"purity,omitempty"`
	Unit     string `json:"unit,omitempty"`
	Buy      *Price `json:"buy_price,omitempty"`
	Sell     *Price `json:"sell_price,omitempty"`
}

// Priced reports whether the record satisfies the emission invariant:
// a non-empty product and at least one parsed price.
func (r Record) Priced() bool {
	return r.Product != "" && (r.Buy != nil || r.Sell != nil)
}
