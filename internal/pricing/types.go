// Package pricing defines the core types shared across the notifier pipeline.
package pricing

// Item is one priced product row extracted from the source page.
// Buy and Sell are nil when the source shows a placeholder instead of a price.
// Items are immutable once extracted.
type Item struct {
	Name string
	Unit string
	Buy  *int
	Sell *int
}

// Outcome captures everything a single detection run produced.
type Outcome struct {
	RunID string
	// Changed is true when the current fingerprint differs from the
	// previously committed one. All side effects are gated on it.
	Changed bool
	Items   []Item
	// Canonical is the deterministic snapshot text for Items.
	Canonical           string
	CurrentFingerprint  string
	PreviousFingerprint string
}

// IntPtr is a convenience for building optional prices.
func IntPtr(v int) *int {
	return &v
}
