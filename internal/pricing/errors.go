package pricing

import "errors"

// Errors surfaced by the extraction stage. ErrStructureNotFound and
// ErrEmptyResult abort the run; ErrPriceFormat only marks a single price
// cell as absent.
var (
	ErrStructureNotFound = errors.New("price table structure not found")
	ErrEmptyResult       = errors.New("no price rows extracted")
	ErrPriceFormat       = errors.New("price cell contains no digits")
)
