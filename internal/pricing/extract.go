package pricing

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// DefaultContainerSelector locates the price table on the source page.
const DefaultContainerSelector = "#priceListContainer"

// Extractor parses the price table out of raw page markup.
type Extractor struct {
	containerSelector string
	logger            *zap.Logger
}

// NewExtractor builds an Extractor. An empty selector falls back to the
// default container.
func NewExtractor(containerSelector string, logger *zap.Logger) *Extractor {
	if containerSelector == "" {
		containerSelector = DefaultContainerSelector
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{containerSelector: containerSelector, logger: logger}
}

// Extract locates the price table and returns its qualifying rows in
// document order. It returns ErrStructureNotFound when the container or
// its table is missing and ErrEmptyResult when no usable rows remain.
func (e *Extractor) Extract(markup string) ([]Item, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse markup: %w", err)
	}

	container := doc.Find(e.containerSelector).First()
	if container.Length() == 0 {
		return nil, fmt.Errorf("%w: container %q missing", ErrStructureNotFound, e.containerSelector)
	}
	table := container.Find("table").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("%w: no table inside %q", ErrStructureNotFound, e.containerSelector)
	}

	var items []Item
	table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() == 0 {
			return
		}
		// A single cell spanning all four columns is a group header.
		if cells.Length() == 1 && cells.First().AttrOr("colspan", "") == "4" {
			return
		}
		if cells.Length() < 4 {
			return
		}

		name := NormalizeText(cells.Eq(0).Text())
		unit := NormalizeText(cells.Eq(1).Text())
		buy := e.parseCell(name, "buy", cells.Eq(2).Text())
		sell := e.parseCell(name, "sell", cells.Eq(3).Text())

		if name == "" || (buy == nil && sell == nil) {
			return
		}
		items = append(items, Item{Name: name, Unit: unit, Buy: buy, Sell: sell})
	})

	if len(items) == 0 {
		return nil, ErrEmptyResult
	}
	return items, nil
}

// parseCell treats any unparseable cell as an absent price; the failure
// is logged, never swallowed.
func (e *Extractor) parseCell(name, side, raw string) *int {
	price, err := ParsePrice(raw)
	if err != nil {
		e.logger.Warn("unparseable price cell treated as absent",
			zap.String("item", name),
			zap.String("side", side),
			zap.String("raw", strings.TrimSpace(raw)),
			zap.Error(err),
		)
		return nil
	}
	return price
}

// NormalizeText collapses whitespace: non-breaking spaces become ordinary
// spaces, runs shrink to a single space, and the result is trimmed.
func NormalizeText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	return strings.Join(strings.Fields(s), " ")
}

// ParsePrice parses a formatted price such as "2,776,000". Empty cells
// and the "-" / "—" placeholders mean no price. A non-empty value with no
// digits at all returns (nil, ErrPriceFormat); the price is still absent.
func ParsePrice(raw string) (*int, error) {
	value := strings.TrimSpace(raw)
	switch value {
	case "", "-", "—":
		return nil, nil
	}
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, value)
	if digits == "" {
		return nil, fmt.Errorf("%w: %q", ErrPriceFormat, value)
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return nil, fmt.Errorf("parse price %q: %w", value, err)
	}
	return IntPtr(n), nil
}
