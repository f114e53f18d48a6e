package pricing

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Canonical renders items as the deterministic snapshot text: one line
// per item, "name | unit | buy | sell" with empty strings for absent
// prices, sorted by the (name, unit) tuple ascending so source
// reordering never registers as a change.
func Canonical(items []Item) string {
	normalized := make([]Item, len(items))
	for i, it := range items {
		normalized[i] = Item{
			Name: NormalizeText(it.Name),
			Unit: NormalizeText(it.Unit),
			Buy:  it.Buy,
			Sell: it.Sell,
		}
	}
	// Sorting the tuple, not the rendered line: the field separator
	// compares above letters and digits, which would invert the order
	// of prefix-related names.
	sort.Slice(normalized, func(i, j int) bool {
		if normalized[i].Name != normalized[j].Name {
			return normalized[i].Name < normalized[j].Name
		}
		return normalized[i].Unit < normalized[j].Unit
	})

	lines := make([]string, 0, len(normalized))
	for _, it := range normalized {
		lines = append(lines, fmt.Sprintf("%s | %s | %s | %s",
			it.Name, it.Unit, priceField(it.Buy), priceField(it.Sell)))
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// ParseCanonical parses snapshot text back into items. It is the inverse
// of Canonical for canonical input, which makes the round-trip testable
// and lets the notify stage rebuild items from the compare artifact.
func ParseCanonical(text string) ([]Item, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	var items []Item
	for _, line := range strings.Split(text, "\n") {
		fields := strings.Split(line, " | ")
		if len(fields) != 4 {
			return nil, fmt.Errorf("malformed snapshot line %q", line)
		}
		it := Item{Name: strings.TrimSpace(fields[0]), Unit: strings.TrimSpace(fields[1])}
		var err error
		if it.Buy, err = parseField(fields[2]); err != nil {
			return nil, fmt.Errorf("line %q: %w", line, err)
		}
		if it.Sell, err = parseField(fields[3]); err != nil {
			return nil, fmt.Errorf("line %q: %w", line, err)
		}
		items = append(items, it)
	}
	return items, nil
}

func priceField(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func parseField(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("parse price field %q: %w", s, err)
	}
	return IntPtr(n), nil
}
