package pricing_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dutotheke/silver-price-notifier/internal/pricing"
)

func TestFormatVND(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "-", pricing.FormatVND(nil))
	assert.Equal(t, "0", pricing.FormatVND(pricing.IntPtr(0)))
	assert.Equal(t, "999", pricing.FormatVND(pricing.IntPtr(999)))
	assert.Equal(t, "2.776.000", pricing.FormatVND(pricing.IntPtr(2776000)))
	assert.Equal(t, "74.026.482", pricing.FormatVND(pricing.IntPtr(74026482)))
}

func TestBuildMessage(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 26, 9, 30, 0, 0, time.UTC)
	msg := pricing.BuildMessage(sampleItems(), now)

	assert.Contains(t, msg, "<b>Cập nhật giá bạc Phú Quý</b>")
	assert.Contains(t, msg, "09:30 26/08/2026")
	assert.Contains(t, msg, "<pre><code>")
	assert.Contains(t, msg, "</code></pre>")
	assert.Contains(t, msg, "SẢN PHẨM")
	assert.Contains(t, msg, "2.776.000")
	assert.Contains(t, msg, "Nguồn: giabac.phuquygroup.vn")
}

func TestBuildMessageEscapesMarkup(t *testing.T) {
	t.Parallel()

	items := []pricing.Item{{Name: "Bạc <script>", Unit: "chỉ", Sell: pricing.IntPtr(1)}}
	msg := pricing.BuildMessage(items, time.Now())

	assert.NotContains(t, msg, "<script>")
	assert.Contains(t, msg, "&lt;script&gt;")
}

func TestBuildMessageAlignsColumns(t *testing.T) {
	t.Parallel()

	msg := pricing.BuildMessage(sampleItems(), time.Now())
	start := strings.Index(msg, "<pre><code>") + len("<pre><code>")
	end := strings.Index(msg, "</code></pre>")
	lines := strings.Split(msg[start:end], "\n")

	// Header plus one line per item, all padded to the same width.
	assert.Len(t, lines, len(sampleItems())+1)
	for _, line := range lines[1:] {
		assert.Equal(t, len([]rune(lines[0])), len([]rune(line)))
	}
}

func TestBuildCaption(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 26, 9, 30, 0, 0, time.UTC)
	caption := pricing.BuildCaption(now)
	assert.Contains(t, caption, "09:30 26/08/2026")
	assert.Contains(t, caption, "Nguồn: giabac.phuquygroup.vn")
	assert.NotContains(t, caption, "<pre>")
}
