package pricing

import (
	"html"
	"strings"
	"time"
)

const messageSource = "giabac.phuquygroup.vn"

// FormatVND renders a price with dotted thousands separators
// ("2.776.000"), or "-" when the price is absent.
func FormatVND(v *int) string {
	if v == nil {
		return "-"
	}
	digits := []byte(intString(*v))
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteByte(d)
	}
	return b.String()
}

func intString(v int) string {
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}

// BuildMessage produces the Telegram HTML message: a header with the
// observation time and an aligned monospace table of all items.
func BuildMessage(items []Item, now time.Time) string {
	var b strings.Builder
	b.WriteString("🥈 <b>Cập nhật giá bạc Phú Quý</b>\n")
	b.WriteString("⏱ " + now.Format("15:04 02/01/2006") + "\n\n")
	b.WriteString("<pre><code>")
	b.WriteString(html.EscapeString(buildTable(items)))
	b.WriteString("</code></pre>")
	b.WriteString("\nNguồn: " + messageSource)
	return b.String()
}

// BuildCaption produces the short caption attached to a screenshot
// notification, where the table itself is in the image.
func BuildCaption(now time.Time) string {
	return "🥈 <b>Cập nhật giá bạc Phú Quý</b>\n" +
		"⏱ " + now.Format("15:04 02/01/2006") + "\n" +
		"Nguồn: " + messageSource
}

func buildTable(items []Item) string {
	rows := make([][4]string, 0, len(items)+1)
	rows = append(rows, [4]string{"SẢN PHẨM", "ĐƠN VỊ", "MUA VÀO", "BÁN RA"})
	for _, it := range items {
		rows = append(rows, [4]string{
			NormalizeText(it.Name),
			NormalizeText(it.Unit),
			FormatVND(it.Buy),
			FormatVND(it.Sell),
		})
	}

	var width [4]int
	for _, r := range rows {
		for i, cell := range r {
			if n := len([]rune(cell)); n > width[i] {
				width[i] = n
			}
		}
	}

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, pad(r[0], width[0], false)+"  "+
			pad(r[1], width[1], false)+"  "+
			pad(r[2], width[2], true)+"  "+
			pad(r[3], width[3], true))
	}
	return strings.Join(lines, "\n")
}

func pad(s string, width int, right bool) string {
	gap := width - len([]rune(s))
	if gap <= 0 {
		return s
	}
	fill := strings.Repeat(" ", gap)
	if right {
		return fill + s
	}
	return s + fill
}
