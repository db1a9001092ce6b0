package btmc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/haiminh/metal-price-crawler/internal/pricing"
)

func wrapRows(rows ...string) string {
	return "<html><body><table><tbody>" + strings.Join(rows, "\n") + "</tbody></table></body></html>"
}

func TestParseGoldLayoutBranching(t *testing.T) {
	t.Parallel()

	withImage := wrapRows(
		`<tr><td><img src="logo.png"/></td><td>SJC 1L</td><td>999.9</td><td>78,500</td><td>79,200</td></tr>`,
	)
	withoutImage := wrapRows(
		`<tr><td>SJC 1L</td><td>999.9</td><td>78,500</td><td>79,200</td></tr>`,
	)

	want := []pricing.Record{{
		Product: "SJC 1L",
		Purity:  "999.9",
		Unit:    "nghìn đồng/lượng",
		Buy:     pricing.Decimal(78500),
		Sell:    pricing.Decimal(79200),
	}}

	// The same logical row must normalize identically whether or not the
	// decorative leading cell is present.
	require.Equal(t, want, ParseGold(withImage))
	require.Equal(t, want, ParseGold(withoutImage))
}

func TestParseGoldFractionalPrices(t *testing.T) {
	t.Parallel()

	html := wrapRows(
		`<tr><td></td><td>Vàng Rồng Thăng Long</td><td>99.99</td><td>75,120.5</td><td>76,220.5</td></tr>`,
	)
	records := ParseGold(html)
	require.Len(t, records, 1)
	require.InDelta(t, 75120.5, records[0].Buy.Float64(), 1e-9)
	require.InDelta(t, 76220.5, records[0].Sell.Float64(), 1e-9)
}

func TestParseGoldEndToEnd(t *testing.T) {
	t.Parallel()

	// Three valid rows and two noise rows: a header-only row (no td cells)
	// and a row below every layout's minimum width.
	html := wrapRows(
		`<tr><th>Sản phẩm</th><th>Hàm lượng</th><th>Mua vào</th><th>Bán ra</th></tr>`,
		`<tr><td><img/></td><td>SJC 1L</td><td>999.9</td><td>78,500</td><td>79,200</td></tr>`,
		`<tr><td>Nhẫn tròn trơn</td><td>999.9</td><td>76,800</td><td>77,600</td></tr>`,
		`<tr><td>Cập nhật</td><td>09:30</td></tr>`,
		`<tr><td><img/></td><td>Vàng trang sức</td><td>99.9</td><td>Liên hệ</td><td>77,000</td></tr>`,
	)

	records := ParseGold(html)
	require.Len(t, records, 3)
	require.Equal(t, "SJC 1L", records[0].Product)
	require.Equal(t, "Nhẫn tròn trơn", records[1].Product)
	require.Equal(t, "Vàng trang sức", records[2].Product)
	require.Nil(t, records[2].Buy)
	require.InDelta(t, 77000, records[2].Sell.Float64(), 1e-9)
}

func TestParseGoldDropPolicy(t *testing.T) {
	t.Parallel()

	valid := wrapRows(
		`<tr><td>SJC 1L</td><td>999.9</td><td>78,500</td><td>79,200</td></tr>`,
		`<tr><td>Nhẫn tròn trơn</td><td>999.9</td><td>76,800</td><td>77,600</td></tr>`,
	)
	oneUnpriced := wrapRows(
		`<tr><td>SJC 1L</td><td>999.9</td><td>78,500</td><td>79,200</td></tr>`,
		`<tr><td>Nhẫn tròn trơn</td><td>999.9</td><td>Liên hệ</td><td>Liên hệ</td></tr>`,
	)

	require.Len(t, ParseGold(valid), 2)
	// Both prices unparsable drops exactly that row.
	require.Len(t, ParseGold(oneUnpriced), 1)
}

func TestParseSilverLayoutBranching(t *testing.T) {
	t.Parallel()

	withImage := wrapRows(
		`<tr><td><img/></td><td>Bạc thỏi 1kg</td><td>51,306.539</td><td>52,910</td></tr>`,
	)
	withoutImage := wrapRows(
		`<tr><td>Bạc thỏi 1kg</td><td>51,306.539</td><td>52,910</td></tr>`,
	)

	want := []pricing.Record{{
		Product: "Bạc thỏi 1kg",
		Unit:    "nghìn đồng/lượng",
		Buy:     pricing.Decimal(51306.539),
		Sell:    pricing.Decimal(52910),
	}}

	require.Equal(t, want, ParseSilver(withImage))
	require.Equal(t, want, ParseSilver(withoutImage))
}

func TestParseSilverHasNoPurity(t *testing.T) {
	t.Parallel()

	html := wrapRows(
		`<tr><td><img/></td><td>Bạc miếng</td><td>17,800</td><td>18,200</td></tr>`,
	)
	records := ParseSilver(html)
	require.Len(t, records, 1)
	require.Empty(t, records[0].Purity)
}

func TestParseSilverSkipsNarrowRows(t *testing.T) {
	t.Parallel()

	html := wrapRows(
		`<tr><td>Bạc miếng</td><td>17,800</td></tr>`,
	)
	require.Empty(t, ParseSilver(html))
}

func TestParseIdempotent(t *testing.T) {
	t.Parallel()

	html := wrapRows(
		`<tr><td><img/></td><td>SJC 1L</td><td>999.9</td><td>78,500</td><td>79,200</td></tr>`,
	)
	require.Equal(t, ParseGold(html), ParseGold(html))
}

func TestParseAbsentDocument(t *testing.T) {
	t.Parallel()

	require.Empty(t, ParseGold(""))
	require.Empty(t, ParseSilver(""))
}
