package phuquy

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/haiminh/metal-price-crawler/internal/pricing"
)

const goldFixture = `
<html><body>
<table>
  <thead>
    <tr><th>Sản phẩm</th><th>Mua vào</th><th>Bán ra</th></tr>
  </thead>
  <tbody>
    <tr>
      <td>Vàng miếng Phú Quý 999.9</td>
      <td class="buy-price">3,848,000</td>
      <td class="sell-price">3,878,000</td>
    </tr>
    <tr>
      <td>Nhẫn tròn trơn 999.9</td>
      <td class="buy-price">Liên hệ</td>
      <td class="sell-price">3,875,000</td>
    </tr>
    <tr>
      <td colspan="3">Cập nhật lúc 09:30</td>
    </tr>
    <tr>
      <td>Vàng trang sức</td>
      <td class="buy-price">Liên hệ</td>
      <td class="sell-price">Liên hệ</td>
    </tr>
  </tbody>
</table>
</body></html>`

func TestParseGold(t *testing.T) {
	t.Parallel()

	records := ParseGold(goldFixture)
	require.Len(t, records, 2)

	require.Equal(t, pricing.Record{
		Product: "Vàng miếng Phú Quý 999.9",
		Unit:    "VNĐ/Chỉ",
		Buy:     pricing.Whole(3848000),
		Sell:    pricing.Whole(3878000),
	}, records[0])

	// Placeholder buy price parses to absence; the row survives because
	// the sell price is present.
	require.Equal(t, "Nhẫn tròn trơn 999.9", records[1].Product)
	require.Nil(t, records[1].Buy)
	require.Equal(t, int64(3875000), records[1].Sell.Int64())
}

func TestParseGoldDropsFullyUnpricedRow(t *testing.T) {
	t.Parallel()

	// The fixture's last data row has a valid product but no parsable
	// price on either side; it must vanish rather than emit a partial
	// record.
	records := ParseGold(goldFixture)
	for _, r := range records {
		require.NotEqual(t, "Vàng trang sức", r.Product)
	}
}

func TestParseGoldIdempotent(t *testing.T) {
	t.Parallel()

	first := ParseGold(goldFixture)
	second := ParseGold(goldFixture)
	require.Equal(t, first, second)
}

func TestParseGoldAbsentDocument(t *testing.T) {
	t.Parallel()

	require.Empty(t, ParseGold(""))
	require.Empty(t, ParseGold("<html><body><p>bảo trì</p></body></html>"))
}

const silverFixture = `
<html><body>
<table>
  <tbody>
    <tr><td colspan="4"><span class="branch_title">Bạc miếng</span></td></tr>
    <tr>
      <td class="col-product">Bạc miếng Phú Quý 999</td>
      <td class="col-unit-value">VNĐ/Lượng</td>
      <td class="col-buy-cell">1,710,000</td>
      <td class="col-buy-cell">1,763,000</td>
    </tr>
    <tr>
      <td class="col-product">Bạc miếng 1kg</td>
      <td class="col-unit-value">VNĐ/Kg</td>
      <td class="col-buy-cell">45,600,000</td>
      <td class="col-buy-cell">47,000,000</td>
    </tr>
    <tr><td colspan="4"><span class="branch_title">Bạc thỏi</span></td></tr>
    <tr>
      <td class="col-product">Bạc thỏi Phú Quý 999</td>
      <td class="col-unit-value">VNĐ/Lượng</td>
      <td class="col-buy-cell">1,705,000</td>
      <td class="col-buy-cell">1,758,000</td>
    </tr>
    <tr>
      <td class="col-product">Thiếu giá</td>
      <td class="col-unit-value">VNĐ/Lượng</td>
      <td class="col-buy-cell">Liên hệ</td>
    </tr>
  </tbody>
</table>
</body></html>`

func TestParseSilverCategoryStickiness(t *testing.T) {
	t.Parallel()

	records := ParseSilver(silverFixture)
	require.Len(t, records, 3)

	require.Equal(t, "Bạc miếng", records[0].Category)
	require.Equal(t, "Bạc miếng", records[1].Category)
	require.Equal(t, "Bạc thỏi", records[2].Category)

	require.Equal(t, "Bạc miếng Phú Quý 999", records[0].Product)
	require.Equal(t, "VNĐ/Lượng", records[0].Unit)
	require.Equal(t, int64(1710000), records[0].Buy.Int64())
	require.Equal(t, int64(1763000), records[0].Sell.Int64())
}

func TestParseSilverSkipsShortRows(t *testing.T) {
	t.Parallel()

	// The last row has only one price cell, below the two the interpreter
	// requires; it is noise, not a record.
	records := ParseSilver(silverFixture)
	for _, r := range records {
		require.NotEqual(t, "Thiếu giá", r.Product)
	}
}

func TestParseSilverCategoryResetsPerCall(t *testing.T) {
	t.Parallel()

	withHeader := ParseSilver(silverFixture)
	require.Equal(t, "Bạc miếng", withHeader[0].Category)

	// A document with no header rows starts over with no category, even
	// right after a parse that ended inside one.
	const headerless = `
<table><tbody>
  <tr>
    <td class="col-product">Bạc thỏi 1kg</td>
    <td class="col-unit-value">VNĐ/Kg</td>
    <td class="col-buy-cell">45,500,000</td>
    <td class="col-buy-cell">46,900,000</td>
  </tr>
</tbody></table>`
	records := ParseSilver(headerless)
	require.Len(t, records, 1)
	require.Empty(t, records[0].Category)
}

func TestParseSilverAbsentDocument(t *testing.T) {
	t.Parallel()

	require.Empty(t, ParseSilver(""))
}
