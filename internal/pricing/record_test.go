package pricing

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecordPriced(t *testing.T) {
	t.Parallel()

	require.True(t, Record{Product: "SJC 1L", Buy: Whole(1)}.Priced())
	require.True(t, Record{Product: "SJC 1L", Sell: Whole(1)}.Priced())
	require.False(t, Record{Product: "SJC 1L"}.Priced())
	require.False(t, Record{Buy: Whole(1), Sell: Whole(2)}.Priced())
}

func TestRecordJSONDistinguishesAbsenceFromZero(t *testing.T) {
	t.Parallel()

	absent := Record{Product: "Nhẫn tròn trơn", Unit: "VNĐ/Chỉ", Buy: Whole(3848000)}
	b, err := json.Marshal(absent)
	require.NoError(t, err)
	require.NotContains(t, string(b), "sell_price")
	require.Contains(t, string(b), `"buy_price":3848000`)

	zero := Record{Product: "Nhẫn tròn trơn", Unit: "VNĐ/Chỉ", Buy: Whole(3848000), Sell: Whole(0)}
	b, err = json.Marshal(zero)
	require.NoError(t, err)
	require.Contains(t, string(b), `"sell_price":0`)
}

func TestRecordJSONOptionalLabels(t *testing.T) {
	t.Parallel()

	plain := Record{Product: "SJC 1L", Unit: "nghìn đồng/lượng", Buy: Decimal(78500)}
	b, err := json.Marshal(plain)
	require.NoError(t, err)
	require.NotContains(t, string(b), "category")
	require.NotContains(t, string(b), "purity")

	labeled := Record{
		Product:  "Bạc miếng Phú Quý 999",
		Category: "Bạc miếng",
		Unit:     "VNĐ/Kg",
		Sell:     Whole(1740000),
	}
	b, err = json.Marshal(labeled)
	require.NoError(t, err)
	require.Contains(t, string(b), `"category":"Bạc miếng"`)
}
