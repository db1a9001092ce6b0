// Package btmc extracts gold and silver price tables published by Bảo Tín
// Minh Châu. Columns are positional and a row may or may not open with a
// decorative image cell, so the interpreter picks its column indexes from
// an explicit layout table keyed on cell count. Prices are quoted in
// fractional thousand đồng.
package btmc

import (
	"context"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/haiminh/metal-price-crawler/internal/extractor"
	"github.com/haiminh/metal-price-crawler/internal/fetcher"
	"github.com/haiminh/metal-price-crawler/internal/metrics"
	"github.com/haiminh/metal-price-crawler/internal/pricing"
)

const (
	vendorName = "btmc"

	unit = "nghìn đồng/lượng"

	// Unlike Phú Quý, BTMC does not scope its price rows to tbody
	// sections, so every table row is a candidate.
	rowSelector = "table tr"
)

// layout maps semantic columns to cell indexes for rows of at least
// minCells cells. A negative index means the column does not exist in
// that commodity's table.
type layout struct {
	minCells int
	product  int
	purity   int
	buy      int
	sell     int
}

// Layouts are ordered widest first; a row adopts the first layout whose
// minimum it meets. Rows narrower than every layout are noise, even if a
// future page revision might make them legitimate — robustness over
// completeness.
var (
	goldLayouts = []layout{
		{minCells: 5, product: 1, purity: 2, buy: 3, sell: 4},
		{minCells: 4, product: 0, purity: 1, buy: 2, sell: 3},
	}
	silverLayouts = []layout{
		{minCells: 4, product: 1, purity: -1, buy: 2, sell: 3},
		{minCells: 3, product: 0, purity: -1, buy: 1, sell: 2},
	}
)

// Config carries the page origins and the origin used as Referer.
type Config struct {
	GoldURL   string
	SilverURL string
	Referer   string
}

// Extractor implements extractor.Source for BTMC.
type Extractor struct {
	fetcher fetcher.Fetcher
	logger  *zap.Logger
	cfg     Config
}

// New builds an Extractor.
func New(f fetcher.Fetcher, logger *zap.Logger, cfg Config) *Extractor {
	return &Extractor{fetcher: f, logger: logger, cfg: cfg}
}

// Vendor implements extractor.Source.
func (e *Extractor) Vendor() string {
	return vendorName
}

// Origin implements extractor.Source.
func (e *Extractor) Origin(c pricing.Commodity) string {
	if c == pricing.Silver {
		return e.cfg.SilverURL
	}
	return e.cfg.GoldURL
}

// Prices fetches one commodity page and interprets its rows.
func (e *Extractor) Prices(ctx context.Context, c pricing.Commodity) []pricing.Record {
	html := extractor.FetchPage(ctx, e.fetcher, e.logger, vendorName, e.Origin(c), e.headers())

	var records []pricing.Record
	if c == pricing.Silver {
		records = ParseSilver(html)
	} else {
		records = ParseGold(html)
	}
	metrics.ObserveRecords(vendorName, string(c), len(records))
	return records
}

// BTMC serves the price tables only to requests carrying a same-origin
// referrer.
func (e *Extractor) headers() http.Header {
	h := extractor.BrowserHeaders()
	if e.cfg.Referer != "" {
		h.Set("Referer", e.cfg.Referer)
	}
	return h
}

// ParseGold interprets the gold table: product, purity and both prices,
// positions resolved through the gold layout table.
func ParseGold(html string) []pricing.Record {
	return parse(html, goldLayouts)
}

// ParseSilver interprets the silver table, which carries no purity column.
func ParseSilver(html string) []pricing.Record {
	return parse(html, silverLayouts)
}

func parse(html string, layouts []layout) []pricing.Record {
	if html == "" {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var records []pricing.Record
	doc.Find(rowSelector).Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		lay, ok := pickLayout(layouts, cells.Length())
		if !ok {
			return
		}

		record := pricing.Record{
			Product: strings.TrimSpace(cells.Eq(lay.product).Text()),
			Unit:    unit,
			Buy:     pricing.ParseDecimal(cells.Eq(lay.buy).Text()),
			Sell:    pricing.ParseDecimal(cells.Eq(lay.sell).Text()),
		}
		if lay.purity >= 0 {
			record.Purity = strings.TrimSpace(cells.Eq(lay.purity).Text())
		}
		if record.Priced() {
			records = append(records, record)
		}
	})
	return records
}

func pickLayout(layouts []layout, cells int) (layout, bool) {
	for _, lay := range layouts {
		if cells >= lay.minCells {
			return lay, true
		}
	}
	return layout{}, false
}
