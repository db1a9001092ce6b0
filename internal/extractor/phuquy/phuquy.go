// Package phuquy extracts gold and silver price tables published by the
// Phú Quý Group. Both pages mark their semantic cells with CSS classes, so
// the interpreter locates buy/sell cells by attribute rather than position.
// Prices are quoted in whole đồng.
package phuquy

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
	vendorName = "phuquy"

	// The gold page quotes per chỉ; the silver page embeds a unit cell
	// per row instead.
	goldUnit = "VNĐ/Chỉ"

	rowSelector = "table tbody tr"

	buySelector      = "td.buy-price"
	sellSelector     = "td.sell-price"
	categorySelector = "td[colspan] .branch_title"
	productSelector  = "td.col-product"
	unitSelector     = "td.col-unit-value"
	priceSelector    = "td.col-buy-cell"
)

// Config carries the page origins for both commodities.
type Config struct {
	GoldURL   string
	SilverURL string
}

// Extractor implements extractor.Source for Phú Quý.
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

func (e *Extractor) headers() http.Header {
	return extractor.BrowserHeaders()
}

// ParseGold interprets the gold page. Rows carry the product name in their
// first cell and mark the two price cells with the buy-price and sell-price
// classes; rows missing either a product or every parsable price are noise.
func ParseGold(html string) []pricing.Record {
	var records []pricing.Record
	forEachRow(html, func(row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 3 {
			return
		}

		product := strings.TrimSpace(cells.First().Text())
		buy := pricing.ParseWhole(row.Find(buySelector).First().Text())
		sell := pricing.ParseWhole(row.Find(sellSelector).First().Text())

		record := pricing.Record{
			Product: product,
			Unit:    goldUnit,
			Buy:     buy,
			Sell:    sell,
		}
		if record.Priced() {
			records = append(records, record)
		}
	})
	return records
}

// ParseSilver interprets the silver page. The table interleaves category
// header rows (a wide cell carrying a branch_title marker) with data rows;
// the most recent header sticks to every data row below it until the next
// header appears. Category state lives in this one pass only.
func ParseSilver(html string) []pricing.Record {
	var records []pricing.Record
	currentCategory := ""
	forEachRow(html, func(row *goquery.Selection) {
		if header := row.Find(categorySelector); header.Length() > 0 {
			currentCategory = strings.TrimSpace(header.First().Text())
			return
		}

		productCell := row.Find(productSelector)
		priceCells := row.Find(priceSelector)
		if productCell.Length() == 0 || priceCells.Length() < 2 {
			return
		}

		record := pricing.Record{
			Product:  strings.TrimSpace(productCell.First().Text()),
			Category: currentCategory,
			Unit:     strings.TrimSpace(row.Find(unitSelector).First().Text()),
			Buy:      pricing.ParseWhole(priceCells.Eq(0).Text()),
			Sell:     pricing.ParseWhole(priceCells.Eq(1).Text()),
		}
		if record.Priced() {
			records = append(records, record)
		}
	})
	return records
}

// forEachRow applies fn to every structurally eligible row in document
// order. An empty or unparsable document yields no rows, so a failed fetch
// flows through as an empty result rather than an error.
func forEachRow(html string, fn func(*goquery.Selection)) {
	if html == "" {
		return
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return
	}
	doc.Find(rowSelector).Each(func(_ int, row *goquery.Selection) {
		fn(row)
	})
}
