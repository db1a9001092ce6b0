// Package extractor defines the contract vendor extraction pipelines
// implement and the fetch boundary shared between them.
//
// Each vendor pipeline runs three stages in sequence: fetch the raw page,
// locate candidate table rows, interpret each row into a normalized record.
// Only the fetch stage touches the network; the locator and interpreter are
// pure functions of the HTML text. Every failure mode along the way —
// transport error, timeout, non-2xx status, unparsable markup, noise rows —
// degrades to fewer records, never to an error reaching the caller.
package extractor

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/haiminh/metal-price-crawler/internal/fetcher"
	"github.com/haiminh/metal-price-crawler/internal/metrics"
	"github.com/haiminh/metal-price-crawler/internal/pricing"
)

// Source is one vendor's extraction pipeline. New vendors are added by
// implementing Source, not by modifying existing interpreters.
type Source interface {
	// Vendor is a short stable identifier, used in envelope keys,
	// logs and metric labels.
	Vendor() string
	// Origin returns the page URL backing the given commodity.
	Origin(c pricing.Commodity) string
	// Prices fetches and interprets the vendor's table for the commodity.
	// It never fails: any fetch or parse problem yields fewer records.
	Prices(ctx context.Context, c pricing.Commodity) []pricing.Record
}

// BrowserHeaders returns the fixed header set sent with every vendor fetch,
// mirroring a standard desktop browser client.
func BrowserHeaders() http.Header {
	h := http.Header{}
	h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	h.Set("Accept-Language", "en-US,en;q=0.5")
	return h
}

// FetchPage retrieves one vendor page and absorbs every failure mode into
// absence: a transport error, timeout or non-2xx status is logged for the
// operator and returned as an empty string, which the locators treat as an
// empty document.
func FetchPage(ctx context.Context, f fetcher.Fetcher, logger *zap.Logger, vendor, url string, headers http.Header) string {
	resp, err := f.Fetch(ctx, fetcher.Request{URL: url, Headers: headers})
	if err != nil {
		logger.Warn("page fetch failed",
			zap.String("vendor", vendor),
			zap.String("url", url),
			zap.Error(err),
		)
		metrics.ObserveFetch(vendor, "error", resp.Duration)
		return ""
	}
	if !resp.OK() {
		logger.Warn("page fetch returned non-success status",
			zap.String("vendor", vendor),
			zap.String("url", url),
			zap.Int("status", resp.StatusCode),
		)
		metrics.ObserveFetch(vendor, "bad_status", resp.Duration)
		return ""
	}
	metrics.ObserveFetch(vendor, "ok", resp.Duration)
	return string(resp.Body)
}
