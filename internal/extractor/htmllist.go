package extractor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"horse.fit/discovr/internal/event"
)

// HTMLListConfig describes where event data lives in a venue's listing
// page. One generic extractor plus a config per venue replaces the old
// per-venue scraper bodies; the selectors are the only thing that differs.
type HTMLListConfig struct {
	URL           string
	ItemSelector  string
	TitleSelector string
	DateSelector  string
	VenueSelector string
	LinkSelector  string
	ImageSelector string
	// Category applied to every record from this listing, when the page
	// itself carries none.
	Category string
}

// HTMLList extracts records from a selector-configured HTML listing page.
type HTMLList struct {
	src    Source
	cfg    HTMLListConfig
	client *http.Client
}

func NewHTMLList(src Source, cfg HTMLListConfig) *HTMLList {
	return &HTMLList{
		src:    src,
		cfg:    cfg,
		client: newHTTPClient(),
	}
}

func (h *HTMLList) Source() Source { return h.src }

func (h *HTMLList) Extract(ctx context.Context, targetCity string) ([]event.RawRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("create listing request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch listing %s: %w", h.cfg.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing %s returned status %d", h.cfg.URL, resp.StatusCode)
	}

	return h.parse(resp.Body)
}

func (h *HTMLList) parse(r io.Reader) ([]event.RawRecord, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse listing HTML: %w", err)
	}

	base, err := url.Parse(h.cfg.URL)
	if err != nil {
		base = nil
	}

	var records []event.RawRecord
	doc.Find(h.cfg.ItemSelector).Each(func(_ int, item *goquery.Selection) {
		title := selectionText(item, h.cfg.TitleSelector)
		if title == "" {
			return
		}

		rec := event.RawRecord{
			SourceID: h.src.ID,
			Title:    title,
			DateText: selectionText(item, h.cfg.DateSelector),
			Category: h.cfg.Category,
		}

		if venueText := selectionText(item, h.cfg.VenueSelector); venueText != "" {
			rec.VenueText = venueText
		}
		if link := selectionAttr(item, h.cfg.LinkSelector, "href"); link != "" {
			rec.URL = resolveLink(base, link)
		}
		if img := selectionAttr(item, h.cfg.ImageSelector, "src"); img != "" {
			rec.ImageURL = resolveLink(base, img)
		}

		records = append(records, rec)
	})

	return records, nil
}

func selectionText(item *goquery.Selection, selector string) string {
	if strings.TrimSpace(selector) == "" {
		return ""
	}
	return strings.TrimSpace(item.Find(selector).First().Text())
}

func selectionAttr(item *goquery.Selection, selector, attr string) string {
	if strings.TrimSpace(selector) == "" {
		return ""
	}
	value, _ := item.Find(selector).First().Attr(attr)
	return strings.TrimSpace(value)
}

func resolveLink(base *url.URL, link string) string {
	parsed, err := url.Parse(link)
	if err != nil {
		return ""
	}
	if parsed.IsAbs() || base == nil {
		return link
	}
	return base.ResolveReference(parsed).String()
}
