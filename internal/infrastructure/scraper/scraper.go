package scraper

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/storytellerz/backend/internal/domain"
)

// Scraper performs a best-effort pricing lookup against a vendor
// website. It never parses checkout flows or paginated catalogs; the
// goal is a quick guide from whatever the landing page shows.
type Scraper struct {
	httpClient *http.Client
	maxItems   int
}

var (
	productClassRe = regexp.MustCompile(`(?i)(product|item|card|box)`)
	priceRe        = regexp.MustCompile(`[$₹€£]\s*[\d,]+(?:\.\d+)?`)
)

// New creates a scraper. maxItems caps the pricing guide length so a
// catalog page cannot flood a draft.
func New(timeout time.Duration, maxItems int) *Scraper {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if maxItems <= 0 {
		maxItems = 20
	}
	return &Scraper{
		httpClient: &http.Client{Timeout: timeout},
		maxItems:   maxItems,
	}
}

// ScrapePricing fetches the website's landing page and mines it for
// product names and prices. An unreachable or non-HTML site is an
// error; a reachable page with nothing recognizable yields an empty
// outcome with a no-data status.
func (s *Scraper) ScrapePricing(ctx context.Context, website string) (*domain.ScrapeOutcome, error) {
	pageURL := normalizeURL(website)
	log.Printf("[SCRAPE] Fetching %s", pageURL)

	req, err := http.NewRequestWithContext(ctx, "GET", pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; StorytellerzBot/1.0)")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: status %d", pageURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", pageURL, err)
	}

	outcome := s.mine(doc)
	log.Printf("[SCRAPE] %s yielded %d priced items, %d product names", pageURL, len(outcome.Items), len(outcome.Products))
	return outcome, nil
}

// mine walks likely product containers first, then falls back to bare
// headings when the page uses no recognizable card markup.
func (s *Scraper) mine(doc *goquery.Document) *domain.ScrapeOutcome {
	outcome := &domain.ScrapeOutcome{}
	seen := make(map[string]bool)

	doc.Find("div, li, article, section").Each(func(_ int, sel *goquery.Selection) {
		if len(outcome.Items) >= s.maxItems {
			return
		}
		class, _ := sel.Attr("class")
		if !productClassRe.MatchString(class) {
			return
		}

		name := firstHeading(sel)
		if name == "" || seen[name] {
			return
		}

		price := priceRe.FindString(sel.Text())
		if price == "" {
			return
		}

		seen[name] = true
		outcome.Items = append(outcome.Items, domain.PricingItem{
			Item:  name,
			Price: strings.Join(strings.Fields(price), ""),
		})
		outcome.Products = append(outcome.Products, name)
	})

	if len(outcome.Items) > 0 {
		outcome.Status = domain.ScrapeSuccess
		return outcome
	}

	// No priced cards; collect plain headings as product hints.
	doc.Find("h2, h3, h4, h5").Each(func(_ int, sel *goquery.Selection) {
		if len(outcome.Products) >= s.maxItems {
			return
		}
		name := cleanText(sel.Text())
		if name == "" || len(name) > 80 || seen[name] {
			return
		}
		seen[name] = true
		outcome.Products = append(outcome.Products, name)
	})

	if len(outcome.Products) > 0 {
		outcome.Status = domain.ScrapeSuccess
	} else {
		outcome.Status = domain.ScrapeNoData
	}
	return outcome
}

func firstHeading(sel *goquery.Selection) string {
	heading := sel.Find("h2, h3, h4, h5").First()
	if heading.Length() == 0 {
		return ""
	}
	return cleanText(heading.Text())
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// normalizeURL defaults bare hosts to https.
func normalizeURL(website string) string {
	website = strings.TrimSpace(website)
	if strings.HasPrefix(website, "http://") || strings.HasPrefix(website, "https://") {
		return website
	}
	return "https://" + website
}
