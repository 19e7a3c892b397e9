package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storytellerz/backend/internal/domain"
)

func serve(t *testing.T, html string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, html)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestScrapePricing_ProductCards(t *testing.T) {
	server := serve(t, `
		<html><body>
			<div class="product-card">
				<h3>Gift Hamper</h3>
				<span>$ 1,200</span>
			</div>
			<li class="item-box">
				<h4>Lantern Set</h4>
				<p>from ₹450 per piece</p>
			</li>
			<div class="product-card">
				<h3>Gift Hamper</h3>
				<span>$999</span>
			</div>
			<div class="sidebar">
				<h3>About us</h3>
			</div>
		</body></html>`)

	s := New(5*time.Second, 20)
	outcome, err := s.ScrapePricing(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Equal(t, domain.ScrapeSuccess, outcome.Status)
	require.Len(t, outcome.Items, 2, "duplicate names collapse, non-product blocks are skipped")
	assert.Equal(t, "Gift Hamper", outcome.Items[0].Item)
	assert.Equal(t, "$1,200", outcome.Items[0].Price)
	assert.Equal(t, "Lantern Set", outcome.Items[1].Item)
	assert.Equal(t, "₹450", outcome.Items[1].Price)
	assert.Equal(t, []string{"Gift Hamper", "Lantern Set"}, outcome.Products)
}

func TestScrapePricing_HeadingFallback(t *testing.T) {
	server := serve(t, `
		<html><body>
			<h2>Wedding Decor</h2>
			<h3>Corporate Gifting</h3>
			<p>Call us for quotes.</p>
		</body></html>`)

	s := New(5*time.Second, 20)
	outcome, err := s.ScrapePricing(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Equal(t, domain.ScrapeSuccess, outcome.Status)
	assert.Empty(t, outcome.Items)
	assert.Equal(t, []string{"Wedding Decor", "Corporate Gifting"}, outcome.Products)
}

func TestScrapePricing_NoData(t *testing.T) {
	server := serve(t, `<html><body><p>Under construction</p></body></html>`)

	s := New(5*time.Second, 20)
	outcome, err := s.ScrapePricing(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Equal(t, domain.ScrapeNoData, outcome.Status)
	assert.Empty(t, outcome.Items)
	assert.Empty(t, outcome.Products)
}

func TestScrapePricing_CapsItemCount(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 0; i < 30; i++ {
		fmt.Fprintf(&b, `<div class="product"><h3>Item %02d</h3><span>$%d</span></div>`, i, i+1)
	}
	b.WriteString("</body></html>")
	server := serve(t, b.String())

	s := New(5*time.Second, 5)
	outcome, err := s.ScrapePricing(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Len(t, outcome.Items, 5)
}

func TestScrapePricing_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	s := New(5*time.Second, 20)
	_, err := s.ScrapePricing(context.Background(), server.URL)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
}

func TestScrapePricing_Unreachable(t *testing.T) {
	s := New(1*time.Second, 20)
	_, err := s.ScrapePricing(context.Background(), "http://127.0.0.1:1")
	require.Error(t, err)
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"acme.example", "https://acme.example"},
		{"  acme.example ", "https://acme.example"},
		{"http://acme.example", "http://acme.example"},
		{"https://acme.example/shop", "https://acme.example/shop"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeURL(tt.in))
	}
}
