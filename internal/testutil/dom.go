package testutil

import (
	"bytes"
	"net/http"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

// ParseHTML parses a full page or an htmx fragment. Fragments are wrapped in
// a synthetic body by the parser, so selectors work the same for both.
func ParseHTML(t testing.TB, body []byte) *goquery.Document {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

// RequireHTML fails the test unless resp is a 200 text/html response, then
// parses body.
func RequireHTML(t testing.TB, resp *http.Response, body []byte) *goquery.Document {
	t.Helper()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("%s %s: status %d, body %q", resp.Request.Method, resp.Request.URL.Path, resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("%s %s: content type %q", resp.Request.Method, resp.Request.URL.Path, ct)
	}
	return ParseHTML(t, body)
}

// Blocks lists the rendered section blocks in page order.
func Blocks(doc *goquery.Document) []string {
	var out []string
	doc.Find("[data-block]").Each(func(_ int, s *goquery.Selection) {
		out = append(out, s.AttrOr("data-block", ""))
	})
	return out
}

// ActiveSection is the section highlighted in the desktop navigation.
func ActiveSection(doc *goquery.Document) string {
	return doc.Find(".site-nav a.is-active").AttrOr("data-section", "")
}

// FieldValue reads the rendered value of a contact form input.
func FieldValue(doc *goquery.Document, name string) string {
	sel := doc.Find("#contact-" + name)
	if goquery.NodeName(sel) == "textarea" {
		return strings.TrimSpace(sel.Text())
	}
	return sel.AttrOr("value", "")
}
