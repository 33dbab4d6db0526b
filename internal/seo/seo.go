package seo

import (
	"strings"

	"github.com/JospenWolongwo/barber-shop-website/internal/nav"
	"github.com/JospenWolongwo/barber-shop-website/internal/site"
)

type OpenGraph struct {
	Title       string
	Description string
	Image       string
	Type        string
	URL         string
	Locale      string
}

type Twitter struct {
	Card  string
	Image string
}

type Meta struct {
	Title       string
	Description string
	Canonical   string
	OG          OpenGraph
	Twitter     Twitter
}

// PageInput carries what Page needs to describe the current view.
type PageInput struct {
	BaseURL     string
	Section     site.Section
	Title       string
	Description string
	Image       string
	Lang        string
}

// Page builds the meta tags for a section view. The canonical URL is the
// section's shareable link.
func Page(in PageInput) Meta {
	canonical := strings.TrimRight(in.BaseURL, "/") + nav.Href(in.Section)
	locale := "en_US"
	if in.Lang == "es" {
		locale = "es_ES"
	}
	return Meta{
		Title:       in.Title,
		Description: in.Description,
		Canonical:   canonical,
		OG: OpenGraph{
			Title:       in.Title,
			Description: in.Description,
			Image:       in.Image,
			Type:        "website",
			URL:         canonical,
			Locale:      locale,
		},
		Twitter: Twitter{
			Card:  "summary_large_image",
			Image: in.Image,
		},
	}
}
