package seo

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/JospenWolongwo/barber-shop-website/internal/content"
	"github.com/JospenWolongwo/barber-shop-website/internal/format"
)

// JSON marshals v to a compact JSON string. It returns an empty string on error.
func JSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// WebSite returns a minimal WebSite schema.
func WebSite(name, url string) map[string]any {
	m := map[string]any{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     name,
	}
	if url != "" {
		m["url"] = url
	}
	return m
}

var dayNames = map[string]string{
	"Mo": "Monday",
	"Tu": "Tuesday",
	"We": "Wednesday",
	"Th": "Thursday",
	"Fr": "Friday",
	"Sa": "Saturday",
	"Su": "Sunday",
}

// HairSalon describes the shop as a schema.org HairSalon (a LocalBusiness).
func HairSalon(c *content.Catalog, url string) map[string]any {
	name := c.Brand.LegalName
	if name == "" {
		name = c.Brand.Name
	}
	m := map[string]any{
		"@context": "https://schema.org",
		"@type":    "HairSalon",
		"name":     name,
	}
	if url != "" {
		m["url"] = url
	}
	if c.Hero.Image.URL != "" {
		m["image"] = c.Hero.Image.URL
	}
	if c.Contact.Phone != "" {
		m["telephone"] = c.Contact.Phone
	}
	if c.Contact.Email != "" {
		m["email"] = c.Contact.Email
	}
	if c.Brand.Founded > 0 {
		m["foundingDate"] = fmt.Sprintf("%d", c.Brand.Founded)
	}
	if c.Contact.Street != "" {
		m["address"] = map[string]any{
			"@type":           "PostalAddress",
			"streetAddress":   c.Contact.Street,
			"addressLocality": c.Contact.Locality,
			"addressRegion":   c.Contact.Region,
			"postalCode":      c.Contact.PostalCode,
			"addressCountry":  c.Contact.Country,
		}
	}
	if hours := openingHours(c.Hours); len(hours) > 0 {
		m["openingHoursSpecification"] = hours
	}
	if len(c.Pricing.Items) > 0 {
		low, high := c.PriceRange()
		m["priceRange"] = format.PriceRange(low, high, c.Pricing.Currency, "en")
	}
	if n := len(c.Testimonials.Items); n > 0 {
		m["aggregateRating"] = map[string]any{
			"@type":       "AggregateRating",
			"ratingValue": format.Rating(c.AverageRating(), "en"),
			"reviewCount": n,
			"bestRating":  5,
		}
	}
	var sameAs []string
	for _, s := range c.Social {
		if s.URL != "" {
			sameAs = append(sameAs, s.URL)
		}
	}
	if len(sameAs) > 0 {
		m["sameAs"] = sameAs
	}
	return m
}

func openingHours(rows []content.Hours) []map[string]any {
	out := make([]map[string]any, 0, len(rows))
	for _, h := range rows {
		if h.Closed() || len(h.Days) == 0 {
			continue
		}
		days := make([]string, 0, len(h.Days))
		for _, d := range h.Days {
			if full, ok := dayNames[strings.TrimSpace(d)]; ok {
				days = append(days, full)
			}
		}
		if len(days) == 0 {
			continue
		}
		out = append(out, map[string]any{
			"@type":     "OpeningHoursSpecification",
			"dayOfWeek": days,
			"opens":     h.Opens,
			"closes":    h.Closes,
		})
	}
	return out
}
