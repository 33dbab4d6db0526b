package seo

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JospenWolongwo/barber-shop-website/internal/content"
	"github.com/JospenWolongwo/barber-shop-website/internal/site"
)

func TestPageCanonicalFollowsSection(t *testing.T) {
	t.Parallel()

	m := Page(PageInput{BaseURL: "https://primecuts.example.com/", Section: site.SectionPricing, Title: "Pricing", Lang: "es"})
	require.Equal(t, "https://primecuts.example.com/?section=pricing", m.Canonical)
	require.Equal(t, m.Canonical, m.OG.URL)
	require.Equal(t, "es_ES", m.OG.Locale)

	home := Page(PageInput{BaseURL: "https://primecuts.example.com", Section: site.SectionHome})
	require.Equal(t, "https://primecuts.example.com/", home.Canonical)
}

func TestHairSalonFromShippedCatalog(t *testing.T) {
	t.Parallel()

	c, err := content.Load(os.DirFS("../../ui"), content.DefaultPath)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(JSON(HairSalon(c, "https://primecuts.example.com"))), &doc))

	require.Equal(t, "HairSalon", doc["@type"])
	require.Equal(t, "Prime Cuts Barbershop", doc["name"])
	require.Equal(t, "$15 - $75", doc["priceRange"])
	require.Equal(t, "+1 (555) 123-4567", doc["telephone"])

	rating := doc["aggregateRating"].(map[string]any)
	require.Equal(t, "5.0", rating["ratingValue"])
	require.EqualValues(t, 3, rating["reviewCount"])

	hours := doc["openingHoursSpecification"].([]any)
	require.Len(t, hours, 2)
	first := hours[0].(map[string]any)
	require.Equal(t, "09:00", first["opens"])
	require.Len(t, first["dayOfWeek"], 5)

	address := doc["address"].(map[string]any)
	require.Equal(t, "10001", address["postalCode"])
}
