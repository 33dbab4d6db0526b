package nav

import "github.com/JospenWolongwo/barber-shop-website/internal/site"

// Item represents a top-level navigation item.
type Item struct {
	Section  site.Section
	LabelKey string // i18n key, e.g. "nav.pricing"
}

// RenderedItem is a view model for templates.
type RenderedItem struct {
	Section  site.Section
	Href     string
	LabelKey string
	Active   bool
}

// Main is the primary navigation, in display order.
var Main = []Item{
	{Section: site.SectionHome, LabelKey: "nav.home"},
	{Section: site.SectionServices, LabelKey: "nav.services"},
	{Section: site.SectionAbout, LabelKey: "nav.about"},
	{Section: site.SectionGallery, LabelKey: "nav.gallery"},
	{Section: site.SectionPricing, LabelKey: "nav.pricing"},
	{Section: site.SectionTestimonials, LabelKey: "nav.testimonials"},
	{Section: site.SectionContact, LabelKey: "nav.contact"},
}

// Build renders navigation items with the active section highlighted.
func Build(active site.Section) []RenderedItem {
	items := make([]RenderedItem, 0, len(Main))
	for _, it := range Main {
		items = append(items, RenderedItem{
			Section:  it.Section,
			Href:     Href(it.Section),
			LabelKey: it.LabelKey,
			Active:   it.Section == active,
		})
	}
	return items
}

// BookNow is the call to action shown next to the navigation. It always leads to contact.
func BookNow() RenderedItem {
	return RenderedItem{
		Section:  site.SectionContact,
		Href:     Href(site.SectionContact),
		LabelKey: "nav.book_now",
	}
}

// Href returns the shareable URL of a section.
func Href(s site.Section) string {
	if s == site.SectionHome || s == "" {
		return "/"
	}
	return "/?section=" + string(s)
}
