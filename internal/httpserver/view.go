package httpserver

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/JospenWolongwo/barber-shop-website/internal/content"
	"github.com/JospenWolongwo/barber-shop-website/internal/format"
	"github.com/JospenWolongwo/barber-shop-website/internal/i18n"
	custommw "github.com/JospenWolongwo/barber-shop-website/internal/middleware"
	"github.com/JospenWolongwo/barber-shop-website/internal/nav"
	"github.com/JospenWolongwo/barber-shop-website/internal/seo"
	"github.com/JospenWolongwo/barber-shop-website/internal/site"
)

// PageView is the data every page and fragment template renders from.
type PageView struct {
	Lang      string
	Locales   []string
	Site      *content.Catalog
	State     site.Snapshot
	Nav       []nav.RenderedItem
	BookNow   nav.RenderedItem
	Blocks    []site.Block
	Meta      seo.Meta
	Schemas   []map[string]any
	CSRFToken string
	Year      int
	Ack       *site.Acknowledgement

	baseURL string
	bundle  *i18n.Bundle
}

// T translates key into the page language.
func (v PageView) T(key string) string {
	return v.bundle.T(v.Lang, key)
}

// Tf translates key and formats it with args.
func (v PageView) Tf(key string, args ...any) string {
	return fmt.Sprintf(v.T(key), args...)
}

// Price formats an amount in the catalog currency.
func (v PageView) Price(minor int64) string {
	return format.Price(minor, v.Site.Pricing.Currency, v.Lang)
}

// Rating is the average testimonial rating for the summary line.
func (v PageView) Rating() string {
	return format.Rating(v.Site.AverageRating(), v.Lang)
}

// Instagram returns the instagram profile link, if the catalog has one.
func (v PageView) Instagram() string {
	for _, s := range v.Site.Social {
		if s.Network == "instagram" {
			return s.URL
		}
	}
	return ""
}

// LangHref links the current section in another language.
func (v PageView) LangHref(lang string) string {
	return withLang(nav.Href(v.State.View.Active), lang)
}

// AlternateURL is the absolute LangHref used for hreflang links.
func (v PageView) AlternateURL(lang string) string {
	return v.baseURL + v.LangHref(lang)
}

// ContactField describes one contact form input.
type ContactField struct {
	Name           string
	Type           string
	LabelKey       string
	PlaceholderKey string
	Value          string
	Multiline      bool
}

// ContactFields returns the form inputs in display order with their current values.
func (v PageView) ContactFields() []ContactField {
	fields := site.Fields()
	out := make([]ContactField, 0, len(fields))
	for _, f := range fields {
		name := string(f)
		cf := ContactField{
			Name:           name,
			Type:           "text",
			LabelKey:       "contact." + name + "_label",
			PlaceholderKey: "contact." + name + "_placeholder",
			Value:          v.State.Form.Value(f),
		}
		switch f {
		case site.FieldEmail:
			cf.Type = "email"
		case site.FieldPhone:
			cf.Type = "tel"
		case site.FieldMessage:
			cf.Multiline = true
		}
		out = append(out, cf)
	}
	return out
}

func withLang(href, lang string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	q := u.Query()
	q.Set("hl", lang)
	u.RawQuery = q.Encode()
	return u.String()
}

// view assembles the PageView for the visitor's current snapshot.
func (s *server) view(r *http.Request, snap site.Snapshot) (PageView, error) {
	blocks, err := site.Render(snap.View.Active)
	if err != nil {
		return PageView{}, err
	}
	lang := custommw.Lang(r.Context(), s.bundle.Fallback())
	catalog := s.content.Catalog()

	title := s.bundle.T(lang, "site.title")
	if snap.View.Active != site.SectionHome {
		title = s.bundle.T(lang, "nav."+snap.View.Active.String()) + " | " + title
	}
	meta := seo.Page(seo.PageInput{
		BaseURL:     s.baseURL,
		Section:     snap.View.Active,
		Title:       title,
		Description: s.bundle.T(lang, "site.description"),
		Image:       catalog.Hero.Image.URL,
		Lang:        lang,
	})

	return PageView{
		Lang:      lang,
		Locales:   s.bundle.Supported(),
		Site:      catalog,
		State:     snap,
		Nav:       nav.Build(snap.View.Active),
		BookNow:   nav.BookNow(),
		Blocks:    blocks,
		Meta:      meta,
		Schemas:   []map[string]any{seo.WebSite(catalog.Brand.LegalName, s.baseURL+"/"), seo.HairSalon(catalog, s.baseURL+"/")},
		CSRFToken: custommw.CSRFTokenFromContext(r.Context()),
		Year:      format.Year(s.now()),
		baseURL:   s.baseURL,
		bundle:    s.bundle,
	}, nil
}
