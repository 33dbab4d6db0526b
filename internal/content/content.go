package content

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/url"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"

	"github.com/JospenWolongwo/barber-shop-website/internal/site"
)

// DefaultPath is the location of the site catalog inside the ui filesystem.
const DefaultPath = "content/site.yaml"

// ErrInvalidContent is returned when the catalog parses but fails validation.
var ErrInvalidContent = errors.New("content: invalid catalog")

// Catalog is the static copy, imagery and price list rendered on the page.
type Catalog struct {
	Brand        Brand        `yaml:"brand"`
	Hero         Hero         `yaml:"hero"`
	InfoBar      []InfoItem   `yaml:"info_bar"`
	Services     []Service    `yaml:"services"`
	About        About        `yaml:"about"`
	Gallery      []Photo      `yaml:"gallery"`
	Pricing      Pricing      `yaml:"pricing"`
	Testimonials Testimonials `yaml:"testimonials"`
	Contact      Contact      `yaml:"contact"`
	Hours        []Hours      `yaml:"hours"`
	Social       []SocialLink `yaml:"social"`
	Footer       Footer       `yaml:"footer"`
}

// Brand identifies the business.
type Brand struct {
	Name      string `yaml:"name"`
	Tagline   string `yaml:"tagline"`
	LegalName string `yaml:"legal_name"`
	Founded   int    `yaml:"founded"`
}

// Photo is an image reference with its accessible label.
type Photo struct {
	URL   string `yaml:"url"`
	Label string `yaml:"label"`
}

// Image converts the photo into the gallery modal's image type.
func (p Photo) Image() site.Image {
	return site.Image{URL: p.URL, Label: p.Label}
}

// Hero is the landing banner.
type Hero struct {
	Eyebrow  string `yaml:"eyebrow"`
	Headline string `yaml:"headline"`
	Tagline  string `yaml:"tagline"`
	Image    Photo  `yaml:"image"`
}

// InfoItem is one cell of the business info bar under the hero.
type InfoItem struct {
	Icon   string `yaml:"icon"`
	Title  string `yaml:"title"`
	Detail string `yaml:"detail"`
}

// Service is a headline grooming offer.
type Service struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// About holds the shop story. Story is markdown; StoryHTML is its sanitised rendering.
type About struct {
	Heading    string        `yaml:"heading"`
	Experience string        `yaml:"experience"`
	Image      Photo         `yaml:"image"`
	Story      string        `yaml:"story"`
	Pillars    []Pillar      `yaml:"pillars"`
	StoryHTML  template.HTML `yaml:"-"`
}

// Pillar is a short mission/approach statement.
type Pillar struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

// Pricing is the price list.
type Pricing struct {
	Currency   string      `yaml:"currency"`
	Intro      string      `yaml:"intro"`
	Items      []PriceItem `yaml:"items"`
	Membership string      `yaml:"membership"`
}

// PriceItem is one row of the price list. Prices are in minor units.
type PriceItem struct {
	Service         string `yaml:"service"`
	PriceCents      int64  `yaml:"price_cents"`
	DurationMinutes int    `yaml:"duration_minutes"`
}

// Testimonials lists customer reviews.
type Testimonials struct {
	ReviewsURL string        `yaml:"reviews_url"`
	Items      []Testimonial `yaml:"items"`
}

// Testimonial is a single review.
type Testimonial struct {
	Name   string `yaml:"name"`
	Rating int    `yaml:"rating"`
	Text   string `yaml:"text"`
}

// Contact is the shop's address and reachability.
type Contact struct {
	Intro      string   `yaml:"intro"`
	Address    []string `yaml:"address"`
	Street     string   `yaml:"street"`
	Locality   string   `yaml:"locality"`
	Region     string   `yaml:"region"`
	PostalCode string   `yaml:"postal_code"`
	Country    string   `yaml:"country"`
	Phone      string   `yaml:"phone"`
	Email      string   `yaml:"email"`
}

// Hours is a row of the opening hours table. Days/Opens/Closes are empty for closed days.
type Hours struct {
	Label  string   `yaml:"label"`
	Value  string   `yaml:"value"`
	Days   []string `yaml:"days"`
	Opens  string   `yaml:"opens"`
	Closes string   `yaml:"closes"`
}

// Closed reports whether the row describes a closed day.
func (h Hours) Closed() bool { return h.Opens == "" || h.Closes == "" }

// SocialLink points to a social network profile.
type SocialLink struct {
	Network string `yaml:"network"`
	URL     string `yaml:"url"`
}

// Footer holds the footer copy.
type Footer struct {
	Blurb        string        `yaml:"blurb"`
	ServiceLinks []string      `yaml:"service_links"`
	BlurbHTML    template.HTML `yaml:"-"`
}

// Images returns the gallery as modal images.
func (c *Catalog) Images() []site.Image {
	out := make([]site.Image, 0, len(c.Gallery))
	for _, p := range c.Gallery {
		out = append(out, p.Image())
	}
	return out
}

// GalleryImage returns the gallery image at index.
func (c *Catalog) GalleryImage(index int) (site.Image, bool) {
	if index < 0 || index >= len(c.Gallery) {
		return site.Image{}, false
	}
	return c.Gallery[index].Image(), true
}

// AverageRating returns the mean testimonial rating, or 0 without reviews.
func (c *Catalog) AverageRating() float64 {
	if len(c.Testimonials.Items) == 0 {
		return 0
	}
	total := 0
	for _, t := range c.Testimonials.Items {
		total += t.Rating
	}
	return float64(total) / float64(len(c.Testimonials.Items))
}

// PriceRange returns the lowest and highest price in minor units.
func (c *Catalog) PriceRange() (low, high int64) {
	for i, item := range c.Pricing.Items {
		if i == 0 || item.PriceCents < low {
			low = item.PriceCents
		}
		if item.PriceCents > high {
			high = item.PriceCents
		}
	}
	return low, high
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.Typographer))

var htmlPolicy = newHTMLPolicy()

func newHTMLPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.RequireNoFollowOnLinks(true)
	return policy
}

// Parse decodes, renders and validates a catalog document.
func Parse(raw []byte) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("content: decode catalog: %w", err)
	}
	var err error
	if c.About.StoryHTML, err = renderMarkdown(c.About.Story); err != nil {
		return nil, fmt.Errorf("content: render about story: %w", err)
	}
	if c.Footer.BlurbHTML, err = renderMarkdown(c.Footer.Blurb); err != nil {
		return nil, fmt.Errorf("content: render footer blurb: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Load reads and parses the catalog at path within fsys.
func Load(fsys fs.FS, path string) (*Catalog, error) {
	if path == "" {
		path = DefaultPath
	}
	raw, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("content: read %s: %w", path, err)
	}
	return Parse(raw)
}

func renderMarkdown(src string) (template.HTML, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return template.HTML(strings.TrimSpace(htmlPolicy.Sanitize(buf.String()))), nil
}

// Validate checks the invariants templates rely on.
func (c *Catalog) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if strings.TrimSpace(c.Brand.Name) == "" {
		add("brand.name is required")
	}
	if !isAbsoluteURL(c.Hero.Image.URL) {
		add("hero.image.url must be an absolute http(s) URL")
	}
	if len(c.Services) == 0 {
		add("services must not be empty")
	}
	for i, s := range c.Services {
		if strings.TrimSpace(s.Title) == "" {
			add("services[%d].title is required", i)
		}
	}
	if len(c.Gallery) == 0 {
		add("gallery must not be empty")
	}
	for i, p := range c.Gallery {
		if !isAbsoluteURL(p.URL) {
			add("gallery[%d].url must be an absolute http(s) URL", i)
		}
		if strings.TrimSpace(p.Label) == "" {
			add("gallery[%d].label is required", i)
		}
	}
	if len(c.Pricing.Items) == 0 {
		add("pricing.items must not be empty")
	}
	for i, item := range c.Pricing.Items {
		if item.PriceCents <= 0 {
			add("pricing.items[%d].price_cents must be positive", i)
		}
		if item.DurationMinutes <= 0 {
			add("pricing.items[%d].duration_minutes must be positive", i)
		}
	}
	for i, t := range c.Testimonials.Items {
		if t.Rating < 1 || t.Rating > 5 {
			add("testimonials.items[%d].rating must be between 1 and 5", i)
		}
	}
	for i, h := range c.Hours {
		if (h.Opens == "") != (h.Closes == "") {
			add("hours[%d] needs both opens and closes, or neither", i)
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidContent, strings.Join(problems, "; "))
	}
	return nil
}

func isAbsoluteURL(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Store holds the current catalog and can reload it from its source.
type Store struct {
	mu      sync.RWMutex
	fsys    fs.FS
	path    string
	catalog *Catalog
}

// NewStore loads the catalog once and keeps the source for reloads.
func NewStore(fsys fs.FS, path string) (*Store, error) {
	c, err := Load(fsys, path)
	if err != nil {
		return nil, err
	}
	return &Store{fsys: fsys, path: path, catalog: c}, nil
}

// Catalog returns the current catalog.
func (s *Store) Catalog() *Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog
}

// Reload re-reads the source. On error the previous catalog stays in place.
func (s *Store) Reload() error {
	c, err := Load(s.fsys, s.path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.catalog = c
	s.mu.Unlock()
	return nil
}
