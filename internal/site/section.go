package site

import (
	"fmt"
	"strings"
)

// Section identifies one of the navigable views of the page.
type Section string

const (
	SectionHome         Section = "home"
	SectionServices     Section = "services"
	SectionAbout        Section = "about"
	SectionGallery      Section = "gallery"
	SectionPricing      Section = "pricing"
	SectionTestimonials Section = "testimonials"
	SectionContact      Section = "contact"
)

var allSections = []Section{
	SectionHome,
	SectionServices,
	SectionAbout,
	SectionGallery,
	SectionPricing,
	SectionTestimonials,
	SectionContact,
}

// Sections returns every section in navigation order.
func Sections() []Section {
	out := make([]Section, len(allSections))
	copy(out, allSections)
	return out
}

// ParseSection maps a wire identifier to a Section.
func ParseSection(raw string) (Section, error) {
	s := Section(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidSection, raw)
	}
	return s, nil
}

// Valid reports whether s is one of the known sections.
func (s Section) Valid() bool {
	switch s {
	case SectionHome, SectionServices, SectionAbout, SectionGallery,
		SectionPricing, SectionTestimonials, SectionContact:
		return true
	}
	return false
}

func (s Section) String() string { return string(s) }

// Block is a renderable piece of the page. Every section except home maps to
// exactly one block; the hero only appears inside the home composite.
type Block string

const (
	BlockHero         Block = "hero"
	BlockServices     Block = "services"
	BlockAbout        Block = "about"
	BlockGallery      Block = "gallery"
	BlockPricing      Block = "pricing"
	BlockTestimonials Block = "testimonials"
	BlockContact      Block = "contact"
)

// Render returns the ordered blocks to display for the active section.
// Home yields the composite view, which intentionally leaves out contact.
func Render(active Section) ([]Block, error) {
	switch active {
	case SectionHome:
		return []Block{
			BlockHero,
			BlockServices,
			BlockAbout,
			BlockGallery,
			BlockPricing,
			BlockTestimonials,
		}, nil
	case SectionServices:
		return []Block{BlockServices}, nil
	case SectionAbout:
		return []Block{BlockAbout}, nil
	case SectionGallery:
		return []Block{BlockGallery}, nil
	case SectionPricing:
		return []Block{BlockPricing}, nil
	case SectionTestimonials:
		return []Block{BlockTestimonials}, nil
	case SectionContact:
		return []Block{BlockContact}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidSection, string(active))
}

// BlockFor returns the single block backing a non-home section.
func BlockFor(s Section) (Block, error) {
	if s == SectionHome {
		return "", fmt.Errorf("%w: home is a composite view", ErrInvalidSection)
	}
	blocks, err := Render(s)
	if err != nil {
		return "", err
	}
	return blocks[0], nil
}
