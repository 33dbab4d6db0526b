package site

import (
	"fmt"
	"strings"
)

// Image is a gallery picture that can be enlarged in the modal.
type Image struct {
	URL   string
	Label string
}

// GalleryModal tracks at most one enlarged image. The modal is visible
// exactly when an image is selected.
type GalleryModal struct {
	selected *Image
}

// Open selects img, replacing any previous selection.
func (m *GalleryModal) Open(img Image) {
	m.selected = &img
}

// Close clears the selection.
func (m *GalleryModal) Close() {
	m.selected = nil
}

// Selected returns the enlarged image, if any.
func (m *GalleryModal) Selected() (Image, bool) {
	if m.selected == nil {
		return Image{}, false
	}
	return *m.selected, true
}

// Visible reports whether the modal is shown.
func (m *GalleryModal) Visible() bool {
	return m.selected != nil
}

// ClickTarget names the modal element a click landed on.
type ClickTarget string

const (
	TargetBackdrop     ClickTarget = "backdrop"
	TargetCloseControl ClickTarget = "close"
	TargetImage        ClickTarget = "image"
)

// ParseClickTarget maps the wire value sent by the modal markup.
func ParseClickTarget(raw string) (ClickTarget, error) {
	t := ClickTarget(strings.ToLower(strings.TrimSpace(raw)))
	switch t {
	case TargetBackdrop, TargetCloseControl, TargetImage:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownClickTarget, raw)
}

// Dismisses reports whether a click on t closes the modal.
func (t ClickTarget) Dismisses() bool {
	return t == TargetBackdrop || t == TargetCloseControl
}

// HandleClick closes the modal for backdrop and close-control clicks. A click
// on the enlarged image itself leaves the selection untouched.
func (m *GalleryModal) HandleClick(t ClickTarget) {
	if t.Dismisses() {
		m.Close()
	}
}
