package site

import (
	"fmt"
	"sync"
	"time"
)

// VisitorOptions configures the state created for a new visitor.
type VisitorOptions struct {
	Scheduler    Scheduler
	LoadingDelay time.Duration
	Now          func() time.Time
}

// Visitor is the complete UI state of one page session. Every method takes
// the visitor lock, so interactions are applied one at a time.
type Visitor struct {
	mu       sync.Mutex
	id       string
	view     ViewState
	nav      *Navigator
	gallery  GalleryModal
	form     ContactForm
	formRev  uint64
	gate     *LoadingGate
	now      func() time.Time
	created  time.Time
	lastSeen time.Time
	closed   bool
}

// Snapshot is a point-in-time copy of a visitor's state for rendering.
type Snapshot struct {
	ID       string
	View     ViewState
	Image    Image
	HasImage bool
	Form     ContactForm
	// FormRev counts submits; inputs rendered with an older value are stale.
	FormRev uint64
	Loading bool
}

// NewVisitor creates the initial state: home section, menu closed, no image,
// empty form and a loading gate that opens after opts.LoadingDelay.
func NewVisitor(id string, opts VisitorOptions) *Visitor {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	v := &Visitor{
		id:   id,
		view: NewViewState(),
		gate: NewLoadingGate(opts.Scheduler, opts.LoadingDelay),
		now:  now,
	}
	v.nav = NewNavigator(&v.view)
	v.created = now()
	v.lastSeen = v.created
	return v
}

// ID returns the visitor identifier.
func (v *Visitor) ID() string { return v.id }

// Snapshot copies the current state.
func (v *Visitor) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	img, ok := v.gallery.Selected()
	return Snapshot{
		ID:       v.id,
		View:     v.view,
		Image:    img,
		HasImage: ok,
		Form:     v.form,
		FormRev:  v.formRev,
		Loading:  v.gate.IsLoading(),
	}
}

// SelectSection navigates to raw. On ErrInvalidSection the visitor is left on
// the home composite.
func (v *Visitor) SelectSection(raw string) (ViewState, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	err := v.nav.Select(raw)
	return v.view, err
}

// ToggleMenu flips the mobile menu.
func (v *Visitor) ToggleMenu() ViewState {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.nav.ToggleMenu()
	return v.view
}

// OpenImage enlarges img in the gallery modal.
func (v *Visitor) OpenImage(img Image) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.gallery.Open(img)
}

// ClickGallery applies a click on the modal and returns the remaining selection.
func (v *Visitor) ClickGallery(t ClickTarget) (Image, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.gallery.HandleClick(t)
	return v.gallery.Selected()
}

// SetField updates one contact form input.
func (v *Visitor) SetField(field, value string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.form.SetField(field, value)
}

// SetFieldAt updates one contact form input on behalf of a form rendered at
// rev. Updates from before the latest submit return ErrStaleForm and change nothing.
func (v *Visitor) SetFieldAt(rev uint64, field, value string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if rev != v.formRev {
		return fmt.Errorf("%w: revision %d, current %d", ErrStaleForm, rev, v.formRev)
	}
	return v.form.SetField(field, value)
}

// SubmitContact acknowledges and clears the contact form.
func (v *Visitor) SubmitContact() Acknowledgement {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.formRev++
	return v.form.Submit(v.now())
}

// Loading reports whether the splash screen is still up.
func (v *Visitor) Loading() bool {
	return v.gate.IsLoading()
}

// LoadingDone is closed once the splash screen has finished.
func (v *Visitor) LoadingDone() <-chan struct{} {
	return v.gate.Done()
}

// Touch records activity at t.
func (v *Visitor) Touch(t time.Time) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if t.After(v.lastSeen) {
		v.lastSeen = t
	}
}

// LastSeen returns the time of the most recent activity.
func (v *Visitor) LastSeen() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastSeen
}

// CreatedAt returns when the visitor was created.
func (v *Visitor) CreatedAt() time.Time { return v.created }

// Close tears the visitor down and cancels any pending loading task.
func (v *Visitor) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.closed = true
	v.gate.Teardown()
}

// Closed reports whether Close has been called.
func (v *Visitor) Closed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closed
}
