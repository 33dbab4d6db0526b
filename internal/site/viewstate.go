package site

// ViewState holds the single active section and the mobile menu flag.
type ViewState struct {
	Active   Section
	MenuOpen bool
}

// NewViewState returns the state every visitor starts with.
func NewViewState() ViewState {
	return ViewState{Active: SectionHome}
}

// SelectSection activates s and closes the mobile menu, even when s is already active.
func (v *ViewState) SelectSection(s Section) {
	v.Active = s
	v.MenuOpen = false
}

// ToggleMenu flips the mobile menu.
func (v *ViewState) ToggleMenu() {
	v.MenuOpen = !v.MenuOpen
}

// Navigator translates raw selection intents into ViewState changes.
type Navigator struct {
	state *ViewState
}

// NewNavigator binds a navigator to the state it mutates.
func NewNavigator(state *ViewState) *Navigator {
	return &Navigator{state: state}
}

// Select parses raw and activates the matching section. Unknown identifiers
// fall back to the home composite so the page never renders blank; the
// ErrInvalidSection is still returned for the caller to report.
func (n *Navigator) Select(raw string) error {
	s, err := ParseSection(raw)
	if err != nil {
		n.state.SelectSection(SectionHome)
		return err
	}
	n.state.SelectSection(s)
	return nil
}

// ToggleMenu flips the mobile menu of the bound state.
func (n *Navigator) ToggleMenu() {
	n.state.ToggleMenu()
}

// State returns a copy of the bound state.
func (n *Navigator) State() ViewState {
	return *n.state
}
