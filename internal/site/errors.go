package site

import "errors"

var (
	// ErrInvalidSection is returned when a navigation target is not one of the known sections.
	ErrInvalidSection = errors.New("site: invalid section")
	// ErrUnknownField is returned when a contact form update names a field the form does not have.
	ErrUnknownField = errors.New("site: unknown contact field")
	// ErrUnknownClickTarget is returned for gallery clicks on an element the modal does not recognise.
	ErrUnknownClickTarget = errors.New("site: unknown click target")
	// ErrStaleForm is returned for a field update rendered before the last submit.
	ErrStaleForm = errors.New("site: contact form already submitted")
)
