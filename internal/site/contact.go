package site

import (
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// Field names one of the contact form inputs.
type Field string

const (
	FieldName    Field = "name"
	FieldEmail   Field = "email"
	FieldPhone   Field = "phone"
	FieldMessage Field = "message"
)

// Fields lists the contact form inputs in display order.
func Fields() []Field {
	return []Field{FieldName, FieldEmail, FieldPhone, FieldMessage}
}

// ParseField maps a form input id to a Field.
func ParseField(raw string) (Field, error) {
	f := Field(strings.ToLower(strings.TrimSpace(raw)))
	switch f {
	case FieldName, FieldEmail, FieldPhone, FieldMessage:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, raw)
}

// ContactForm holds the four free-text inputs. No field is validated.
type ContactForm struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

// SetField replaces exactly one field, leaving the others untouched.
func (f *ContactForm) SetField(raw, value string) error {
	field, err := ParseField(raw)
	if err != nil {
		return err
	}
	switch field {
	case FieldName:
		f.Name = value
	case FieldEmail:
		f.Email = value
	case FieldPhone:
		f.Phone = value
	case FieldMessage:
		f.Message = value
	}
	return nil
}

// Value returns the current content of field.
func (f ContactForm) Value(field Field) string {
	switch field {
	case FieldName:
		return f.Name
	case FieldEmail:
		return f.Email
	case FieldPhone:
		return f.Phone
	case FieldMessage:
		return f.Message
	}
	return ""
}

// Empty reports whether every field is blank.
func (f ContactForm) Empty() bool {
	return f == ContactForm{}
}

// Acknowledgement is returned synchronously to the visitor after a submit.
type Acknowledgement struct {
	Reference   string
	SubmittedAt time.Time
	Submitted   ContactForm
}

// Submit acknowledges the message and resets every field. It never fails:
// nothing is validated and nothing leaves the process.
func (f *ContactForm) Submit(now time.Time) Acknowledgement {
	ack := Acknowledgement{
		Reference:   ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		SubmittedAt: now.UTC(),
		Submitted:   *f,
	}
	*f = ContactForm{}
	return ack
}
