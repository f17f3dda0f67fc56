package requests

import (
	"github.com/oarkflow/contact/pkg/security"
	"github.com/oarkflow/contact/pkg/utils"
)

type ContactRequest struct {
	Name      string `json:"name" form:"name" validate:"contact_name"`
	Email     string `json:"email" form:"email" validate:"contact_email"`
	Phone     string `json:"phone" form:"phone" validate:"contact_phone"`
	Subject   string `json:"subject" form:"subject" validate:"contact_subject"`
	Message   string `json:"message" form:"message" validate:"contact_message"`
	CSRFToken string `json:"csrf_token" form:"csrf_token"`
}

// Trimmed returns a copy with surrounding whitespace removed from every field.
func (r ContactRequest) Trimmed() ContactRequest {
	return ContactRequest{
		Name:      security.Trim(r.Name),
		Email:     security.Trim(r.Email),
		Phone:     security.Trim(r.Phone),
		Subject:   security.Trim(r.Subject),
		Message:   security.Trim(r.Message),
		CSRFToken: security.Trim(r.CSRFToken),
	}
}

// Old returns the values to flash back into the form after a rejection.
func (r ContactRequest) Old() map[string]any {
	return map[string]any{
		"name":    r.Name,
		"email":   r.Email,
		"phone":   r.Phone,
		"subject": r.Subject,
		"message": r.Message,
	}
}

// Messages maps rejected field names to their localized error messages,
// keeping the order of fields.
func Messages(locale string, fields []string) []string {
	messages := make([]string, 0, len(fields))
	for _, field := range fields {
		key, ok := utils.FieldMessageKeys[field]
		if !ok {
			key = utils.MsgInvalidForm
		}
		messages = append(messages, utils.Message(locale, key))
	}
	return messages
}

// Validate returns the localized errors for r, nil when it is acceptable.
func Validate(v *security.FormValidator, locale string, r ContactRequest) []string {
	fields := v.Invalid(r)
	if len(fields) == 0 {
		return nil
	}
	return Messages(locale, fields)
}
