package utils

// Message keys.
const (
	MsgInvalidName       = "invalid_name"
	MsgInvalidEmail      = "invalid_email"
	MsgInvalidPhone      = "invalid_phone"
	MsgInvalidSubject    = "invalid_subject"
	MsgInvalidMessage    = "invalid_message"
	MsgInvalidForm       = "invalid_form"
	MsgInvalidCSRF       = "invalid_csrf"
	MsgValidationPrefix  = "validation_prefix"
	MsgRateLimited       = "rate_limited"
	MsgSubmissionSuccess = "submission_success"
	MsgSecurityError     = "security_error"
)

var catalog = map[string]map[string]string{
	"fr": {
		MsgInvalidName:       "Le nom doit contenir entre 2 et 100 caractères (lettres uniquement)",
		MsgInvalidEmail:      "Email invalide",
		MsgInvalidPhone:      "Numéro de téléphone invalide",
		MsgInvalidSubject:    "Sujet invalide",
		MsgInvalidMessage:    "Le message doit contenir entre 10 et 5000 caractères et ne pas contenir de code malveillant",
		MsgInvalidForm:       "Formulaire invalide",
		MsgInvalidCSRF:       "Jeton de sécurité invalide",
		MsgValidationPrefix:  "Erreurs de validation : ",
		MsgRateLimited:       "Trop de tentatives. Veuillez réessayer après %s.",
		MsgSubmissionSuccess: "Merci pour votre message ! Nous vous répondrons dans les plus brefs délais.",
		MsgSecurityError:     "Erreur de sécurité. Veuillez recharger la page.",
	},
	"en": {
		MsgInvalidName:       "Name must be 2 to 100 characters long (letters only)",
		MsgInvalidEmail:      "Invalid email",
		MsgInvalidPhone:      "Invalid phone number",
		MsgInvalidSubject:    "Invalid subject",
		MsgInvalidMessage:    "Message must be 10 to 5000 characters long and must not contain malicious code",
		MsgInvalidForm:       "Invalid form",
		MsgInvalidCSRF:       "Invalid security token",
		MsgValidationPrefix:  "Validation errors: ",
		MsgRateLimited:       "Too many attempts. Please try again after %s.",
		MsgSubmissionSuccess: "Thank you for your message! We will get back to you shortly.",
		MsgSecurityError:     "Security error. Please reload the page.",
	},
}

// DefaultLocale is used for unknown locales and missing keys.
const DefaultLocale = "fr"

// Message returns the text for key in locale.
func Message(locale, key string) string {
	if msgs, ok := catalog[locale]; ok {
		if msg, ok := msgs[key]; ok {
			return msg
		}
	}
	return catalog[DefaultLocale][key]
}

// FieldMessageKeys maps contact form fields to their validation message.
var FieldMessageKeys = map[string]string{
	"name":    MsgInvalidName,
	"email":   MsgInvalidEmail,
	"phone":   MsgInvalidPhone,
	"subject": MsgInvalidSubject,
	"message": MsgInvalidMessage,
}
