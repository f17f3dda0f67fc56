package models

// Client carries the client-observable signals of a request.
type Client struct {
	IP        string `json:"ip,omitempty"`
	UserAgent string `json:"userAgent"`
	URL       string `json:"url"`
	Referrer  string `json:"referrer"`
}

// SecureSubmission is an accepted contact form with every field escaped.
type SecureSubmission struct {
	ID        int64  `json:"id" db:"id"`
	Name      string `json:"name" db:"name"`
	Email     string `json:"email" db:"email"`
	Phone     string `json:"phone" db:"phone"`
	Subject   string `json:"subject" db:"subject"`
	Message   string `json:"message" db:"message"`
	CSRFToken string `json:"csrf_token" db:"csrf_token"`
	Timestamp int64  `json:"timestamp" db:"submitted_at"`
}

type ErrorPageData struct {
	Title       string
	StatusCode  int
	Message     string
	Description string
	Technical   string
	RetryURL    string
	ErrorID     string
}
