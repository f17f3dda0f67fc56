package contact

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/oarkflow/squealx/drivers/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oarkflow/contact/pkg/libs"
	"github.com/oarkflow/contact/pkg/models"
	"github.com/oarkflow/contact/pkg/security"
	"github.com/oarkflow/contact/pkg/storage"
	"github.com/oarkflow/contact/pkg/utils"
)

var csrfField = regexp.MustCompile(`name="csrf_token" value="([0-9a-f]{64})"`)

type testClient struct {
	t       *testing.T
	app     *fiber.App
	cookies map[string]*http.Cookie
}

func newTestPlugin(t *testing.T, mutate func(*libs.Config), opts ...Option) (*Plugin, *testClient) {
	t.Helper()
	cfg := libs.DefaultConfig()
	cfg.Location = time.UTC
	if mutate != nil {
		mutate(cfg)
	}
	p := NewPluginWithOptions(append([]Option{WithConfig(cfg)}, opts...)...)
	require.NoError(t, p.Register())
	return p, &testClient{t: t, app: p.App, cookies: map[string]*http.Cookie{}}
}

func (c *testClient) do(req *http.Request) *http.Response {
	c.t.Helper()
	for _, cookie := range c.cookies {
		req.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
	}
	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)
	for _, cookie := range resp.Cookies() {
		expired := !cookie.Expires.IsZero() && cookie.Expires.Before(time.Now())
		if cookie.Value == "" || cookie.MaxAge < 0 || expired {
			delete(c.cookies, cookie.Name)
			continue
		}
		c.cookies[cookie.Name] = cookie
	}
	return resp
}

func (c *testClient) get(target, accept string) *http.Response {
	req := httptest.NewRequest(fiber.MethodGet, target, nil)
	if accept != "" {
		req.Header.Set(fiber.HeaderAccept, accept)
	}
	return c.do(req)
}

func (c *testClient) postJSON(body map[string]string) *http.Response {
	raw, err := json.Marshal(body)
	require.NoError(c.t, err)
	req := httptest.NewRequest(fiber.MethodPost, "/contact", strings.NewReader(string(raw)))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	return c.do(req)
}

func (c *testClient) postForm(values url.Values) *http.Response {
	req := httptest.NewRequest(fiber.MethodPost, "/contact", strings.NewReader(values.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	req.Header.Set(fiber.HeaderAccept, fiber.MIMETextHTML)
	return c.do(req)
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(raw)
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal([]byte(readBody(t, resp)), v))
}

func validPayload() map[string]string {
	return map[string]string{
		"name":    "Jean Dupont",
		"email":   "jean@example.com",
		"phone":   "+226 70 12 34 56",
		"subject": "service",
		"message": "Bonjour, je voudrais plus d'informations.",
	}
}

func TestContactPage(t *testing.T) {
	_, client := newTestPlugin(t, nil)

	resp := client.get("/contact", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Contains(t, client.cookies, "contact_session")

	body := readBody(t, resp)
	match := csrfField.FindStringSubmatch(body)
	require.Len(t, match, 2, "page carries the hidden csrf field")

	again := readBody(t, client.get("/", ""))
	assert.Contains(t, again, match[1], "token is reused within the session")
}

func TestContactPageJSON(t *testing.T) {
	_, client := newTestPlugin(t, nil)
	var body struct {
		Token string `json:"csrf_token"`
	}
	decode(t, client.get("/contact", fiber.MIMEApplicationJSON), &body)
	assert.Regexp(t, `^[0-9a-f]{64}$`, body.Token)
}

func TestPostContactJSON(t *testing.T) {
	_, client := newTestPlugin(t, nil)

	resp := client.postJSON(validPayload())
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var accepted struct {
		State   string                  `json:"state"`
		Message string                  `json:"message"`
		Data    models.SecureSubmission `json:"data"`
	}
	decode(t, resp, &accepted)
	assert.Equal(t, string(libs.StateAccepted), accepted.State)
	assert.Equal(t, "Bonjour, je voudrais plus d&#x27;informations.", accepted.Data.Message)
	assert.Regexp(t, `^[0-9a-f]{64}$`, accepted.Data.CSRFToken)

	invalid := validPayload()
	invalid["email"] = "nope"
	resp = client.postJSON(invalid)
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	var rejected struct {
		State  string   `json:"state"`
		Errors []string `json:"errors"`
	}
	decode(t, resp, &rejected)
	assert.Equal(t, string(libs.StateValidationFailed), rejected.State)
	assert.Equal(t, []string{"Email invalide"}, rejected.Errors)
}

func TestPostContactRateLimited(t *testing.T) {
	_, client := newTestPlugin(t, nil)
	for i := 0; i < 5; i++ {
		require.Equal(t, fiber.StatusOK, client.postJSON(validPayload()).StatusCode)
	}

	resp := client.postJSON(validPayload())
	require.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderRetryAfter))
	var body struct {
		State      string `json:"state"`
		Message    string `json:"message"`
		RetryAfter int    `json:"retry_after"`
		ResetTime  string `json:"reset_time"`
	}
	decode(t, resp, &body)
	assert.Equal(t, string(libs.StateRateLimited), body.State)
	assert.True(t, strings.HasPrefix(body.Message, "Trop de tentatives. Veuillez réessayer après "))
	assert.Greater(t, body.RetryAfter, 0)
	assert.NotEmpty(t, body.ResetTime)
}

func TestPostContactFormRedirects(t *testing.T) {
	p, client := newTestPlugin(t, nil)
	client.get("/contact", "")

	values := url.Values{}
	for key, value := range validPayload() {
		values.Set(key, value)
	}
	resp := client.postForm(values)
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/contact", resp.Header.Get(fiber.HeaderLocation))

	body := readBody(t, client.get("/contact", ""))
	assert.Contains(t, body, "Merci pour votre message ! Nous vous répondrons dans les plus brefs délais.")
	assert.Contains(t, body, `class="form-message success"`)
	assert.NotContains(t, body, "jean@example.com", "accepted input is not flashed back")

	entries := p.Manager.Logger.Entries()
	require.NotEmpty(t, entries)
	assert.Equal(t, security.EventFormSubmissionSuccess, entries[len(entries)-1].Event)
}

func TestPostContactFormKeepsInputOnFailure(t *testing.T) {
	_, client := newTestPlugin(t, nil)
	client.get("/contact", "")

	values := url.Values{}
	for key, value := range validPayload() {
		values.Set(key, value)
	}
	values.Set("name", "A")
	resp := client.postForm(values)
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)

	body := readBody(t, client.get("/contact", ""))
	assert.Contains(t, body, "Erreurs de validation : Le nom doit contenir entre 2 et 100 caractères (lettres uniquement)")
	assert.Contains(t, body, `class="form-message error"`)
	assert.Contains(t, body, `value="jean@example.com"`)
	assert.Contains(t, body, `<option value="service" selected>`)
}

func TestSuspiciousRequestRejected(t *testing.T) {
	p, client := newTestPlugin(t, nil)

	resp := client.get("/contact?q=%3Cscript%3E", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, utils.Message(utils.DefaultLocale, utils.MsgSecurityError))
	assert.Contains(t, body, `<pre class="error-technical">The request contains invalid characters.</pre>`)
	assert.Regexp(t, `Référence : ERR-\d+-400`, body)

	entries := p.Manager.Logger.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, security.EventSuspiciousActivity, entries[0].Event)
	assert.Equal(t, "<script", entries[0].Details.(map[string]any)["pattern"])
}

func TestErrorPageHidesDetailsInProduction(t *testing.T) {
	_, client := newTestPlugin(t, func(c *libs.Config) { c.Env = "production" })

	resp := client.get("/contact?q=javascript:alert(1)", fiber.MIMETextHTML)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	body := readBody(t, resp)
	assert.NotContains(t, body, "error-technical")
	assert.Contains(t, body, "Référence : ERR-")

	apiResp := client.get("/contact?q=javascript:alert(1)", fiber.MIMEApplicationJSON)
	assert.Regexp(t, `^ERR-\d+-400$`, apiResp.Header.Get("X-Error-Id"))
}

func TestUnsupportedContentType(t *testing.T) {
	_, client := newTestPlugin(t, nil)
	req := httptest.NewRequest(fiber.MethodPost, "/contact", strings.NewReader("hello"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMETextPlain)
	assert.Equal(t, fiber.StatusUnsupportedMediaType, client.do(req).StatusCode)
}

func TestHealthAndMetrics(t *testing.T) {
	_, client := newTestPlugin(t, nil)

	var health map[string]string
	decode(t, client.get("/health", ""), &health)
	assert.Equal(t, map[string]string{"status": "ok"}, health)

	client.postJSON(validPayload())
	metrics := readBody(t, client.get("/metrics", ""))
	assert.Contains(t, metrics, "contact_submissions_total")
	assert.Contains(t, metrics, "contact_security_events_total")
}

func TestSecurityLogsEndpoint(t *testing.T) {
	_, hidden := newTestPlugin(t, nil)
	assert.Equal(t, fiber.StatusNotFound, hidden.get("/api/security/logs", fiber.MIMEApplicationJSON).StatusCode)

	_, client := newTestPlugin(t, func(c *libs.Config) { c.ExposeLogs = true })
	client.postJSON(validPayload())

	var body struct {
		Entries []security.Entry `json:"entries"`
		Count   int              `json:"count"`
	}
	decode(t, client.get("/api/security/logs", fiber.MIMEApplicationJSON), &body)
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, security.EventFormSubmissionSuccess, body.Entries[0].Event)
}

func TestSubmissionsStoredInDatabase(t *testing.T) {
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "contact.db"), "sqlite")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	p, client := newTestPlugin(t, func(c *libs.Config) { c.StoreSubmissions = true }, WithDB(db))

	var accepted struct {
		Data models.SecureSubmission `json:"data"`
	}
	decode(t, client.postJSON(validPayload()), &accepted)

	store, err := storage.NewDatabaseStorage(db)
	require.NoError(t, err)
	saved, err := store.GetSubmission(accepted.Data.ID)
	require.NoError(t, err)
	assert.Equal(t, accepted.Data, saved)

	raw, err := store.Scope(storage.ScopeLocal).GetItem(security.SecurityLogsKey)
	require.NoError(t, err)
	assert.Contains(t, raw, security.EventFormSubmissionSuccess)
	assert.Len(t, p.Manager.Logger.Entries(), 1)
}
