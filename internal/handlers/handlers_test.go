package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Totarae/shortio-linkmaker/internal/auth"
	"github.com/Totarae/shortio-linkmaker/internal/handlers"
	"github.com/Totarae/shortio-linkmaker/internal/model"
	"github.com/Totarae/shortio-linkmaker/internal/service"
	"github.com/Totarae/shortio-linkmaker/internal/settings"
	"github.com/Totarae/shortio-linkmaker/internal/shortio"
	"github.com/Totarae/shortio-linkmaker/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const siteURL = "https://example.org/"

type testEnv struct {
	h        *handlers.Handler
	auth     *auth.Auth
	store    *storage.FileStore
	calls    *atomic.Int32
	resolver *settings.Resolver
}

// newTestEnv собирает обработчик поверх хранилища в памяти и поддельного Short.io.
func newTestEnv(t *testing.T, multisite bool) *testEnv {
	t.Helper()

	var calls atomic.Int32
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		if strings.HasPrefix(r.URL.Path, "/links/qr/") {
			_, _ = w.Write([]byte(`{"data":"iVBORw0KGgo="}`))
			return
		}
		_, _ = w.Write([]byte(`{"shortURL":"https://bogar.click/acme","idString":"lnk_abc"}`))
	}))
	t.Cleanup(api.Close)

	logger := zap.NewNop()
	store := storage.NewFileStore("", logger)
	resolver := settings.NewResolver(store, siteURL, multisite, logger)
	client := shortio.NewClient(api.URL, time.Second, 8, logger)
	maker := service.NewLinkMakerService(resolver, client, logger)
	a := auth.New("test-secret", "site-token", "network-token")

	return &testEnv{
		h:        handlers.NewHandler(maker, resolver, store, a, logger, siteURL, false),
		auth:     a,
		store:    store,
		calls:    &calls,
		resolver: resolver,
	}
}

func (e *testEnv) session(t *testing.T, role auth.Role) auth.Session {
	t.Helper()
	s, _, err := e.auth.IssueSession(role)
	require.NoError(t, err)
	return s
}

func (e *testEnv) nonce(t *testing.T, s auth.Session) string {
	t.Helper()
	n, err := e.auth.IssueNonce(s.ID)
	require.NoError(t, err)
	return n
}

func (e *testEnv) configure(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, e.store.Set(ctx, model.ScopeSite, model.KeyAPIKey, "sk_test_1234567890"))
	require.NoError(t, e.store.Set(ctx, model.ScopeSite, model.KeyDomain, "bogar.click"))
}

func do(h http.HandlerFunc, s *auth.Session, method, target string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if s != nil {
		req = req.WithContext(auth.WithSession(req.Context(), *s))
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func validForm(nonce string) url.Values {
	return url.Values{
		auth.NonceField: {nonce},
		"company":       {"Acme & Sons"},
		"skill1":        {"Go"},
		"skill2":        {"SQL"},
		"slug":          {"acme"},
	}
}

func TestLinkForm_Empty(t *testing.T) {
	e := newTestEnv(t, false)
	s := e.session(t, auth.RoleSite)

	rec := do(e.h.LinkForm, &s, http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Create &amp; Inspect Short Link")
	assert.Contains(t, body, `name="`+auth.NonceField+`"`)
	assert.NotContains(t, body, "Step 1: Inputs")
	assert.NotContains(t, body, "slm-output-text")
}

func TestLinkForm_DefaultCloakFromSettings(t *testing.T) {
	e := newTestEnv(t, false)
	require.NoError(t, e.store.Set(context.Background(), model.ScopeSite, model.KeyCloakDefault, "1"))
	s := e.session(t, auth.RoleSite)

	rec := do(e.h.LinkForm, &s, http.MethodGet, "/", nil)
	assert.Contains(t, rec.Body.String(), `name="cloak" value="1" checked`)
}

func TestLinkForm_SecurityCheckFailed(t *testing.T) {
	e := newTestEnv(t, false)
	e.configure(t)
	s := e.session(t, auth.RoleSite)

	rec := do(e.h.LinkForm, &s, http.MethodPost, "/", validForm("forged"))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, handlers.MsgSecurityCheckFailed[:len("Security check failed")])
	assert.NotContains(t, body, "Step 1: Inputs")
	assert.Contains(t, body, `value="Acme &amp; Sons"`)
	assert.Zero(t, e.calls.Load())
}

func TestLinkForm_NonceFromAnotherSession(t *testing.T) {
	e := newTestEnv(t, false)
	s := e.session(t, auth.RoleSite)
	other := e.session(t, auth.RoleSite)

	rec := do(e.h.LinkForm, &s, http.MethodPost, "/", validForm(e.nonce(t, other)))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLinkForm_MissingField(t *testing.T) {
	e := newTestEnv(t, false)
	s := e.session(t, auth.RoleSite)

	form := validForm(e.nonce(t, s))
	form.Del("skill2")
	rec := do(e.h.LinkForm, &s, http.MethodPost, "/", form)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Required field is empty: skill2")
	assert.NotContains(t, rec.Body.String(), "Step 1: Inputs")
}

func TestLinkForm_DryRun(t *testing.T) {
	e := newTestEnv(t, false)
	e.configure(t)
	s := e.session(t, auth.RoleSite)

	form := validForm(e.nonce(t, s))
	form.Set("dry_run", "1")
	rec := do(e.h.LinkForm, &s, http.MethodPost, "/", form)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, e.calls.Load())

	body := rec.Body.String()
	for _, title := range []string{
		"Step 1: Inputs",
		"Step 2: Destination URL (built)",
		"Step 3: API Request Preview",
		"Step 4: API Response",
		"Step 5: Result",
	} {
		assert.Contains(t, body, title)
	}
	assert.Contains(t, body, "(dry run: no request was sent)")
	assert.Contains(t, body, "(No short URL returned.)")
	// без короткой ссылки наверху показывается URL назначения
	assert.Contains(t, body, `<code id="slm-output-text">https://example.org/?company=Acme%20%26%20Sons&amp;skill1=Go`)
	assert.NotContains(t, body, "Download PNG")
	assert.NotContains(t, body, "sk_test_1234567890")
}

func TestLinkForm_Live(t *testing.T) {
	e := newTestEnv(t, false)
	e.configure(t)
	s := e.session(t, auth.RoleSite)

	rec := do(e.h.LinkForm, &s, http.MethodPost, "/", validForm(e.nonce(t, s)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int32(2), e.calls.Load())

	body := rec.Body.String()
	assert.Contains(t, body, `<code id="slm-output-text">https://bogar.click/acme</code>`)
	assert.Contains(t, body, `data-copy-target="#slm-output-text"`)
	assert.Contains(t, body, `download="shortlink-qr.png" href="data:image/png;base64,iVBORw0KGgo="`)
	assert.Contains(t, body, `src="data:image/png;base64,iVBORw0KGgo="`)
	assert.Contains(t, body, "HTTP Status (create):")
	assert.NotContains(t, body, "sk_test_1234567890")
}

func TestLinkForm_MissingConfig(t *testing.T) {
	e := newTestEnv(t, false)
	s := e.session(t, auth.RoleSite)

	rec := do(e.h.LinkForm, &s, http.MethodPost, "/", validForm(e.nonce(t, s)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, e.calls.Load())
	assert.Contains(t, rec.Body.String(), "Live call skipped: missing API settings")
}

func TestLogin(t *testing.T) {
	e := newTestEnv(t, false)

	rec := do(e.h.Login, nil, http.MethodPost, "/login", url.Values{"token": {"wrong"}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), handlers.MsgLoginFailed)

	rec = do(e.h.Login, nil, http.MethodPost, "/login", url.Values{"token": {"site-token"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	resp := rec.Result()
	defer resp.Body.Close()
	require.Len(t, resp.Cookies(), 1)

	s, err := e.auth.ParseSession(resp.Cookies()[0].Value)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleSite, s.Role)
}

func TestLogout(t *testing.T) {
	e := newTestEnv(t, false)
	rec := do(e.h.Logout, nil, http.MethodPost, "/logout", nil)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	resp := rec.Result()
	defer resp.Body.Close()
	require.Len(t, resp.Cookies(), 1)
	assert.Equal(t, -1, resp.Cookies()[0].MaxAge)
}

func TestSettings_Access(t *testing.T) {
	single := newTestEnv(t, false)
	network := single.session(t, auth.RoleNetwork)
	rec := do(single.h.SettingsPage, &network, http.MethodGet, "/settings?scope=network", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	multi := newTestEnv(t, true)
	site := multi.session(t, auth.RoleSite)
	rec = do(multi.h.SettingsPage, &site, http.MethodGet, "/settings?scope=network", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	network = multi.session(t, auth.RoleNetwork)
	rec = do(multi.h.SettingsPage, &network, http.MethodGet, "/settings?scope=network", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Short.io Link Maker (Network)")
	assert.Contains(t, rec.Body.String(), `placeholder="bogar.click"`)

	rec = do(multi.h.SettingsPage, &network, http.MethodGet, "/settings?scope=bogus", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSaveSettings(t *testing.T) {
	e := newTestEnv(t, false)
	s := e.session(t, auth.RoleSite)
	ctx := context.Background()
	require.NoError(t, e.store.Set(ctx, model.ScopeSite, model.KeyCloakDefault, "1"))

	form := url.Values{
		auth.NonceField:           {e.nonce(t, s)},
		string(model.KeyAPIKey):   {"  sk_live_abcdef  "},
		string(model.KeyDomain):   {"<b>bogar.click</b>"},
		string(model.KeyDomainID): {"12345"},
		string(model.KeyBaseURL):  {"javascript:alert(1)"},
	}
	rec := do(e.h.SaveSettings, &s, http.MethodPost, "/settings?scope=site", form)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/settings?saved=1&scope=site", rec.Header().Get("Location"))

	cfg := e.resolver.Admin(ctx, model.ScopeSite)
	assert.Equal(t, "sk_live_abcdef", cfg.APIKey)
	assert.Equal(t, "bogar.click", cfg.Domain)
	assert.Equal(t, "12345", cfg.DomainIDRaw)
	assert.Equal(t, siteURL, cfg.BaseURL)
	assert.False(t, cfg.DefaultCloak)

	rec = do(e.h.SettingsPage, &s, http.MethodGet, "/settings?scope=site&saved=1", nil)
	assert.Contains(t, rec.Body.String(), handlers.MsgSettingsSaved)
}

func TestSaveSettings_SecurityCheckFailed(t *testing.T) {
	e := newTestEnv(t, false)
	s := e.session(t, auth.RoleSite)

	form := url.Values{string(model.KeyDomain): {"evil.click"}}
	rec := do(e.h.SaveSettings, &s, http.MethodPost, "/settings?scope=site", form)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, e.resolver.Admin(context.Background(), model.ScopeSite).Domain)
}

func TestPing(t *testing.T) {
	e := newTestEnv(t, false)
	rec := do(e.h.Ping, nil, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
