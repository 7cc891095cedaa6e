package handlers

import (
	"net/http"
	"net/url"

	"github.com/Totarae/shortio-linkmaker/internal/auth"
	"github.com/Totarae/shortio-linkmaker/internal/model"
	"go.uber.org/zap"
)

// scopeFromRequest разбирает ?scope= и проверяет права сессии на этот уровень.
func (h *Handler) scopeFromRequest(w http.ResponseWriter, r *http.Request) (model.Scope, bool) {
	scope, err := model.ParseScope(r.URL.Query().Get("scope"))
	if err != nil || (scope == model.ScopeNetwork && !h.settings.Multisite()) {
		http.NotFound(w, r)
		return "", false
	}
	s, _ := auth.SessionFromContext(r.Context())
	if !s.Role.CanManage(scope) {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return "", false
	}
	return scope, true
}

func (h *Handler) settingsView(r *http.Request, scope model.Scope) (settingsPage, error) {
	p, err := h.newPage(r.Context(), "Short.io Link Maker Settings")
	if err != nil {
		return settingsPage{}, err
	}

	cfg := h.settings.Admin(r.Context(), scope)
	heading := "Short.io Link Maker"
	if scope == model.ScopeNetwork {
		heading = "Short.io Link Maker (Network)"
	}
	// значение по умолчанию показываем подсказкой, а не сохранённым значением
	baseURL := cfg.BaseURL
	if baseURL == h.siteURL {
		baseURL = ""
	}
	return settingsPage{
		page:    p,
		Heading: heading,
		Scope:   scope,
		Config:  cfg,
		BaseURL: baseURL,
		SiteURL: h.siteURL,
	}, nil
}

// SettingsPage отдаёт форму настроек уровня ?scope=site|network.
func (h *Handler) SettingsPage(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.scopeFromRequest(w, r)
	if !ok {
		return
	}
	view, err := h.settingsView(r, scope)
	if err != nil {
		h.internalError(w, "issue nonce", err)
		return
	}
	if r.URL.Query().Get("saved") == "1" {
		view.Notices = []notice{{Level: "success", Text: MsgSettingsSaved}}
	}
	h.render(w, http.StatusOK, "settings.html", view)
}

// SaveSettings сохраняет форму настроек и перенаправляет обратно на страницу.
func (h *Handler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.scopeFromRequest(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "BadRequest", http.StatusBadRequest)
		return
	}

	s, _ := auth.SessionFromContext(r.Context())
	if err := h.auth.VerifyNonce(s.ID, r.PostFormValue(auth.NonceField)); err != nil {
		h.logger.Warn("settings form rejected", zap.String("session", s.ID), zap.Error(err))
		view, verr := h.settingsView(r, scope)
		if verr != nil {
			h.internalError(w, "issue nonce", verr)
			return
		}
		view.Notices = []notice{{Level: "error", Text: MsgSecurityCheckFailed}}
		h.render(w, statusForError(err), "settings.html", view)
		return
	}

	values := make(map[model.SettingKey]string, len(model.SettingKeys))
	for _, key := range model.SettingKeys {
		if v, present := r.PostForm[string(key)]; present && len(v) > 0 {
			values[key] = v[0]
		}
	}
	if err := h.settings.Save(r.Context(), scope, values); err != nil {
		h.internalError(w, "save settings", err)
		return
	}

	q := url.Values{"scope": {string(scope)}, "saved": {"1"}}
	http.Redirect(w, r, "/settings?"+q.Encode(), http.StatusSeeOther)
}
