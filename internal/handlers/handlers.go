// Package handlers HTTP-обработчики: вход оператора, форма создания ссылки,
// страница настроек и проверка хранилища.
package handlers

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/Totarae/shortio-linkmaker/internal/auth"
	"github.com/Totarae/shortio-linkmaker/internal/model"
	"github.com/Totarae/shortio-linkmaker/internal/service"
	"github.com/Totarae/shortio-linkmaker/internal/transcript"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Тексты уведомлений.
const (
	MsgSecurityCheckFailed = "Security check failed (nonce). Please refresh and try again."
	MsgSettingsSaved       = "Settings saved."
	MsgLoginFailed         = "Invalid operator token."
)

// LinkMaker выполняет один запуск создания ссылки.
type LinkMaker interface {
	Run(ctx context.Context, in model.FormInput) *service.Outcome
}

// SettingsManager чтение и запись настроек Short.io.
type SettingsManager interface {
	Runtime(ctx context.Context) model.EffectiveConfig
	Admin(ctx context.Context, scope model.Scope) model.EffectiveConfig
	Save(ctx context.Context, scope model.Scope, values map[model.SettingKey]string) error
	Multisite() bool
}

// Pinger проверка доступности хранилища.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	maker    LinkMaker
	settings SettingsManager
	store    Pinger
	auth     *auth.Auth
	logger   *zap.Logger
	siteURL  string
	secure   bool
	tmpl     *template.Template
}

// NewHandler создаёт Handler. secure включает флаг Secure у сессионной куки.
func NewHandler(maker LinkMaker, settings SettingsManager, store Pinger, a *auth.Auth, logger *zap.Logger, siteURL string, secure bool) *Handler {
	tmpl := template.Must(template.New("").Funcs(template.FuncMap{
		"dataURI": dataURI,
	}).ParseFS(templatesFS, "templates/*.html"))

	return &Handler{
		maker:    maker,
		settings: settings,
		store:    store,
		auth:     a,
		logger:   logger,
		siteURL:  siteURL,
		secure:   secure,
		tmpl:     tmpl,
	}
}

// dataURI пропускает в атрибут только data:image/ URI, остальное отбрасывается.
func dataURI(s string) template.URL {
	if strings.HasPrefix(s, "data:image/") {
		return template.URL(s)
	}
	return ""
}

type notice struct {
	Level string
	Text  string
}

// page общие поля всех страниц.
type page struct {
	Title       string
	Session     bool
	ShowNetwork bool
	Notices     []notice
	NonceField  string
	Nonce       string
}

type topBox struct {
	URL string
	QR  string
}

type formPage struct {
	page
	Values     model.FormInput
	Top        *topBox
	Transcript *transcript.Transcript
}

type settingsPage struct {
	page
	Heading string
	Scope   model.Scope
	Config  model.EffectiveConfig
	BaseURL string
	SiteURL string
}

func (h *Handler) newPage(ctx context.Context, title string) (page, error) {
	p := page{Title: title, NonceField: auth.NonceField}
	s, ok := auth.SessionFromContext(ctx)
	if !ok {
		return p, nil
	}
	nonce, err := h.auth.IssueNonce(s.ID)
	if err != nil {
		return p, err
	}
	p.Session = true
	p.ShowNetwork = h.settings.Multisite() && s.Role == auth.RoleNetwork
	p.Nonce = nonce
	return p, nil
}

func (h *Handler) render(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.tmpl.ExecuteTemplate(w, name, data); err != nil {
		h.logger.Error("template execution failed", zap.String("template", name), zap.Error(err))
	}
}

func (h *Handler) internalError(w http.ResponseWriter, msg string, err error) {
	h.logger.Error(msg, zap.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// LoginPage отдаёт форму входа.
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.auth.SessionFromRequest(r); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.render(w, http.StatusOK, "login.html", page{Title: "Log in"})
}

// Login проверяет токен оператора и выдаёт сессионную куку.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "BadRequest", http.StatusBadRequest)
		return
	}

	role, err := h.auth.Login(r.PostFormValue("token"))
	if err != nil {
		h.logger.Warn("operator login failed", zap.String("remote", r.RemoteAddr))
		h.render(w, http.StatusUnauthorized, "login.html", page{
			Title:   "Log in",
			Notices: []notice{{Level: "error", Text: MsgLoginFailed}},
		})
		return
	}

	s, token, err := h.auth.IssueSession(role)
	if err != nil {
		h.internalError(w, "issue session", err)
		return
	}
	h.auth.SetSessionCookie(w, token, h.secure)
	h.logger.Info("operator logged in", zap.String("session", s.ID), zap.String("role", string(role)))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout удаляет сессионную куку.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.auth.ClearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// Ping проверяет соединение с хранилищем настроек.
func (h *Handler) Ping(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		h.logger.Error("storage ping failed", zap.Error(err))
		http.Error(w, "Storage connection failed", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, model.ErrSecurityCheckFailed):
		return http.StatusForbidden
	case errors.Is(err, model.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, model.ErrMissingField):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
