package handlers

import (
	"net/http"
	"strings"

	"github.com/Totarae/shortio-linkmaker/internal/auth"
	"github.com/Totarae/shortio-linkmaker/internal/model"
	"github.com/Totarae/shortio-linkmaker/internal/settings"
	"go.uber.org/zap"
)

// parseFormInput читает и очищает поля формы. Флажок облачения берётся
// из формы только при отправке, иначе из настройки по умолчанию.
func parseFormInput(r *http.Request, submitted, defaultCloak bool) model.FormInput {
	get := func(name string) string {
		return settings.SanitizeText(r.PostFormValue(name))
	}
	in := model.FormInput{
		Company:   get("company"),
		Skill1:    get("skill1"),
		Skill2:    get("skill2"),
		Skill3:    get("skill3"),
		Skill4:    get("skill4"),
		Skill5:    get("skill5"),
		MyTitle:   get("mytitle"),
		YourTitle: get("yourtitle"),
		Slug:      get("slug"),
		Cloak:     defaultCloak,
		DryRun:    r.PostFormValue("dry_run") != "",
	}
	if submitted {
		in.Cloak = r.PostFormValue("cloak") != ""
	}
	return in
}

// LinkForm отдаёт форму (GET) и обрабатывает её отправку (POST).
// Отправкой считается наличие поля анти-CSRF токена.
func (h *Handler) LinkForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		http.Error(w, "BadRequest", http.StatusBadRequest)
		return
	}

	_, submitted := r.PostForm[auth.NonceField]
	defaultCloak := h.settings.Runtime(ctx).DefaultCloak
	in := parseFormInput(r, submitted, defaultCloak)

	p, err := h.newPage(ctx, "Short.io Link Maker")
	if err != nil {
		h.internalError(w, "issue nonce", err)
		return
	}
	view := formPage{page: p, Values: in}

	if !submitted {
		h.render(w, http.StatusOK, "form.html", view)
		return
	}

	s, _ := auth.SessionFromContext(ctx)
	if err := h.auth.VerifyNonce(s.ID, r.PostFormValue(auth.NonceField)); err != nil {
		h.logger.Warn("link form rejected", zap.String("session", s.ID), zap.Error(err))
		view.Notices = []notice{{Level: "error", Text: MsgSecurityCheckFailed}}
		h.render(w, statusForError(err), "form.html", view)
		return
	}

	if err := in.Validate(); err != nil {
		view.Notices = []notice{{Level: "error", Text: capitalize(err.Error())}}
		h.render(w, statusForError(err), "form.html", view)
		return
	}

	outcome := h.maker.Run(ctx, in)
	view.Transcript = &outcome.Transcript
	if primary := outcome.PrimaryURL(); primary != "" {
		view.Top = &topBox{URL: primary}
		if outcome.QR != nil {
			view.Top.QR = outcome.QR.DataURI
		}
	}
	h.render(w, http.StatusOK, "form.html", view)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
