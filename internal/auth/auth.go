// Package auth вход оператора по токену, сессионная кука (JWT) и
// анти-CSRF токены форм, привязанные к сессии.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Totarae/shortio-linkmaker/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// CookieName имя сессионной куки.
	CookieName = "slm_session"
	// NonceField имя скрытого поля формы с анти-CSRF токеном.
	NonceField = "shortio_link_maker_nonce"

	issuer          = "shortio-linkmaker"
	sessionAudience = "session"
	sessionTTL      = 12 * time.Hour
	nonceTTL        = 24 * time.Hour
)

// Role права оператора.
type Role string

const (
	RoleSite    Role = "site"
	RoleNetwork Role = "network"
)

// CanManage сообщает, может ли роль менять настройки уровня scope.
func (r Role) CanManage(scope model.Scope) bool {
	switch r {
	case RoleNetwork:
		return true
	case RoleSite:
		return scope == model.ScopeSite
	}
	return false
}

// Session данные вошедшего оператора.
type Session struct {
	ID   string
	Role Role
}

// SessionClaims claims сессионного JWT.
type SessionClaims struct {
	Role Role `json:"role"`
	jwt.RegisteredClaims
}

type Auth struct {
	secret       []byte
	siteToken    string
	networkToken string
}

// New создаёт Auth. Пустой токен отключает соответствующую роль.
func New(secret, siteToken, networkToken string) *Auth {
	return &Auth{
		secret:       []byte(secret),
		siteToken:    siteToken,
		networkToken: networkToken,
	}
}

// Login сверяет токен оператора и возвращает роль.
func (a *Auth) Login(token string) (Role, error) {
	if token == "" {
		return "", model.ErrUnauthorized
	}
	if a.networkToken != "" && subtle.ConstantTimeCompare([]byte(token), []byte(a.networkToken)) == 1 {
		return RoleNetwork, nil
	}
	if a.siteToken != "" && subtle.ConstantTimeCompare([]byte(token), []byte(a.siteToken)) == 1 {
		return RoleSite, nil
	}
	return "", model.ErrUnauthorized
}

// IssueSession создаёт новую сессию и подписанный токен для неё.
func (a *Auth) IssueSession(role Role) (Session, string, error) {
	s := Session{ID: uuid.NewString(), Role: role}
	now := time.Now()
	claims := SessionClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   s.ID,
			Audience:  jwt.ClaimStrings{sessionAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return Session{}, "", fmt.Errorf("sign session: %w", err)
	}
	return s, signed, nil
}

// ParseSession проверяет сессионный токен.
func (a *Auth) ParseSession(tokenString string) (Session, error) {
	claims := &SessionClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, a.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithAudience(sessionAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", model.ErrUnauthorized, err)
	}
	if claims.Subject == "" || (claims.Role != RoleSite && claims.Role != RoleNetwork) {
		return Session{}, fmt.Errorf("%w: bad session claims", model.ErrUnauthorized)
	}
	return Session{ID: claims.Subject, Role: claims.Role}, nil
}

func (a *Auth) keyFunc(*jwt.Token) (any, error) {
	return a.secret, nil
}

// SetSessionCookie записывает сессионную куку.
func (a *Auth) SetSessionCookie(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(sessionTTL.Seconds()),
	})
}

// ClearSessionCookie удаляет сессионную куку.
func (a *Auth) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// SessionFromRequest достаёт сессию из куки запроса.
func (a *Auth) SessionFromRequest(r *http.Request) (Session, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return Session{}, false
	}
	s, err := a.ParseSession(cookie.Value)
	if err != nil {
		return Session{}, false
	}
	return s, true
}

// IssueNonce выдаёт анти-CSRF токен для форм текущей сессии.
func (a *Auth) IssueNonce(sessionID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   sessionID,
		Audience:  jwt.ClaimStrings{NonceField},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(nonceTTL)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign nonce: %w", err)
	}
	return signed, nil
}

// VerifyNonce проверяет анти-CSRF токен. Ошибка всегда оборачивает
// model.ErrSecurityCheckFailed.
func (a *Auth) VerifyNonce(sessionID, nonce string) error {
	if nonce == "" {
		return model.ErrSecurityCheckFailed
	}
	_, err := jwt.ParseWithClaims(nonce, &jwt.RegisteredClaims{}, a.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithAudience(NonceField),
		jwt.WithSubject(sessionID),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return errors.Join(model.ErrSecurityCheckFailed, err)
	}
	return nil
}

type ctxKey struct{}

// WithSession кладёт сессию в контекст.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// SessionFromContext достаёт сессию, положенную middleware.
func SessionFromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok
}
