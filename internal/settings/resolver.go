// Package settings разрешает итоговые настройки Short.io из хранилища
// с двумя уровнями: сайт и сеть.
package settings

import (
	"context"
	"strconv"
	"strings"

	"github.com/Totarae/shortio-linkmaker/internal/model"
	"github.com/Totarae/shortio-linkmaker/internal/storage"
	"go.uber.org/zap"
)

// Lookup читает одно значение настройки; пустая строка означает «нет значения».
type Lookup func(ctx context.Context, key model.SettingKey) string

// Resolver собирает EffectiveConfig по упорядоченному списку уровней.
type Resolver struct {
	store     storage.Storage
	siteRoot  string
	multisite bool
	logger    *zap.Logger
}

// NewResolver создаёт Resolver. siteRoot используется как базовый URL по умолчанию.
func NewResolver(store storage.Storage, siteRoot string, multisite bool, logger *zap.Logger) *Resolver {
	return &Resolver{
		store:     store,
		siteRoot:  siteRoot,
		multisite: multisite,
		logger:    logger,
	}
}

// Multisite сообщает, развёрнут ли сервис в сетевом режиме.
func (r *Resolver) Multisite() bool {
	return r.multisite
}

// scoped возвращает Lookup для одного уровня. Ошибки хранилища
// логируются и считаются отсутствием значения.
func (r *Resolver) scoped(scope model.Scope) Lookup {
	return func(ctx context.Context, key model.SettingKey) string {
		v, err := r.store.Get(ctx, scope, key)
		if err != nil {
			r.logger.Warn("settings lookup failed",
				zap.String("scope", string(scope)),
				zap.String("key", string(key)),
				zap.Error(err),
			)
			return ""
		}
		return v
	}
}

// firstNonEmpty возвращает первое непустое значение из lookups.
func firstNonEmpty(ctx context.Context, key model.SettingKey, lookups ...Lookup) string {
	for _, lookup := range lookups {
		if v := lookup(ctx, key); v != "" {
			return v
		}
	}
	return ""
}

// Runtime возвращает настройки для создания ссылки: значение сайта,
// затем сети (только в сетевом режиме), затем значение по умолчанию.
func (r *Resolver) Runtime(ctx context.Context) model.EffectiveConfig {
	lookups := []Lookup{r.scoped(model.ScopeSite)}
	if r.multisite {
		lookups = append(lookups, r.scoped(model.ScopeNetwork))
	}
	return r.build(ctx, lookups)
}

// Admin возвращает значения только просматриваемого уровня
// для отображения на странице настроек.
func (r *Resolver) Admin(ctx context.Context, scope model.Scope) model.EffectiveConfig {
	if scope == model.ScopeNetwork && !r.multisite {
		scope = model.ScopeSite
	}
	return r.build(ctx, []Lookup{r.scoped(scope)})
}

func (r *Resolver) build(ctx context.Context, lookups []Lookup) model.EffectiveConfig {
	get := func(key model.SettingKey) string {
		return firstNonEmpty(ctx, key, lookups...)
	}

	cfg := model.EffectiveConfig{
		APIKey:       get(model.KeyAPIKey),
		Domain:       get(model.KeyDomain),
		DomainIDRaw:  get(model.KeyDomainID),
		BaseURL:      get(model.KeyBaseURL),
		DefaultCloak: get(model.KeyCloakDefault) == "1",
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = r.siteRoot
	}
	if cfg.DomainIDRaw != "" {
		if id, err := strconv.ParseInt(strings.TrimSpace(cfg.DomainIDRaw), 10, 64); err == nil {
			cfg.DomainID = &id
		}
	}
	return cfg
}
