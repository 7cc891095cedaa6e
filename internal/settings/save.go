package settings

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/Totarae/shortio-linkmaker/internal/model"
	"go.uber.org/zap"
)

var (
	tagPattern   = regexp.MustCompile(`<[^>]*>`)
	octetPattern = regexp.MustCompile(`%[a-fA-F0-9]{2}`)
	spacePattern = regexp.MustCompile(`[\r\n\t ]+`)
)

// SanitizeText очищает однострочный текст: убирает теги, управляющие
// символы и %XX-последовательности, схлопывает пробелы.
func SanitizeText(s string) string {
	s = tagPattern.ReplaceAllString(s, "")
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' || r == '\r' {
			return ' '
		}
		if unicode.IsControl(r) || r == unicode.ReplacementChar {
			return -1
		}
		return r
	}, s)
	s = octetPattern.ReplaceAllString(s, "")
	s = spacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// SanitizeURL принимает только абсолютные http(s) адреса, иначе возвращает "".
func SanitizeURL(s string) string {
	s = strings.TrimSpace(s)
	u, err := url.Parse(s)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ""
	}
	return u.String()
}

// Save очищает и записывает значения формы настроек в указанный уровень.
// Отсутствие флажка облачения по умолчанию сохраняется как "0".
// При ошибке записи уже записанные ключи возвращаются к прежним значениям.
func (r *Resolver) Save(ctx context.Context, scope model.Scope, values map[model.SettingKey]string) error {
	var written []model.Setting
	for _, key := range model.SettingKeys {
		raw, ok := values[key]
		if !ok && key != model.KeyCloakDefault {
			continue
		}

		var val string
		switch key {
		case model.KeyBaseURL:
			val = SanitizeURL(raw)
		case model.KeyCloakDefault:
			val = "0"
			if SanitizeText(raw) == "1" {
				val = "1"
			}
		default:
			val = SanitizeText(raw)
		}

		prev, err := r.store.Get(ctx, scope, key)
		if err != nil {
			r.rollback(ctx, written)
			return fmt.Errorf("read %s/%s: %w", scope, key, err)
		}
		if err := r.store.Set(ctx, scope, key, val); err != nil {
			r.rollback(ctx, written)
			return fmt.Errorf("save %s/%s: %w", scope, key, err)
		}
		written = append(written, model.Setting{Scope: scope, Key: key, Value: prev})
	}

	r.logger.Info("settings saved", zap.String("scope", string(scope)))
	return nil
}

// rollback восстанавливает прежние значения в обратном порядке.
func (r *Resolver) rollback(ctx context.Context, prev []model.Setting) {
	for i := len(prev) - 1; i >= 0; i-- {
		p := prev[i]
		if err := r.store.Set(ctx, p.Scope, p.Key, p.Value); err != nil {
			r.logger.Error("settings rollback failed",
				zap.String("scope", string(p.Scope)),
				zap.String("key", string(p.Key)),
				zap.Error(err),
			)
		}
	}
}

// Seed записывает значения в сетевой уровень (или в уровень сайта для
// одиночной установки), если там ещё ничего не задано.
func (r *Resolver) Seed(ctx context.Context, values map[model.SettingKey]string) error {
	scope := model.ScopeSite
	if r.multisite {
		scope = model.ScopeNetwork
	}

	for key, val := range values {
		current, err := r.store.Get(ctx, scope, key)
		if err != nil {
			return fmt.Errorf("read %s/%s: %w", scope, key, err)
		}
		if current != "" {
			continue
		}
		if err := r.store.Set(ctx, scope, key, val); err != nil {
			return fmt.Errorf("seed %s/%s: %w", scope, key, err)
		}
		r.logger.Info("setting seeded from environment",
			zap.String("scope", string(scope)),
			zap.String("key", string(key)),
		)
	}
	return nil
}
