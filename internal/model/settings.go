package model

import "fmt"

// Scope уровень хранения настроек.
type Scope string

const (
	ScopeSite    Scope = "site"
	ScopeNetwork Scope = "network"
)

// ParseScope разбирает значение параметра scope. Пустое значение означает сайт.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case "", ScopeSite:
		return ScopeSite, nil
	case ScopeNetwork:
		return ScopeNetwork, nil
	}
	return "", fmt.Errorf("unknown scope %q", s)
}

// SettingKey ключ настройки.
type SettingKey string

const (
	KeyAPIKey       SettingKey = "shortio_api_key"
	KeyDomain       SettingKey = "shortio_domain"
	KeyDomainID     SettingKey = "shortio_domain_id"
	KeyBaseURL      SettingKey = "shortio_base_url"
	KeyCloakDefault SettingKey = "shortio_cloak_default"
)

// SettingKeys все известные ключи в порядке отображения.
var SettingKeys = []SettingKey{KeyAPIKey, KeyDomain, KeyDomainID, KeyBaseURL, KeyCloakDefault}

// Setting одна запись хранилища.
type Setting struct {
	Scope Scope      `json:"scope"`
	Key   SettingKey `json:"key"`
	Value string     `json:"value"`
}
