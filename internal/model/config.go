package model

// EffectiveConfig итоговые настройки Short.io для одного запроса.
type EffectiveConfig struct {
	APIKey string
	Domain string
	// DomainIDRaw значение как оно хранится в настройках.
	DomainIDRaw string
	// DomainID заполнен, только если DomainIDRaw является целым числом.
	DomainID     *int64
	BaseURL      string
	DefaultCloak bool
}

// CanCallAPI сообщает, достаточно ли настроек для живого вызова.
func (c EffectiveConfig) CanCallAPI() bool {
	return c.APIKey != "" && c.Domain != ""
}

// DomainIDIgnored true, если ID домена задан, но не является числом.
func (c EffectiveConfig) DomainIDIgnored() bool {
	return c.DomainIDRaw != "" && c.DomainID == nil
}
