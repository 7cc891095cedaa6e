package model

import "errors"

var (
	// ErrMissingField обязательное поле формы не заполнено.
	ErrMissingField = errors.New("required field is empty")
	// ErrConfigMissing не заданы API-ключ или домен.
	ErrConfigMissing = errors.New("missing API settings")
	// ErrSecurityCheckFailed неверный или отсутствующий анти-CSRF токен.
	ErrSecurityCheckFailed = errors.New("security check failed")
	// ErrMalformedResponse ответ API не удалось разобрать.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrUnauthorized оператор не вошёл в систему или не имеет прав.
	ErrUnauthorized = errors.New("unauthorized")
)
