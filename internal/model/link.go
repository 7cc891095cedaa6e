package model

// PlaceholderDomain подставляется в payload, если домен не настроен.
const PlaceholderDomain = "YOUR-DOMAIN-HERE"

// CreatePayload тело запроса POST /links. Порядок полей фиксирован.
type CreatePayload struct {
	Domain      string `json:"domain"`
	OriginalURL string `json:"originalURL"`
	Title       string `json:"title"`
	Cloaking    bool   `json:"cloaking"`
	DomainID    *int64 `json:"domainId,omitempty"`
	Path        string `json:"path,omitempty"`
}

// CreateStatus исход шага создания ссылки.
type CreateStatus string

const (
	StatusDryRun         CreateStatus = "dry_run"
	StatusMissingConfig  CreateStatus = "missing_config"
	StatusTransportError CreateStatus = "transport_error"
	StatusCompleted      CreateStatus = "completed"
)

// Skipped true для веток, в которых запрос не отправлялся.
func (s CreateStatus) Skipped() bool {
	return s == StatusDryRun || s == StatusMissingConfig
}

// CreateResult результат шага создания ссылки.
type CreateResult struct {
	Status     CreateStatus
	ShortURL   string
	LinkID     string
	HTTPStatus int
	RawBody    string
	Err        error
}

// QRRequest тело запроса POST /links/qr/{idString}.
type QRRequest struct {
	Type string `json:"type"`
	Size int    `json:"size"`
}

// QrResult изображение QR-кода в виде data URI.
type QrResult struct {
	DataURI string
}
