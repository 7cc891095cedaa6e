// Package shortio клиент Short.io: создание короткой ссылки и получение QR-кода.
package shortio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Totarae/shortio-linkmaker/internal/jsonutil"
	"github.com/Totarae/shortio-linkmaker/internal/model"
	"github.com/Totarae/shortio-linkmaker/internal/transcript"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://api.short.io"
	DefaultTimeout = 20 * time.Second
	DefaultQRSize  = 8

	// maxBodySize ограничивает чтение ответа (QR PNG занимает единицы килобайт).
	maxBodySize = 4 << 20
)

//go:generate mockgen -source=client.go -destination=../mocks/mock_shortio.go -package=mocks

// Client определяет интерфейс для взаимодействия с Short.io API.
type Client interface {
	// LinksEndpoint адрес создания ссылки, используется в выводе шагов.
	LinksEndpoint() string
	CreateLink(ctx context.Context, cfg model.EffectiveConfig, payload model.CreatePayload, dryRun bool) model.CreateResult
	FetchQR(ctx context.Context, cfg model.EffectiveConfig, linkID string) *model.QrResult
}

type clientImpl struct {
	baseURL    string
	httpClient *http.Client
	qrSize     int
	logger     *zap.Logger
}

// NewClient создаёт клиента Short.io. Нулевые значения заменяются значениями по умолчанию.
func NewClient(baseURL string, timeout time.Duration, qrSize int, logger *zap.Logger) Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if qrSize <= 0 || qrSize >= 100 {
		qrSize = DefaultQRSize
	}
	return &clientImpl{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		qrSize:     qrSize,
		logger:     logger,
	}
}

func (c *clientImpl) LinksEndpoint() string {
	return c.baseURL + "/links"
}

// response результат одного POST-запроса.
type response struct {
	status      int
	contentType string
	body        []byte
}

// post отправляет JSON и читает ответ целиком. Ошибка означает сбой транспорта.
func (c *clientImpl) post(ctx context.Context, endpoint, apiKey string, payload any, accept string) (*response, error) {
	jsonPayload, err := jsonutil.API.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("error creating payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonPayload))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Authorization", apiKey)
	req.Header.Set("Content-Type", "application/json")
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	return &response{
		status:      resp.StatusCode,
		contentType: resp.Header.Get("Content-Type"),
		body:        body,
	}, nil
}

// CreateLink выполняет POST /links, если это не пробный запуск и настройки заданы.
// Любой HTTP-ответ считается завершённым вызовом, даже с кодом ошибки.
func (c *clientImpl) CreateLink(ctx context.Context, cfg model.EffectiveConfig, payload model.CreatePayload, dryRun bool) model.CreateResult {
	if dryRun {
		return model.CreateResult{Status: model.StatusDryRun}
	}
	if !cfg.CanCallAPI() {
		return model.CreateResult{Status: model.StatusMissingConfig, Err: model.ErrConfigMissing}
	}

	resp, err := c.post(ctx, c.LinksEndpoint(), cfg.APIKey, payload, "")
	if err != nil {
		c.logger.Error("short link request failed",
			zap.String("api_key", transcript.Mask(cfg.APIKey)),
			zap.Error(err),
		)
		return model.CreateResult{Status: model.StatusTransportError, Err: err}
	}

	result := model.CreateResult{
		Status:     model.StatusCompleted,
		HTTPStatus: resp.status,
		RawBody:    string(resp.body),
	}

	var decoded map[string]any
	if err := jsonutil.API.Unmarshal(resp.body, &decoded); err != nil {
		c.logger.Debug("create response is not a JSON object",
			zap.Int("status", resp.status),
			zap.Error(fmt.Errorf("%w: %v", model.ErrMalformedResponse, err)),
		)
		return result
	}
	result.ShortURL = stringField(decoded, "shortURL")
	result.LinkID = stringField(decoded, "idString")

	c.logger.Info("short link created",
		zap.Int("status", resp.status),
		zap.String("original_url", payload.OriginalURL),
		zap.String("short_url", result.ShortURL),
		zap.String("link_id", result.LinkID),
	)
	return result
}

// FetchQR выполняет POST /links/qr/{linkID}. nil означает, что QR получить не удалось.
func (c *clientImpl) FetchQR(ctx context.Context, cfg model.EffectiveConfig, linkID string) *model.QrResult {
	if linkID == "" {
		return nil
	}

	endpoint := c.baseURL + "/links/qr/" + url.PathEscape(linkID)
	resp, err := c.post(ctx, endpoint, cfg.APIKey, model.QRRequest{Type: "png", Size: c.qrSize}, "application/json")
	if err != nil {
		c.logger.Warn("QR request failed", zap.String("link_id", linkID), zap.Error(err))
		return nil
	}

	dataURI := NormalizeQR(resp.body, resp.contentType)
	if dataURI == "" {
		c.logger.Warn("QR response is empty", zap.String("link_id", linkID), zap.Int("status", resp.status))
		return nil
	}
	return &model.QrResult{DataURI: dataURI}
}

func stringField(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}
