// Package service связывает разрешение настроек, сборку URL назначения,
// вызовы Short.io и сборку отчёта в один запуск.
package service

import (
	"context"

	"github.com/Totarae/shortio-linkmaker/internal/model"
	"github.com/Totarae/shortio-linkmaker/internal/shortio"
	"github.com/Totarae/shortio-linkmaker/internal/transcript"
	"go.uber.org/zap"
)

// ConfigResolver источник итоговых настроек для создания ссылки.
type ConfigResolver interface {
	Runtime(ctx context.Context) model.EffectiveConfig
}

// Outcome результат одного запуска.
type Outcome struct {
	Input       model.FormInput
	Destination string
	Payload     model.CreatePayload
	Create      model.CreateResult
	QR          *model.QrResult
	Transcript  transcript.Transcript
}

// PrimaryURL короткая ссылка, если она получена, иначе URL назначения.
func (o *Outcome) PrimaryURL() string {
	if o.Create.ShortURL != "" {
		return o.Create.ShortURL
	}
	return o.Destination
}

type LinkMakerService struct {
	Config ConfigResolver
	Client shortio.Client
	Logger *zap.Logger
}

func NewLinkMakerService(cfg ConfigResolver, client shortio.Client, logger *zap.Logger) *LinkMakerService {
	return &LinkMakerService{
		Config: cfg,
		Client: client,
		Logger: logger,
	}
}

// Run выполняет шаги последовательно. Ошибок не возвращает: любой сбой
// отражается в Outcome и в отчёте.
func (s *LinkMakerService) Run(ctx context.Context, in model.FormInput) *Outcome {
	cfg := s.Config.Runtime(ctx)

	dest := BuildDestinationURL(cfg.BaseURL, in)
	payload := BuildPayload(cfg, in, dest)

	created := s.Client.CreateLink(ctx, cfg, payload, in.DryRun)

	var qr *model.QrResult
	if created.Status == model.StatusCompleted && created.LinkID != "" {
		qr = s.Client.FetchQR(ctx, cfg, created.LinkID)
	}

	s.Logger.Info("link maker run finished",
		zap.String("status", string(created.Status)),
		zap.Int("http_status", created.HTTPStatus),
		zap.Bool("qr", qr != nil),
	)

	return &Outcome{
		Input:       in,
		Destination: dest,
		Payload:     payload,
		Create:      created,
		QR:          qr,
		Transcript: transcript.Build(transcript.Request{
			Input:       in,
			Destination: dest,
			Endpoint:    s.Client.LinksEndpoint(),
			Payload:     payload,
			Config:      cfg,
			Create:      created,
			QR:          qr,
		}),
	}
}
