package v1

import (
	"context"
	"errors"
	"strings"

	"github.com/Totarae/shortio-linkmaker/internal/auth"
	"github.com/Totarae/shortio-linkmaker/internal/jsonutil"
	"github.com/Totarae/shortio-linkmaker/internal/model"
	"github.com/Totarae/shortio-linkmaker/internal/service"
	"github.com/Totarae/shortio-linkmaker/internal/settings"
	"github.com/Totarae/shortio-linkmaker/internal/transcript"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// LinkMaker выполняет один запуск создания ссылки.
type LinkMaker interface {
	Run(ctx context.Context, in model.FormInput) *service.Outcome
}

// SettingsManager чтение и запись настроек Short.io.
type SettingsManager interface {
	Runtime(ctx context.Context) model.EffectiveConfig
	Admin(ctx context.Context, scope model.Scope) model.EffectiveConfig
	Save(ctx context.Context, scope model.Scope, values map[model.SettingKey]string) error
	Multisite() bool
}

type GRPCServer struct {
	Maker    LinkMaker
	Settings SettingsManager
	Auth     *auth.Auth
	Logger   *zap.Logger
}

func NewGRPCServer(maker LinkMaker, settings SettingsManager, a *auth.Auth, logger *zap.Logger) *GRPCServer {
	return &GRPCServer{Maker: maker, Settings: settings, Auth: a, Logger: logger}
}

// UnaryAuthInterceptor проверяет сессионный токен из metadata
// "authorization: Bearer <token>" у всех методов, кроме Login.
func UnaryAuthInterceptor(a *auth.Auth) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if info.FullMethod == LoginMethod {
			return handler(ctx, req)
		}

		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "missing metadata")
		}
		values := md.Get("authorization")
		if len(values) == 0 {
			return nil, status.Error(codes.Unauthenticated, "authorization token is not provided")
		}
		token, found := strings.CutPrefix(values[0], "Bearer ")
		if !found {
			return nil, status.Error(codes.Unauthenticated, "authorization must use Bearer scheme")
		}
		s, err := a.ParseSession(token)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, "invalid session token")
		}
		return handler(auth.WithSession(ctx, s), req)
	}
}

// Login обменивает токен оператора на сессионный токен.
func (s *GRPCServer) Login(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	role, err := s.Auth.Login(stringField(req, "token"))
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, "invalid operator token")
	}
	session, token, err := s.Auth.IssueSession(role)
	if err != nil {
		s.Logger.Error("issue session", zap.Error(err))
		return nil, status.Error(codes.Internal, "failed to issue session")
	}
	s.Logger.Info("operator logged in via gRPC", zap.String("session", session.ID), zap.String("role", string(role)))
	return structpb.NewStruct(map[string]any{
		"session": token,
		"role":    string(role),
	})
}

// CreateLink выполняет запуск создания ссылки. Поле cloak необязательно,
// при отсутствии берётся значение по умолчанию из настроек.
func (s *GRPCServer) CreateLink(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	in := model.FormInput{
		Company:   settings.SanitizeText(stringField(req, "company")),
		Skill1:    settings.SanitizeText(stringField(req, "skill1")),
		Skill2:    settings.SanitizeText(stringField(req, "skill2")),
		Skill3:    settings.SanitizeText(stringField(req, "skill3")),
		Skill4:    settings.SanitizeText(stringField(req, "skill4")),
		Skill5:    settings.SanitizeText(stringField(req, "skill5")),
		MyTitle:   settings.SanitizeText(stringField(req, "mytitle")),
		YourTitle: settings.SanitizeText(stringField(req, "yourtitle")),
		Slug:      settings.SanitizeText(stringField(req, "slug")),
		DryRun:    req.GetFields()["dry_run"].GetBoolValue(),
	}
	if v, ok := req.GetFields()["cloak"]; ok {
		in.Cloak = v.GetBoolValue()
	} else {
		in.Cloak = s.Settings.Runtime(ctx).DefaultCloak
	}

	if err := in.Validate(); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	out := s.Maker.Run(ctx, in)

	var payload map[string]any
	if err := jsonutil.API.UnmarshalFromString(jsonutil.Compact(out.Payload), &payload); err != nil {
		return nil, status.Errorf(codes.Internal, "encode payload: %v", err)
	}

	resp := map[string]any{
		"status":          string(out.Create.Status),
		"destination_url": out.Destination,
		"primary_url":     out.PrimaryURL(),
		"short_url":       out.Create.ShortURL,
		"link_id":         out.Create.LinkID,
		"http_status":     out.Create.HTTPStatus,
		"payload":         payload,
		"transcript":      out.Transcript.String(),
	}
	if out.Create.Err != nil {
		resp["error"] = out.Create.Err.Error()
	}
	if out.QR != nil {
		resp["qr_data_uri"] = out.QR.DataURI
	}

	result, err := structpb.NewStruct(resp)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return result, nil
}

func (s *GRPCServer) scope(ctx context.Context, req *structpb.Struct) (model.Scope, error) {
	scope, err := model.ParseScope(stringField(req, "scope"))
	if err != nil {
		return "", status.Error(codes.InvalidArgument, err.Error())
	}
	if scope == model.ScopeNetwork && !s.Settings.Multisite() {
		return "", status.Error(codes.NotFound, "network settings are not available")
	}
	session, _ := auth.SessionFromContext(ctx)
	if !session.Role.CanManage(scope) {
		return "", status.Error(codes.PermissionDenied, "role cannot manage this scope")
	}
	return scope, nil
}

// GetSettings возвращает настройки уровня scope. API-ключ маскируется.
func (s *GRPCServer) GetSettings(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	scope, err := s.scope(ctx, req)
	if err != nil {
		return nil, err
	}
	cfg := s.Settings.Admin(ctx, scope)
	return structpb.NewStruct(map[string]any{
		"scope":                       string(scope),
		string(model.KeyAPIKey):       transcript.Mask(cfg.APIKey),
		string(model.KeyDomain):       cfg.Domain,
		string(model.KeyDomainID):     cfg.DomainIDRaw,
		string(model.KeyBaseURL):      cfg.BaseURL,
		string(model.KeyCloakDefault): cfg.DefaultCloak,
	})
}

// SaveSettings сохраняет только переданные ключи, остальные не меняются.
func (s *GRPCServer) SaveSettings(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	scope, err := s.scope(ctx, req)
	if err != nil {
		return nil, err
	}

	values := make(map[model.SettingKey]string)
	for _, key := range model.SettingKeys {
		v, ok := req.GetFields()[string(key)]
		if !ok {
			continue
		}
		switch v.GetKind().(type) {
		case *structpb.Value_BoolValue:
			if v.GetBoolValue() {
				values[key] = "1"
			} else {
				values[key] = "0"
			}
		default:
			values[key] = v.GetStringValue()
		}
	}

	if _, ok := values[model.KeyCloakDefault]; !ok && s.Settings.Admin(ctx, scope).DefaultCloak {
		values[model.KeyCloakDefault] = "1"
	}

	if err := s.Settings.Save(ctx, scope, values); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, status.Error(codes.Canceled, err.Error())
		}
		s.Logger.Error("save settings", zap.Error(err))
		return nil, status.Error(codes.Internal, "failed to save settings")
	}
	return s.GetSettings(ctx, req)
}

func stringField(req *structpb.Struct, key string) string {
	return req.GetFields()[key].GetStringValue()
}
