package v1_test

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Totarae/shortio-linkmaker/internal/auth"
	v1 "github.com/Totarae/shortio-linkmaker/internal/grpc/v1"
	"github.com/Totarae/shortio-linkmaker/internal/model"
	"github.com/Totarae/shortio-linkmaker/internal/service"
	"github.com/Totarae/shortio-linkmaker/internal/settings"
	"github.com/Totarae/shortio-linkmaker/internal/shortio"
	"github.com/Totarae/shortio-linkmaker/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

const bufSize = 1024 * 1024

type testEnv struct {
	client *v1.Client
	store  *storage.FileStore
}

func newTestEnv(t *testing.T, multisite bool) *testEnv {
	t.Helper()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.HasPrefix(r.URL.Path, "/links/qr/") {
			_, _ = w.Write([]byte(`{"data":"iVBORw0KGgo="}`))
			return
		}
		_, _ = w.Write([]byte(`{"shortURL":"https://bogar.click/acme","idString":"lnk_abc"}`))
	}))
	t.Cleanup(api.Close)

	logger := zap.NewNop()
	store := storage.NewFileStore("", logger)
	resolver := settings.NewResolver(store, "https://example.org/", multisite, logger)
	maker := service.NewLinkMakerService(resolver, shortio.NewClient(api.URL, time.Second, 8, logger), logger)
	a := auth.New("test-secret", "site-token", "network-token")

	lis := bufconn.Listen(bufSize)
	srv := grpc.NewServer(grpc.UnaryInterceptor(v1.UnaryAuthInterceptor(a)))
	v1.RegisterLinkMakerServer(srv, v1.NewGRPCServer(maker, resolver, a, logger))
	go func() {
		_ = srv.Serve(lis)
	}()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) {
			return lis.Dial()
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return &testEnv{client: v1.NewClient(conn), store: store}
}

func (e *testEnv) login(t *testing.T, token string) context.Context {
	t.Helper()
	resp, err := e.client.Login(context.Background(), mustStruct(t, map[string]any{"token": token}))
	require.NoError(t, err)
	session := resp.GetFields()["session"].GetStringValue()
	require.NotEmpty(t, session)
	return metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer "+session)
}

func mustStruct(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	require.NoError(t, err)
	return s
}

func TestLogin_InvalidToken(t *testing.T) {
	e := newTestEnv(t, false)
	_, err := e.client.Login(context.Background(), mustStruct(t, map[string]any{"token": "nope"}))
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestCreateLink_RequiresSession(t *testing.T) {
	e := newTestEnv(t, false)
	_, err := e.client.CreateLink(context.Background(), mustStruct(t, map[string]any{"company": "Acme"}))
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	ctx := metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer forged")
	_, err = e.client.CreateLink(ctx, mustStruct(t, map[string]any{"company": "Acme"}))
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestCreateLink(t *testing.T) {
	e := newTestEnv(t, false)
	ctx := e.login(t, "site-token")

	require.NoError(t, e.store.Set(context.Background(), model.ScopeSite, model.KeyAPIKey, "sk_test_1234567890"))
	require.NoError(t, e.store.Set(context.Background(), model.ScopeSite, model.KeyDomain, "bogar.click"))

	resp, err := e.client.CreateLink(ctx, mustStruct(t, map[string]any{
		"company": "Acme",
		"skill1":  "Go",
		"skill2":  "SQL",
		"slug":    "Acme Inc",
	}))
	require.NoError(t, err)

	f := resp.GetFields()
	assert.Equal(t, string(model.StatusCompleted), f["status"].GetStringValue())
	assert.Equal(t, "https://bogar.click/acme", f["primary_url"].GetStringValue())
	assert.Equal(t, "data:image/png;base64,iVBORw0KGgo=", f["qr_data_uri"].GetStringValue())
	assert.Equal(t, float64(http.StatusOK), f["http_status"].GetNumberValue())
	assert.Equal(t, "acme-inc", f["payload"].GetStructValue().GetFields()["path"].GetStringValue())
	assert.Contains(t, f["transcript"].GetStringValue(), "== Step 5: Result ==")
	assert.NotContains(t, f["transcript"].GetStringValue(), "sk_test_1234567890")
}

func TestCreateLink_InvalidInput(t *testing.T) {
	e := newTestEnv(t, false)
	ctx := e.login(t, "site-token")

	_, err := e.client.CreateLink(ctx, mustStruct(t, map[string]any{"company": "Acme"}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestSettings(t *testing.T) {
	e := newTestEnv(t, true)

	site := e.login(t, "site-token")
	_, err := e.client.GetSettings(site, mustStruct(t, map[string]any{"scope": "network"}))
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	network := e.login(t, "network-token")
	resp, err := e.client.SaveSettings(network, mustStruct(t, map[string]any{
		"scope":                 "network",
		"shortio_api_key":       "sk_live_1234567890",
		"shortio_domain":        "bogar.click",
		"shortio_cloak_default": true,
	}))
	require.NoError(t, err)

	f := resp.GetFields()
	assert.Equal(t, "sk_l************90", f["shortio_api_key"].GetStringValue())
	assert.Equal(t, "bogar.click", f["shortio_domain"].GetStringValue())
	assert.True(t, f["shortio_cloak_default"].GetBoolValue())

	// частичное обновление не сбрасывает флаг облачения
	resp, err = e.client.SaveSettings(network, mustStruct(t, map[string]any{
		"scope":             "network",
		"shortio_domain_id": "777",
	}))
	require.NoError(t, err)
	assert.True(t, resp.GetFields()["shortio_cloak_default"].GetBoolValue())
	assert.Equal(t, "bogar.click", resp.GetFields()["shortio_domain"].GetStringValue())
}

func TestSettings_NetworkUnavailable(t *testing.T) {
	e := newTestEnv(t, false)
	ctx := e.login(t, "network-token")

	_, err := e.client.GetSettings(ctx, mustStruct(t, map[string]any{"scope": "network"}))
	assert.Equal(t, codes.NotFound, status.Code(err))
}
