// Command linkmaker запускает HTTP- и gRPC-серверы Short.io Link Maker.
package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Totarae/shortio-linkmaker/internal/auth"
	"github.com/Totarae/shortio-linkmaker/internal/config"
	v1 "github.com/Totarae/shortio-linkmaker/internal/grpc/v1"
	"github.com/Totarae/shortio-linkmaker/internal/handlers"
	"github.com/Totarae/shortio-linkmaker/internal/logger"
	"github.com/Totarae/shortio-linkmaker/internal/router"
	"github.com/Totarae/shortio-linkmaker/internal/service"
	"github.com/Totarae/shortio-linkmaker/internal/settings"
	"github.com/Totarae/shortio-linkmaker/internal/shortio"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Инициализация конфигурации
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("Ошибка при загрузке конфигурации: %v", err)
	}

	zapLogger, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Ошибка при создании логгера: %v", err)
	}
	defer zapLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	if err := run(ctx, cfg, zapLogger); err != nil {
		zapLogger.Fatal("Ошибка при работе сервера", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, zapLogger *zap.Logger) error {
	store, closeStore, err := openStore(ctx, cfg, zapLogger)
	if err != nil {
		return err
	}
	defer closeStore()
	zapLogger.Info("Хранилище настроек", zap.String("mode", cfg.Mode))

	resolver := settings.NewResolver(store, cfg.SiteURL, cfg.Multisite, zapLogger)
	if err := resolver.Seed(ctx, cfg.Seed); err != nil {
		return err
	}

	client := shortio.NewClient(cfg.ShortIOAPIURL, cfg.ShortIOTimeout, cfg.QRSize, zapLogger)
	maker := service.NewLinkMakerService(resolver, client, zapLogger)
	a := auth.New(cfg.AuthSecret, cfg.SiteOperatorToken, cfg.NetworkOperatorToken)

	handler := handlers.NewHandler(maker, resolver, store, a, zapLogger, cfg.SiteURL, cfg.EnableHTTPS)
	srv := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           router.NewRouter(handler, a, zapLogger),
		ReadHeaderTimeout: 5 * time.Second,
		// создание ссылки и QR могут занять два таймаута Short.io
		WriteTimeout: 2*cfg.ShortIOTimeout + 10*time.Second,
	}

	errCh := make(chan error, 2)

	go func() {
		zapLogger.Info("Сервер запущен", zap.String("address", cfg.ServerAddress), zap.Bool("https", cfg.EnableHTTPS))
		var err error
		if cfg.EnableHTTPS {
			err = srv.ListenAndServeTLS(cfg.TLSCertPath, cfg.TLSKeyPath)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var grpcServer *grpc.Server
	if cfg.GRPCAddress != "" {
		grpcServer, err = newGRPCServer(cfg, v1.NewGRPCServer(maker, resolver, a, zapLogger), a)
		if err != nil {
			return err
		}
		lis, err := net.Listen("tcp", cfg.GRPCAddress)
		if err != nil {
			return err
		}
		go func() {
			zapLogger.Info("gRPC сервер запущен", zap.String("address", cfg.GRPCAddress))
			if err := grpcServer.Serve(lis); err != nil {
				errCh <- err
			}
		}()
	}

	select {
	case <-ctx.Done():
		zapLogger.Info("Получен сигнал остановки")
	case err := <-errCh:
		zapLogger.Error("Сервер остановлен с ошибкой", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if grpcServer != nil {
		grpcServer.GracefulStop()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	zapLogger.Info("Сервер остановлен")
	return nil
}

func newGRPCServer(cfg *config.Config, impl v1.LinkMakerServer, a *auth.Auth) (*grpc.Server, error) {
	opts := []grpc.ServerOption{grpc.UnaryInterceptor(v1.UnaryAuthInterceptor(a))}
	if cfg.EnableHTTPS {
		creds, err := credentials.NewServerTLSFromFile(cfg.TLSCertPath, cfg.TLSKeyPath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, grpc.Creds(creds))
	}
	s := grpc.NewServer(opts...)
	v1.RegisterLinkMakerServer(s, impl)
	return s, nil
}
