// Command blogd starts the blog REST backend.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	blog "github.com/goliatone/go-blog"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	addr := flag.String("addr", ":3000", "listen address")
	dsn := flag.String("dsn", "file:blog.db?cache=shared", "sqlite DSN")
	jwtKey := flag.String("jwt-key", os.Getenv("JWT_SECRET"), "HS256 signing key (required)")
	tokenTTL := flag.Duration("token-ttl", blog.DefaultTokenTTL, "bearer token TTL")
	bcryptCost := flag.Int("bcrypt-cost", 0, "bcrypt work factor (0 = library default)")
	flag.Parse()

	zlog, _ := zap.NewProduction()
	defer func() { _ = zlog.Sync() }()
	logger := &zapLogger{sugar: zlog.Sugar()}

	zlog.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", *addr),
	)

	if *jwtKey == "" {
		zlog.Fatal("missing jwt signing key (--jwt-key or JWT_SECRET)")
	}

	cfg := blog.Config{
		Addr:       *addr,
		DSN:        *dsn,
		SigningKey: *jwtKey,
		TokenTTL:   *tokenTTL,
		BcryptCost: *bcryptCost,
	}

	db, err := blog.OpenDB(cfg.DSN)
	if err != nil {
		zlog.Fatal("open database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := blog.CreateTables(ctx, db); err != nil {
		cancel()
		zlog.Fatal("create tables", zap.Error(err))
	}
	cancel()

	server := blog.NewServer(cfg, db, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.App.Listen(cfg.Addr)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			zlog.Fatal("server stopped", zap.Error(err))
		}
	case sig := <-stop:
		zlog.Info("shutting down", zap.String("signal", sig.String()))
		if err := server.App.ShutdownWithTimeout(10 * time.Second); err != nil {
			zlog.Error("shutdown", zap.Error(err))
		}
	}
}

// zapLogger adapts zap's sugared logger to the blog.Logger interface.
type zapLogger struct {
	sugar *zap.SugaredLogger
}

func (z *zapLogger) Debug(format string, args ...any) { z.sugar.Debugf(format, args...) }
func (z *zapLogger) Info(format string, args ...any)  { z.sugar.Infof(format, args...) }
func (z *zapLogger) Warn(format string, args ...any)  { z.sugar.Warnf(format, args...) }
func (z *zapLogger) Error(format string, args ...any) { z.sugar.Errorf(format, args...) }
