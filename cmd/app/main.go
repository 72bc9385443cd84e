package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wichananm65/craft-catalog/internal/admin"
	"github.com/wichananm65/craft-catalog/internal/catalog"
	"github.com/wichananm65/craft-catalog/internal/config"
	"github.com/wichananm65/craft-catalog/internal/database"
	"github.com/wichananm65/craft-catalog/internal/enquiry"
	"github.com/wichananm65/craft-catalog/internal/logging"
	"github.com/wichananm65/craft-catalog/internal/product"
	"github.com/wichananm65/craft-catalog/internal/server"
	"github.com/wichananm65/craft-catalog/internal/upload"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "catalog:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, dialect, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.Migrate(ctx, db, dialect); err != nil {
		return err
	}
	log.Info("database ready", zap.String("dialect", string(dialect)))

	images, err := upload.NewStore(cfg.UploadDir)
	if err != nil {
		return err
	}

	auth, err := admin.NewAuthenticator(cfg.AdminPassword, cfg.AdminPasswordHash)
	if err != nil {
		return err
	}
	sessions, err := admin.NewSessionStore(cfg.SessionSecret)
	if err != nil {
		return err
	}
	if cfg.SessionSecret == "" {
		log.Warn("SESSION_SECRET not set, sessions will not survive a restart")
	}

	app := server.New(server.Deps{
		Products:  product.NewService(product.NewSQLRepository(db, dialect), images, log),
		Enquiries: enquiry.NewService(enquiry.NewSQLRepository(db, dialect), log),
		Admin: admin.NewHandler(auth, sessions, admin.CookieOptions{
			Secure:   cfg.CookieSecure,
			SameSite: cfg.CookieSameSite,
		}, log),
		Classifier: catalog.New(catalog.Config{
			ImageBaseURL:     cfg.PublicBaseURL,
			PlaceholderImage: cfg.PlaceholderImage,
			OrderPhone:       cfg.OrderPhone,
		}),
		FrontendOrigin: cfg.FrontendOrigin,
		UploadDir:      cfg.UploadDir,
		Log:            log,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("catalog server listening", zap.String("addr", cfg.Addr))
		return app.Listen(cfg.Addr)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		return app.ShutdownWithTimeout(shutdownTimeout)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
