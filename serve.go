package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"catalog-admin/config"
	"catalog-admin/database"
	"catalog-admin/internal/accounts"
	authapi "catalog-admin/internal/api/auth"
	"catalog-admin/internal/api/categories"
	"catalog-admin/internal/api/uploads"
	usersapi "catalog-admin/internal/api/users"
	"catalog-admin/internal/api/videos"
	routes "catalog-admin/internal/app/http"
	"catalog-admin/internal/app/http/middleware"
	"catalog-admin/internal/assets"
	"catalog-admin/internal/content"
	"catalog-admin/internal/domain/media"
	"catalog-admin/internal/infra/cache"
	"catalog-admin/internal/infra/identity"
	"catalog-admin/internal/infra/storage"
	"catalog-admin/internal/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

const shutdownTimeout = 15 * time.Second

func makeServeCMD() cli.Command {
	return cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Serves the API",
		Action:  serve,
	}
}

func serve(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DBURL)
	if err != nil {
		return err
	}

	store, err := storage.NewS3Store(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	locator := media.NewLocator(cfg.Storage.DownloadHost, cfg.Storage.Bucket)
	cleaner := assets.NewCleaner(store, locator, logger, cfg.AssetCleanupConcurrency)

	contentSvc := content.NewService(
		content.NewCategoryStore(db),
		content.NewVideoStore(db),
		cleaner,
		logger,
		content.Options{
			Fanout:         cfg.AssetCleanupConcurrency,
			CleanupTimeout: cfg.AssetCleanupTimeout,
		},
	)

	var deleter identity.AccountDeleter
	if cfg.FirebaseCredentials != "" {
		creds, err := readCredentials(cfg.FirebaseCredentials)
		if err != nil {
			return err
		}
		admin, err := identity.NewAdminClient(ctx, cfg.FirebaseProjectID, creds)
		if err != nil {
			return err
		}
		deleter = admin
	} else {
		logger.Warn("FIREBASE_CREDENTIALS not set, user deletes will keep identity accounts")
	}
	accountsSvc := accounts.NewService(accounts.NewGormStore(db), deleter, logger)

	var denylist session.Denylist
	if cfg.Redis.Addr != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
		defer rc.Close()
		denylist = rc
	}
	sessions := session.NewManager(cfg.JWTSecret, cfg.SessionTTL, denylist)
	cookie := session.Cookie{Name: cfg.SessionCookie, Secure: cfg.Production()}

	r := gin.New()
	r.Use(middleware.Recovery(logger), middleware.RequestLogger(logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, routes.Handlers{
		Session:    authapi.NewSessionHandler(identity.NewIDTokenVerifier(ctx, cfg.FirebaseProjectID), accountsSvc, sessions, cookie, logger),
		Categories: categories.NewHandler(contentSvc, logger),
		Videos:     videos.NewHandler(contentSvc, logger),
		Users:      usersapi.NewHandler(accountsSvc, logger),
		Uploads:    uploads.NewHandler(store, locator, cfg.UploadURLTTL, logger),
	}, middleware.AuthMiddleware(sessions, cookie, logger))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.WithField("addr", srv.Addr).Info("serving")
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "server failed")
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	}

	// Let detached asset cleanups finish; they carry their own timeout.
	contentSvc.Wait()
	logger.Info("stopped")
	return nil
}

// readCredentials accepts inline service-account JSON or a path to it.
func readCredentials(v string) ([]byte, error) {
	if strings.HasPrefix(strings.TrimSpace(v), "{") {
		return []byte(v), nil
	}
	b, err := os.ReadFile(v)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read FIREBASE_CREDENTIALS")
	}
	return b, nil
}
