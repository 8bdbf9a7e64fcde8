package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bryanwahyu/contract-review/internal/application"
	apparchive "github.com/bryanwahyu/contract-review/internal/application/archive"
	appreview "github.com/bryanwahyu/contract-review/internal/application/review"
	"github.com/bryanwahyu/contract-review/internal/config"
	"github.com/bryanwahyu/contract-review/internal/domain/archive"
	"github.com/bryanwahyu/contract-review/internal/domain/review"
	"github.com/bryanwahyu/contract-review/internal/infra/ai/mock"
	"github.com/bryanwahyu/contract-review/internal/infra/ai/openai"
	"github.com/bryanwahyu/contract-review/internal/infra/ai/vertex"
	mysqlp "github.com/bryanwahyu/contract-review/internal/infra/db/mysql"
	pgp "github.com/bryanwahyu/contract-review/internal/infra/db/postgres"
	sqlitep "github.com/bryanwahyu/contract-review/internal/infra/db/sqlite"
	"github.com/bryanwahyu/contract-review/internal/infra/document"
	"github.com/bryanwahyu/contract-review/internal/infra/httpserver"
	minioStore "github.com/bryanwahyu/contract-review/internal/infra/storage"
	"github.com/bryanwahyu/contract-review/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	factory, err := newModelFactory(cfg)
	if err != nil {
		log.Fatalf("model init error: %v", err)
	}

	checkers := map[string]middleware.HealthChecker{}

	// archive opsional: db + minio
	var archiveSvc *apparchive.Service
	if cfg.Archive.Enabled {
		db, repo, err := openArchive(ctx, cfg)
		if err != nil {
			log.Fatalf("%s connect error: %v", cfg.Archive.Driver, err)
		}
		defer db.Close()
		checkers["database"] = &middleware.DatabaseHealthChecker{DB: db}
		archiveSvc = &apparchive.Service{Repo: repo, Clock: application.SystemClock{}}

		if cfg.Minio.Enabled {
			store, err := minioStore.New(ctx,
				cfg.Minio.Endpoint,
				cfg.Minio.Region,
				cfg.Minio.BucketName,
				cfg.Minio.AccessKey,
				cfg.Minio.SecretKey,
				cfg.Minio.UseSSL,
			)
			if err != nil {
				log.Fatalf("minio init error: %v", err)
			}
			archiveSvc.Documents = store
			checkers["storage"] = store
		}
	}

	// init service
	reviews := &appreview.Service{
		Models:  factory,
		PDF:     document.NewInspector(),
		Clock:   application.SystemClock{},
		IdleTTL: cfg.Workspace.IdleTTL,
	}
	if archiveSvc != nil {
		reviews.Archive = archiveSvc
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimit.Capacity, cfg.RateLimit.RefillRate)
	handler := httpserver.NewRouter(reviews, archiveSvc, httpserver.Options{
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		CORSOrigins:    cfg.Server.CORSOrigins,
		AccessKeys:     cfg.Auth.Keys,
		Limiter:        limiter,
		Checkers:       checkers,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	// run server
	g.Go(func() error {
		log.Printf("server listening on %s provider=%s archive=%t", addr, cfg.Model.Provider, archiveSvc != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// buang workspace yang idle
	g.Go(func() error {
		return reviews.RunSweeper(gctx, cfg.Workspace.SweepInterval)
	})

	g.Go(func() error {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case now := <-ticker.C:
				limiter.Prune(now, 10*time.Minute)
			}
		}
	})

	// graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		log.Println("shutting down server...")
		ctx2, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx2)
	})

	if err := g.Wait(); err != nil {
		log.Printf("server error: %v", err)
	}
	log.Printf("stopped, %d workspaces discarded", reviews.Shutdown())
}

func newModelFactory(cfg *config.Config) (review.ModelFactory, error) {
	switch cfg.Model.Provider {
	case "openai":
		return openai.Factory{Model: cfg.Model.Name, BaseURL: cfg.Model.BaseURL, MaxTokens: cfg.Model.MaxTokens}, nil
	case "vertex":
		return vertex.Factory{ProjectID: cfg.Model.ProjectID, Region: cfg.Model.Region, Model: cfg.Model.Name}, nil
	case "mock":
		log.Printf("using mock model provider, replies are canned")
		return mock.Factory{}, nil
	}
	return nil, fmt.Errorf("unknown model provider %q", cfg.Model.Provider)
}

func openArchive(ctx context.Context, cfg *config.Config) (*sql.DB, archive.Repository, error) {
	switch cfg.Archive.Driver {
	case "mysql":
		db, err := mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			return nil, nil, err
		}
		if err := mysqlp.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		return db, mysqlp.NewReportRepository(db), nil
	case "postgres":
		db, err := pgp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			return nil, nil, err
		}
		if err := pgp.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		return db, pgp.NewReportRepository(db), nil
	case "sqlite":
		db, err := sqlitep.Open(ctx, cfg.Archive.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return db, sqlitep.NewReportRepository(db), nil
	}
	return nil, nil, fmt.Errorf("unknown archive driver %q", cfg.Archive.Driver)
}
