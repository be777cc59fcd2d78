package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/minhnghia2k3/lumigram/internal/api"
	"github.com/minhnghia2k3/lumigram/internal/api/apiimpl"
	"github.com/minhnghia2k3/lumigram/internal/auth"
	"github.com/minhnghia2k3/lumigram/internal/comments"
	"github.com/minhnghia2k3/lumigram/internal/feed"
	"github.com/minhnghia2k3/lumigram/internal/localstate"
	_ "github.com/minhnghia2k3/lumigram/internal/migrations"
	"github.com/minhnghia2k3/lumigram/internal/profile"
	"github.com/minhnghia2k3/lumigram/internal/ratelimit"
	"github.com/minhnghia2k3/lumigram/internal/repositories/feedarchive"
	repositories "github.com/minhnghia2k3/lumigram/internal/repositories/fx"
	"github.com/minhnghia2k3/lumigram/internal/repositories/storyarchive"
	"github.com/minhnghia2k3/lumigram/internal/session"
	"github.com/minhnghia2k3/lumigram/internal/stories"
	"github.com/minhnghia2k3/lumigram/internal/syncer"
	"github.com/minhnghia2k3/lumigram/internal/syncer/syncerimpl"
	"github.com/minhnghia2k3/lumigram/internal/toggle"
	"github.com/minhnghia2k3/lumigram/pkg/config"
	"github.com/minhnghia2k3/lumigram/pkg/formatter"
	"github.com/minhnghia2k3/lumigram/pkg/logger"
	pkgpgx "github.com/minhnghia2k3/lumigram/pkg/pgx"
	"github.com/pressly/goose/v3"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(
		config.New,
		logger.FxOption,
		pkgpgx.New,
	),
	fx.Provide(
		fx.Annotate(
			apiimpl.New,
			fx.As(new(api.Client)),
		),
		fx.Annotate(
			syncerimpl.New,
			fx.As(new(syncer.Client)),
		),
		auth.New,
		comments.New,
		profile.New,
		stories.New,
		func() ratelimit.Limiter {
			return ratelimit.NewInMemoryLimiter(1, time.Minute, 2)
		},
	),
	session.Module,
	localstate.Module,
	toggle.Module,
	feed.Module,
	repositories.Module,
	fx.Invoke(migrate),
	fx.Invoke(run),
)

func migrate(cfg *config.Config) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	db, err := sql.Open("pgx", cfg.GetDSN())
	if err != nil {
		return err
	}
	defer db.Close()

	// Migrations are compiled in; no directory is scanned.
	return goose.Up(db, ".")
}

func run(lc fx.Lifecycle, log logger.Logger, cfg *config.Config,
	authSvc *auth.Service, profileSvc *profile.Service, syncClient syncer.Client,
	postArchive feedarchive.Repository, storyArchive storyarchive.Repository) {
	runCtx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go startHTTPServer(log, cfg, postArchive, storyArchive)

			if !authSvc.IsAuthenticated() {
				if err := authSvc.Login(runCtx, cfg.Account.Identifier, cfg.Account.Password); err != nil {
					log.Error("Login failed", "error", err)
					return err
				}
			}

			if err := syncClient.ScheduleFeedSync(runCtx); err != nil {
				return err
			}
			if err := syncClient.ScheduleStorySync(runCtx); err != nil {
				return err
			}
			if err := syncClient.ScheduleArchiveCleanup(runCtx); err != nil {
				return err
			}

			// First cycle right away; the schedulers take over from here.
			go func() {
				if counts, err := profileSvc.FollowCounts(runCtx); err == nil {
					log.Info("Account ready",
						"followers", formatter.FormatNumber(counts.Followers),
						"following", formatter.FormatNumber(counts.Following),
					)
				}
				if err := syncClient.SyncFeedOnce(runCtx); err != nil {
					log.Error("Initial feed sync failed", "error", err)
				}
				if err := syncClient.SyncStoriesOnce(runCtx); err != nil {
					log.Error("Initial story sync failed", "error", err)
				}
			}()

			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}

func startHTTPServer(log logger.Logger, cfg *config.Config,
	postArchive feedarchive.Repository, storyArchive storyarchive.Repository) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		healthCheckHandler(w, r, log)
	})
	mux.Handle("/archive/posts", archivePostsHandler(log, postArchive))
	mux.Handle("/archive/stories", archiveStoriesHandler(log, storyArchive))

	log.Info(fmt.Sprintf("Starting server on :%d", cfg.App.Port))

	if err := http.ListenAndServe(fmt.Sprintf(":%d", cfg.App.Port), mux); err != nil {
		log.Error("Server failed to start", "error", err)
	}
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request, log logger.Logger) {
	log.Debug("Health check request received", "method", r.Method, "url", r.URL.String())
	w.Header().Set("Content-Type", "text/plain")
	if _, err := w.Write([]byte("ok")); err != nil {
		log.Error("Failed to write response", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
