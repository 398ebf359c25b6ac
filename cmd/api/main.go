package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-exercise-tracker/internal/config"
	"github.com/ovaphlow/pitchfork/service-exercise-tracker/internal/event"
	"github.com/ovaphlow/pitchfork/service-exercise-tracker/internal/exercise"
	exerciserepo "github.com/ovaphlow/pitchfork/service-exercise-tracker/internal/exercise/repo"
	"github.com/ovaphlow/pitchfork/service-exercise-tracker/internal/router"
	"github.com/ovaphlow/pitchfork/service-exercise-tracker/internal/user"
	userrepo "github.com/ovaphlow/pitchfork/service-exercise-tracker/internal/user/repo"
	"github.com/ovaphlow/pitchfork/service-exercise-tracker/pkg/database"
	"github.com/ovaphlow/pitchfork/service-exercise-tracker/pkg/utilities"
)

// stores bundles the repositories of the selected backend.
type stores struct {
	users     user.Repository
	exercises exercise.Repository
	pinger    router.Pinger
	close     func() error
}

func main() {
	// best-effort: a missing .env just means real env or defaults
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	lg, err := utilities.Init(utilities.Config{
		Level:  cfg.Log.Level,
		Dev:    cfg.Log.Dev,
		File:   cfg.Log.File,
		MaxAge: cfg.Log.MaxAge,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()

	sugar := lg.Sugar()
	sugar.Infow("starting exercise tracker", "store", cfg.Store.Driver, "addr", cfg.ServerAddr())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ids := utilities.NewIDGenerator(cfg.Snowflake.Node)
	st, err := openStores(ctx, cfg, ids)
	if err != nil {
		sugar.Fatalf("store init: %v", err)
	}
	defer st.close()

	var publisher event.Publisher = event.NopPublisher{}
	if cfg.KafkaEnabled() {
		kp := event.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.TopicPrefix)
		defer func() {
			if err := kp.Close(); err != nil {
				sugar.Warnf("kafka close failed: %v", err)
			}
		}()
		publisher = kp
		sugar.Infow("publishing events", "brokers", cfg.Kafka.Brokers, "topic_prefix", cfg.Kafka.TopicPrefix)
	}

	userSvc := user.NewUserService(st.users, publisher, sugar.Named("user"),
		user.WithPublishTimeout(cfg.Kafka.PublishTimeout),
	)
	exerciseSvc := exercise.NewService(st.exercises, userSvc, sugar.Named("exercise"),
		exercise.WithPublisher(publisher),
		exercise.WithPublishTimeout(cfg.Kafka.PublishTimeout),
	)

	handler := router.RegisterRoutes(router.Deps{
		Logger:        sugar.Named("http"),
		Users:         user.NewHandler(userSvc, sugar.Named("user")),
		Exercises:     exercise.NewHandler(exerciseSvc, sugar.Named("exercise")),
		Store:         st.pinger,
		AllowedOrigin: cfg.CORS.AllowedOrigin,
	})
	srv := &http.Server{
		Addr:         cfg.ServerAddr(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     zap.NewStdLog(lg),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalf("http server failed: %v", err)
		}
	}()
	sugar.Infof("listening on %s", cfg.ServerAddr())

	<-ctx.Done()

	sugar.Info("shutting down")

	doneCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(doneCtx); err != nil {
		sugar.Warnf("http server shutdown failed: %v", err)
	}

	sugar.Info("goodbye")
}

func openStores(ctx context.Context, cfg *config.Config, ids *utilities.IDGenerator) (*stores, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		db, err := database.Open(database.Config{
			DSN:            cfg.Database.URL,
			MaxConns:       cfg.Database.MaxConns,
			Timeout:        cfg.Database.Timeout,
			TimeZone:       cfg.Database.TimeZone,
			ClientEncoding: cfg.Database.ClientEncoding,
		})
		if err != nil {
			return nil, err
		}
		users := userrepo.NewUserRepo(db, ids)
		exercises := exerciserepo.NewExerciseRepo(db, ids)

		initCtx, cancel := context.WithTimeout(ctx, cfg.Database.Timeout)
		defer cancel()
		if err := users.EnsureTable(initCtx); err != nil {
			db.Close()
			return nil, fmt.Errorf("ensure users table: %w", err)
		}
		if err := exercises.EnsureTable(initCtx); err != nil {
			db.Close()
			return nil, fmt.Errorf("ensure exercises table: %w", err)
		}
		return &stores{users: users, exercises: exercises, pinger: users, close: db.Close}, nil
	default:
		users := userrepo.NewMemoryUserRepo(ids)
		return &stores{
			users:     users,
			exercises: exerciserepo.NewMemoryExerciseRepo(ids),
			pinger:    users,
			close:     func() error { return nil },
		}, nil
	}
}
