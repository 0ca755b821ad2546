package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/solarcrm/pipeline-crm/internal/config"
	"github.com/solarcrm/pipeline-crm/internal/infra/http/handlers"
	"github.com/solarcrm/pipeline-crm/internal/infra/integration/sheets"
	"github.com/solarcrm/pipeline-crm/internal/infra/logger"
	"github.com/solarcrm/pipeline-crm/internal/infra/mail"
	"github.com/solarcrm/pipeline-crm/internal/infra/notify"
	"github.com/solarcrm/pipeline-crm/internal/infra/queue"
	"github.com/solarcrm/pipeline-crm/internal/infra/session"
	"github.com/solarcrm/pipeline-crm/internal/infra/worker"
	"github.com/solarcrm/pipeline-crm/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Gateway
	gateway := sheets.NewClient(cfg.SheetsAPIURL, zl.Named("sheets"))

	// 2. Session storage
	var store usecase.SessionStore = session.NewMemoryStore()
	var redisCheck handlers.Check
	if cfg.RedisURL != "" {
		rs, err := session.NewRedisStore(cfg.RedisURL, cfg.SessionTTL, zl)
		if err != nil {
			zl.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer rs.Close()
		store = rs
		redisCheck = rs.Ping
	}

	// 3. Notifications: inbox for the UI, log, and alerts over RabbitMQ
	inbox := notify.NewInbox()
	sinks := notify.Fanout{inbox, notify.NewLog(zl.Named("notify"))}
	var rabbitCheck handlers.Check
	if cfg.RabbitMQURL != "" {
		mq, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			zl.Fatal("failed to connect to rabbitmq", zap.Error(err))
		}
		defer mq.Close()
		sinks = append(sinks, queue.NewProducer(mq.Ch))
		rabbitCheck = func(context.Context) error {
			if !mq.Healthy() {
				return errors.New("connection closed")
			}
			return nil
		}

		if cfg.Mail.Enabled() {
			sender := mail.NewEmailSender(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Password, cfg.Mail.From, cfg.Mail.AlertEmail)
			alerts := queue.NewAlertWorker(mq.Ch, sender, zl.Named("alerts"))
			go func() {
				if err := alerts.Start(ctx); err != nil {
					zl.Error("alert worker exited", zap.Error(err))
				}
			}()
		}
	}

	// 4. Use cases
	auth := usecase.NewAuth(gateway, store, sinks, zl.Named("auth"))
	workspace := usecase.NewWorkspace(gateway, auth, sinks, zl.Named("leads"))
	workspace.OnEvict(inbox.Forget)
	users := usecase.NewUserService(gateway, sinks, zl.Named("users"))

	// 5. Scheduled refetch
	refresher := worker.NewRefreshWorker(workspace, cfg.RefreshSchedule, zl.Named("refresh"))
	if err := refresher.Start(); err != nil {
		zl.Fatal("refresh worker", zap.Error(err))
	}
	defer refresher.Stop()

	// 6. Router
	health := handlers.NewHealthHandler(map[string]handlers.Check{
		"sheets":   gateway.Ping,
		"redis":    redisCheck,
		"rabbitmq": rabbitCheck,
	})
	router := handlers.NewRouter(handlers.RouterDeps{
		Auth:            auth,
		Workspace:       workspace,
		Users:           users,
		Inbox:           inbox,
		Health:          health,
		AllowedOrigins:  cfg.AllowedOrigins,
		LoginsPerMinute: cfg.LoginRatePerMinute,
		Log:             zl,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("starting http server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("forced shutdown", zap.Error(err))
	}
}
