package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/YaroslavBek/gigfair-core/internal/app/background"
	"github.com/YaroslavBek/gigfair-core/internal/config"
	"github.com/YaroslavBek/gigfair-core/internal/infrastructure/api"
	"github.com/YaroslavBek/gigfair-core/internal/infrastructure/clock"
	"github.com/YaroslavBek/gigfair-core/internal/infrastructure/metrics"
	"github.com/YaroslavBek/gigfair-core/internal/infrastructure/socket"
	conversationuc "github.com/YaroslavBek/gigfair-core/internal/usecase/conversation"
	notificationuc "github.com/YaroslavBek/gigfair-core/internal/usecase/notification"
	orderuc "github.com/YaroslavBek/gigfair-core/internal/usecase/order"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()
	setupLogger(cfg)

	token := os.Getenv("SYNC_AUTH_TOKEN")
	if token == "" {
		log.Fatalf("SYNC_AUTH_TOKEN was not found\n")
	}
	selfID, err := socket.IdentityFromToken(token)
	if err != nil {
		log.Fatalf("failed to parse auth token: %v\n", err)
	}

	coreMetrics := metrics.NewCoreMetrics()
	clk := clock.Real()

	// API gateway
	client := api.NewClient(cfg.API.BaseURL, token, cfg.API.Timeout(), coreMetrics)

	// Realtime session
	session, err := socket.Dial(socket.Config{
		URL:              cfg.Socket.URL,
		Token:            token,
		HandshakeTimeout: cfg.Socket.HandshakeTimeout(),
		Logger:           slog.Default(),
		Metrics:          coreMetrics,
	})
	if err != nil {
		log.Fatalf("failed to open realtime session: %v\n", err)
	}

	// Init order usecase
	store := orderuc.NewStore()
	orderUsecase := orderuc.NewDefaultOrderUsecase(
		store,
		client,
		session,
		clk,
		coreMetrics,
		cfg.Orders.AutoCompleteGrace(),
		cfg.Orders.ServiceFeeRate,
	)

	// Init conversation aggregator
	conversations, err := conversationuc.NewAggregator(
		selfID,
		client,
		session,
		clk,
		coreMetrics,
		cfg.Chat.TypingTimeout(),
	)
	if err != nil {
		log.Fatalf("failed to init conversation aggregator: %v\n", err)
	}

	// Init notification dispatcher
	notifications := notificationuc.NewDispatcher(client, session, coreMetrics)

	// Realtime fan-in
	session.OnNewMessage(conversations.HandleNewMessage)
	session.OnMessageRead(conversations.HandleMessageRead)
	session.OnUserTyping(conversations.HandleTyping)
	session.OnUserStoppedTyping(conversations.HandleStoppedTyping)
	session.OnNewNotification(notifications.Handle)

	// Baseline sync before serving anything
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	syncCtx, syncCancel := context.WithTimeout(ctx, 30*time.Second)
	defer syncCancel()
	if err := orderUsecase.Sync(syncCtx); err != nil {
		log.Fatalf("order baseline sync failed: %v\n", err)
	}
	if err := conversations.Refresh(syncCtx); err != nil {
		log.Fatalf("conversation baseline sync failed: %v\n", err)
	}
	if err := notifications.Refresh(syncCtx); err != nil {
		log.Fatalf("notification baseline sync failed: %v\n", err)
	}

	tasks := background.NewBackgroundTasks(orderUsecase, conversations, notifications,
		cfg.Orders.ResyncInterval(), cfg.Orders.RescanInterval())
	tasks.StartAll(ctx)

	if cfg.Metrics.Addr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(cfg.Metrics.Addr, mux); err != nil {
				log.Printf("metrics server error: %v\n", err)
			}
		}()
	}

	log.Printf("sync client started: env=%s user=%s\n", cfg.Env, selfID)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	cancel()
	conversations.Dispose()
	orderUsecase.StopAllTimers()
	if err := session.Close(); err != nil {
		log.Printf("session close error: %v\n", err)
	}
	log.Println("sync client stopped")
}

func setupLogger(cfg *config.CoreConfig) {
	level := slog.LevelInfo
	switch cfg.LogConfig.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var handler slog.Handler
	if cfg.LogConfig.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(handler))
}
