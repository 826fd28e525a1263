package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jessevdk/go-flags"
	"github.com/rs/cors"

	"slackbridge/clients"
	slackclient "slackbridge/clients/slack"
	"slackbridge/config"
	"slackbridge/core/log"
	"slackbridge/handlers"
	"slackbridge/middleware"
	"slackbridge/services/replies"
	slackusecase "slackbridge/usecases/slack"
)

type Options struct {
	EnvFile     string `long:"env-file" default:".env" description:"Path to a dotenv file loaded before reading the environment"`
	VerifyToken bool   `long:"verify-token" description:"Call auth.test with BOT_TOKEN at startup and refuse to start if it fails"`
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Error("❌ Fatal error", "error", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return nil
		}
		return err
	}

	cfg, err := config.LoadConfig(opts.EnvFile)
	if err != nil {
		return err
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)

	slackClient := slackclient.NewSlackClient(cfg.SlackConfig.BotToken)

	var botIdentity *clients.SlackAuthTestResponse
	if cfg.VerifyBotToken || opts.VerifyToken {
		botIdentity, err = verifyBotToken(slackClient)
		if err != nil {
			return err
		}
	}

	app, err := buildServer(cfg, slackClient, botIdentity)
	if err != nil {
		return err
	}
	defer app.drain()

	return handleGracefulShutdown(app.server)
}

func verifyBotToken(slackClient clients.SlackClient) (*clients.SlackAuthTestResponse, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resp, err := slackClient.AuthTest(ctx)
	if err != nil {
		return nil, fmt.Errorf("bot token verification failed: %w", err)
	}
	log.Info("🔑 Bot token verified", "bot_user", resp.UserID, "bot_id", resp.BotID, "team", resp.TeamID)
	return resp, nil
}

// application holds the server and the background work that must finish
// after it stops accepting requests.
type application struct {
	server       *http.Server
	replyService *replies.AsyncReplyService
	alerts       *middleware.ErrorAlertMiddleware
}

// drain waits for queued replies, then for alerts raised while serving.
func (a *application) drain() {
	a.replyService.StopWait()
	a.alerts.Wait()
}

// buildServer wires every component from cfg. Call drain once the server has
// shut down.
func buildServer(
	cfg *config.AppConfig,
	slackClient clients.SlackClient,
	botIdentity *clients.SlackAuthTestResponse,
) (*application, error) {
	dispatcher := slackusecase.NewDispatcher()
	if err := slackusecase.RegisterGreetings(dispatcher); err != nil {
		return nil, fmt.Errorf("failed to register handlers: %w", err)
	}

	replyService := replies.NewAsyncReplyService(slackClient, cfg.ReplyWorkers)

	alertMiddleware := middleware.NewErrorAlertMiddleware(middleware.SlackAlertConfig{
		WebhookURL:  cfg.SlackConfig.AlertWebhookURL,
		Environment: cfg.Environment,
		AppName:     cfg.ServiceName,
	}, slackClient)

	slackHandler := handlers.NewSlackWebhooksHandler(
		handlers.NewVerifier(cfg.SlackConfig.SigningSecret),
		dispatcher,
		replyService,
		cfg.CommandReplyMode,
		botIdentity,
		alertMiddleware,
	)
	healthHandler := handlers.NewHealthHandler(cfg.ServiceName)

	router := mux.NewRouter()
	healthHandler.SetupEndpoints(router)
	slackHandler.SetupEndpoints(router)

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins(),
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})

	server := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           middleware.RequestLogging(alertMiddleware.HTTPMiddleware(c.Handler(router))),
		ReadHeaderTimeout: 30 * time.Second,
	}

	return &application{
		server:       server,
		replyService: replyService,
		alerts:       alertMiddleware,
	}, nil
}

func handleGracefulShutdown(server *http.Server) error {
	// Channel to listen for interrupt signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	serverErr := make(chan error, 1)
	go func() {
		log.Info("✅ Listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
		log.Info("🛑 Shutdown signal received, cleaning up...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("❌ Server shutdown error", "error", err)
		return err
	}

	log.Info("✅ Server stopped gracefully")
	return nil
}
