package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"jira-telegram-bridge/config"
	_ "jira-telegram-bridge/docs" // Swagger docs
	"jira-telegram-bridge/internal/attachment"
	"jira-telegram-bridge/internal/automation"
	chatTelegram "jira-telegram-bridge/internal/chat/telegram"
	"jira-telegram-bridge/internal/correlation"
	"jira-telegram-bridge/internal/delivery"
	"jira-telegram-bridge/internal/directory"
	"jira-telegram-bridge/internal/echo"
	"jira-telegram-bridge/internal/httpserver"
	"jira-telegram-bridge/internal/metrics"
	outboundUC "jira-telegram-bridge/internal/outbound/usecase"
	jiraRepo "jira-telegram-bridge/internal/tracker/repository/jira"
	"jira-telegram-bridge/internal/webhook"
	"jira-telegram-bridge/pkg/gsheets"
	pkgJira "jira-telegram-bridge/pkg/jira"
	"jira-telegram-bridge/pkg/log"
	"jira-telegram-bridge/pkg/telegram"
)

// @title       Jira Telegram Bridge API
// @description Forwards Jira comments and attachments to Telegram and writes chat replies back to Jira.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		os.Exit(1)
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting Jira Telegram Bridge...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)
	logger.Infof(ctx, "Jira site: %s", cfg.Jira.Domain)

	// 3. Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics.MustRegister(registry)

	// 4. Tracker
	jiraClient, err := pkgJira.NewClient(cfg.Jira.Domain, cfg.Jira.Email, cfg.Jira.APIToken)
	if err != nil {
		logger.Fatalf(ctx, "Failed to create Jira client: %v", err)
	}
	trackerRepo := jiraRepo.New(jiraClient, logger)

	// 5. Correlation
	echoCache := echo.New(cfg.Correlation.EchoTTL, echo.DefaultMaxEntries)
	pending := correlation.NewPendingCache(cfg.Correlation.PendingTTL, cfg.Correlation.PendingMaxEntries)
	correlator, err := correlation.New(logger, correlation.Config{
		Domain:          cfg.Jira.Domain,
		Window:          cfg.Correlation.PendingTTL,
		LookupTimeout:   cfg.Correlation.LookupTimeout,
		BridgeAccountID: cfg.Jira.AccountID,
		DeliveredTTL:    cfg.Correlation.DeliveredTTL,
		Match:           correlation.MatchPolicy{AllowSubstring: cfg.Correlation.SubstringMatch},
	}, pending, echoCache, trackerRepo)
	if err != nil {
		logger.Fatalf(ctx, "Failed to create correlator: %v", err)
	}

	// 6. Download
	downloader, err := attachment.NewDownloader(jiraClient, attachment.Config{
		Policy: attachment.RetryPolicy{
			MaxAttemptsPerURL: cfg.Download.MaxRetriesPerURL,
			Delay:             cfg.Download.RetryDelay,
			Backoff:           cfg.Download.BackoffSchedule,
			JitterPct:         cfg.Download.JitterPct,
		},
		AttemptTimeout: cfg.Download.AttemptTimeout,
		MinBytes:       cfg.Download.MinBytes,
	}, logger)
	if err != nil {
		logger.Fatalf(ctx, "Failed to create downloader: %v", err)
	}

	// 7. Chat
	bot, err := newTelegramBot(cfg.Telegram)
	if err != nil {
		logger.Fatalf(ctx, "Failed to connect Telegram bot: %v", err)
	}
	logger.Infof(ctx, "Telegram bot @%s connected", bot.Username())
	sink := chatTelegram.New(bot, logger)

	// 8. Directory
	resolver := newDirectory(ctx, cfg, logger)

	// 9. Pipeline
	deliverer := delivery.New(logger, downloader, sink, resolver, delivery.Config{
		SendInterval: cfg.Delivery.SendInterval,
	})
	automationUC := automation.New(correlator, deliverer, logger)

	var webhookHandler httpserver.WebhookHandler
	if cfg.Webhook.Enabled {
		webhookHandler = webhook.NewHandler(automationUC, webhook.Config{
			IPFilterEnabled: len(cfg.Webhook.AllowedIPs) > 0,
			AllowedIPs:      cfg.Webhook.AllowedIPs,
			MaxBodyBytes:    cfg.Webhook.MaxBodyBytes,
			RateLimit: webhook.RateLimitConfig{
				Enabled:           cfg.Webhook.RateLimit.Enabled,
				MaxRequests:       cfg.Webhook.RateLimit.MaxRequests,
				Window:            cfg.Webhook.RateLimit.Window,
				BlacklistDuration: cfg.Webhook.RateLimit.BlacklistDuration,
			},
			DispatchTimeout: cfg.Webhook.DispatchTimeout,
		}, logger)
	} else {
		logger.Warn(ctx, "Webhook ingress disabled by config")
	}

	// 10. Internal write API
	writer := outboundUC.New(logger, trackerRepo, echoCache)

	// 11. Public URL hint
	if cfg.Ngrok.APIURL != "" {
		go func() {
			publicURL, ngrokErr := detectNgrokURL(ctx, cfg.Ngrok.APIURL)
			if ngrokErr != nil {
				logger.Warnf(ctx, "Could not detect ngrok URL: %v", ngrokErr)
				return
			}
			logger.Infof(ctx, "Configure the Jira webhook to POST to %s/webhook/jira", publicURL)
		}()
	}

	// 12. HTTP Server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:         logger,
		Port:           cfg.HTTPServer.Port,
		Mode:           cfg.HTTPServer.Mode,
		Environment:    cfg.Environment.Name,
		Registry:       registry,
		WebhookHandler: webhookHandler,
		OutboundUC:     writer,
		Directory:      resolver,
		InternalKey:    cfg.InternalAPI.Key,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	// 13. Run
	if err := httpServer.Run(ctx); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		return
	}

	logger.Info(context.Background(), "Server stopped gracefully")
}

func newTelegramBot(cfg config.TelegramConfig) (*telegram.Bot, error) {
	if cfg.APIEndpoint != "" {
		return telegram.NewBotWithEndpoint(cfg.BotToken, cfg.APIEndpoint, &http.Client{Timeout: 60 * time.Second})
	}
	return telegram.NewBot(cfg.BotToken)
}

// newDirectory returns the spreadsheet directory when one is configured and
// reachable, and the default chat otherwise.
func newDirectory(ctx context.Context, cfg *config.Config, logger log.Logger) directory.Resolver {
	if cfg.Directory.SpreadsheetID == "" {
		logger.Infof(ctx, "Directory: every issue goes to %s", cfg.Telegram.DefaultChatID)
		return directory.NewStatic(cfg.Telegram.DefaultChatID)
	}

	sheets, err := gsheets.NewClientFromCredentialsFile(ctx, cfg.Directory.CredentialsPath)
	if err != nil {
		logger.Warnf(ctx, "Google Sheets directory not available: %v", err)
		logger.Warn(ctx, "→ Run `go run scripts/gsheets-auth/main.go` to generate token.json")
		return directory.NewStatic(cfg.Telegram.DefaultChatID)
	}

	logger.Info(ctx, "✅ Google Sheets directory initialized")
	return directory.NewSheets(sheets, directory.Config{
		SpreadsheetID: cfg.Directory.SpreadsheetID,
		SheetRange:    cfg.Directory.SheetRange,
		DefaultTarget: cfg.Telegram.DefaultChatID,
		CacheTTL:      cfg.Directory.CacheTTL,
	}, logger)
}
