package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/halteresai/server/internal/account"
	"github.com/halteresai/server/internal/billing"
	"github.com/halteresai/server/internal/envstruct"
	"github.com/halteresai/server/internal/errors"
	"github.com/halteresai/server/internal/flightrecorder"
	"github.com/halteresai/server/internal/importer"
	"github.com/halteresai/server/internal/logging"
	"github.com/halteresai/server/internal/program"
	"github.com/halteresai/server/internal/sqlite"
)

type application struct {
	logger         *slog.Logger
	sessionManager *scs.SessionManager
	accounts       *account.Service
	programs       *program.Service
	billing        *billing.Service
	importer       *importer.Client
	markdown       goldmark.Markdown
	flightRecorder *flightrecorder.Service
}

type config struct {
	// Addr is the address to listen on. It's possible to choose the address dynamically with localhost:0.
	Addr string `env:"HALTERES_ADDR" envDefault:"localhost:4000"`
	// BaseURL is the externally visible URL used in Stripe redirect targets.
	BaseURL string `env:"HALTERES_BASE_URL" envDefault:"http://localhost:4000"`
	// SqliteURL is the URL to the SQLite database. You can use ":memory:" for an ethereal in-memory database.
	SqliteURL string `env:"HALTERES_SQLITE_URL" envDefault:"./halteres.sqlite3"`
	// OpenAIAPIKey authenticates program generation calls.
	OpenAIAPIKey string `env:"OPENAI_API_KEY" envDefault:""`
	// StripeSecretKey authenticates Stripe API calls.
	StripeSecretKey string `env:"STRIPE_SECRET_KEY" envDefault:""`
	// StripeWebhookSecret verifies incoming Stripe webhook signatures.
	StripeWebhookSecret string `env:"STRIPE_WEBHOOK_SECRET" envDefault:""`
	// StripePriceID is the subscription price offered at checkout.
	StripePriceID string `env:"STRIPE_PRICE_ID" envDefault:""`
	// TracesDirectory enables timeout trace capture when set.
	TracesDirectory string `env:"HALTERES_TRACES_DIRECTORY" envDefault:""`
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	return runWithGenerator(ctx, logger, lookupEnv, nil)
}

// runWithGenerator wires the application together. Tests substitute the text
// generator with a stub; a nil generator selects the OpenAI-backed one.
func runWithGenerator(
	ctx context.Context,
	logger *slog.Logger,
	lookupEnv func(string) (string, bool),
	generator program.TextGenerator,
) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	var cfg config
	if err := envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	db, err := sqlite.NewDatabase(ctx, cfg.SqliteURL, logger)
	if err != nil {
		return errors.Wrap(err, "open db", slog.String("url", cfg.SqliteURL))
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "connected to db")

	sessionManager := initializeSessionManager(db)

	if generator == nil {
		generator = program.NewOpenAIGenerator(cfg.OpenAIAPIKey, logger)
	}

	var recorder *flightrecorder.Service
	if cfg.TracesDirectory != "" {
		if recorder, err = flightrecorder.New(flightrecorder.Config{
			Logger:          logger,
			TracesDirectory: cfg.TracesDirectory,
		}); err != nil {
			return errors.Wrap(err, "new flight recorder")
		}
		if err = recorder.Start(ctx); err != nil {
			return errors.Wrap(err, "start flight recorder")
		}
		defer recorder.Stop(ctx)
	}

	accounts := account.NewService(db, logger, sessionManager)
	app := application{
		logger:         logger,
		sessionManager: sessionManager,
		accounts:       accounts,
		programs:       program.NewService(db, logger, generator),
		billing: billing.NewService(accounts, logger, billing.Config{
			SecretKey:     cfg.StripeSecretKey,
			WebhookSecret: cfg.StripeWebhookSecret,
			PriceID:       cfg.StripePriceID,
			BaseURL:       cfg.BaseURL,
		}),
		importer:       importer.New(logger),
		markdown:       goldmark.New(goldmark.WithExtensions(extension.GFM)),
		flightRecorder: recorder,
	}

	if err = app.configureAndStartServer(ctx, cfg.Addr); err != nil {
		return errors.Wrap(err, "start server")
	}
	return nil
}

func initializeSessionManager(dbs *sqlite.Database) *scs.SessionManager {
	sessionManager := scs.New()
	sessionManager.Store = sqlite3store.NewWithCleanupInterval(dbs.ReadWrite, 24*time.Hour) //nolint:mnd // day
	sessionManager.Lifetime = 12 * time.Hour                                                //nolint:mnd // half a day
	sessionManager.Cookie.Persist = true
	sessionManager.Cookie.Secure = true
	sessionManager.Cookie.HttpOnly = true
	sessionManager.Cookie.SameSite = http.SameSiteStrictMode
	return sessionManager
}

func main() {
	ctx := context.Background()
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", errors.SlogError(err))
		os.Exit(1)
	}
}
