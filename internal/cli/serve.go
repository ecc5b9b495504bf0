package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/varunhm/honeynet/internal/callback"
	"github.com/varunhm/honeynet/internal/config"
	"github.com/varunhm/honeynet/internal/detect"
	"github.com/varunhm/honeynet/internal/engage"
	"github.com/varunhm/honeynet/internal/engine"
	"github.com/varunhm/honeynet/internal/gateway"
	"github.com/varunhm/honeynet/internal/hooks"
	"github.com/varunhm/honeynet/internal/intel"
	"github.com/varunhm/honeynet/internal/logging"
	"github.com/varunhm/honeynet/internal/render"
	"github.com/varunhm/honeynet/internal/store"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the honeypot decision engine",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}
}

func runServe(cmd *cobra.Command) error {
	cfg, err := config.Load(paths.Config)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	log = logging.New(nil, cfg.Logging.Level)

	issues := config.Validate(&cfg)
	for _, issue := range issues {
		log.Error().Str("path", issue.Path).Msg(issue.Message)
	}
	if len(issues) > 0 {
		return fmt.Errorf("config has %d validation issue(s)", len(issues))
	}

	if err := paths.EnsureDirs(); err != nil {
		return fmt.Errorf("creating directories: %w", err)
	}

	var sessions engine.SessionStore
	switch cfg.Session.Store {
	case "memory":
		sessions = engine.NewMemoryStore()
	default:
		dbPath := filepath.Join(paths.Data, "honeynet.db")
		db, err := store.Open(dbPath, log)
		if err != nil {
			return fmt.Errorf("opening session store: %w", err)
		}
		defer db.Close()
		sessions = store.NewSQLiteSessionStore(db)
	}

	hookMgr := hooks.NewManager(log)

	dispatcher := callback.NewDispatcher(callback.Config{
		URL:            cfg.Callback.URL,
		AuthToken:      cfg.Callback.AuthToken,
		MaxRetries:     cfg.Callback.MaxRetries,
		AttemptTimeout: time.Duration(cfg.Callback.AttemptTimeoutSeconds) * time.Second,
	}, sessions, hookMgr, log)
	defer dispatcher.Wait()

	orchestrator := engine.NewOrchestrator(
		sessions,
		detect.New(),
		intel.NewExtractor(log),
		engage.NewEvaluator(cfg.Engagement.SafetyCap, cfg.Engagement.SoftCap),
		dispatcher,
		hookMgr,
		log,
	)

	renderer := buildRenderer(cfg)

	server := gateway.New(cfg, orchestrator, sessions, renderer, hookMgr, log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("bind", cfg.Server.Bind).
		Int("port", cfg.Server.Port).
		Str("store", cfg.Session.Store).
		Msg("starting honeynet")

	return server.Start(ctx)
}

// buildRenderer assembles the reply pipeline. The LLM renderer, when
// configured, always has the template renderer behind it so a provider
// outage degrades to canned replies instead of failing the turn.
func buildRenderer(cfg config.Config) render.Renderer {
	if cfg.Renderer.Provider == "openai" {
		return render.NewChain(
			render.NewOpenAIRenderer(render.OpenAIOptions{
				APIKey: cfg.Renderer.APIKey,
				Model:  cfg.Renderer.Model,
			}),
			render.NewTemplateRenderer(),
		)
	}
	return render.NewTemplateRenderer()
}
