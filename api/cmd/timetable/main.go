package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ai-timetable/api/internal/config"
	"ai-timetable/api/internal/extract"
	"ai-timetable/api/internal/llm"
	"ai-timetable/api/internal/llm/gemini"
	"ai-timetable/api/internal/llm/openai"
	"ai-timetable/api/internal/logger"
	"ai-timetable/api/internal/service"
	"ai-timetable/api/internal/store"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:          "timetable",
		Short:        "Read a photographed timetable and keep it editable",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./config.yaml)")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(extractCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(todayCmd())
	rootCmd.AddCommand(deleteCmd())
	rootCmd.AddCommand(exportCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// app is what every command needs: config, logger, store and timezone.
type app struct {
	cfg   *config.Config
	log   *zap.Logger
	store *store.Store
	loc   *time.Location
}

func setup(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	log, err := logger.NewLogger(cfg.Log)
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	st, err := store.Open(ctx, cfg.Store, log)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return &app{cfg: cfg, log: log, store: st, loc: loc}, nil
}

func (a *app) Close() {
	_ = a.store.Close()
	_ = a.log.Sync()
}

func (a *app) pipeline() (*extract.Pipeline, error) {
	if err := a.cfg.RequireLLM(); err != nil {
		return nil, err
	}
	engines := &llm.Engines{
		Gemini: gemini.New(a.cfg.LLM.Gemini.APIKey, a.cfg.LLM.Gemini.Model),
		OpenAI: openai.New(a.cfg.LLM.OpenAI.APIKey, a.cfg.LLM.OpenAI.Model).WithBaseURL(a.cfg.LLM.OpenAI.BaseURL),
	}
	m, err := engines.Get(a.cfg.LLM.Engine)
	if err != nil {
		return nil, err
	}
	prompt, err := extract.LoadPrompt(a.cfg.Extract.PromptFile)
	if err != nil {
		return nil, err
	}
	return extract.New(m, a.log, extract.WithPrompt(prompt)), nil
}

// service builds the timetable service and loads the saved timetable.
// Without withModel no extraction is possible; edits and reads still work.
func (a *app) service(ctx context.Context, withModel bool) (*service.Service, error) {
	var ex service.Extractor = noExtractor{}
	if withModel {
		p, err := a.pipeline()
		if err != nil {
			return nil, err
		}
		ex = p
	}
	svc := service.New(ex, a.store, a.log, service.WithTimeout(a.cfg.Extract.Timeout))
	svc.Init(ctx)
	return svc, nil
}
