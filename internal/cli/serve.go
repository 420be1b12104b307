package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/sancris/concierge/internal/bot"
	"github.com/sancris/concierge/internal/lang"
	"github.com/sancris/concierge/internal/llm"
	"github.com/sancris/concierge/internal/places"
	"github.com/sancris/concierge/internal/store"
	"github.com/sancris/concierge/internal/telegram"
	"github.com/sancris/concierge/internal/weather"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bot until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := store.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer func() {
			if err := st.Close(); err != nil {
				logger.Error("failed to close store", "error", err)
			}
		}()

		model, err := llm.NewModel(cfg)
		if err != nil {
			return fmt.Errorf("init llm: %w", err)
		}

		api, err := telegram.NewBotAPI(cfg.TelegramBotToken, logger)
		if err != nil {
			return fmt.Errorf("connect to telegram: %w", err)
		}

		deps := bot.Deps{
			Transport: api,
			Conv:      st,
			Venues:    st,
			Gen:       model,
			Detector:  lang.NewDetector(),
			Logger:    logger,
		}
		if cfg.GoogleMapsAPIKey != "" {
			pc, err := places.New(cfg.GoogleMapsAPIKey, logger)
			if err != nil {
				return fmt.Errorf("init places client: %w", err)
			}
			deps.Places = pc
		} else {
			logger.Warn("GOOGLE_MAPS_API_KEY not set, places search disabled")
		}
		if cfg.OpenWeatherAPIKey != "" {
			deps.Weather = weather.New(cfg.OpenWeatherAPIKey)
		} else {
			logger.Warn("OPENWEATHER_API_KEY not set, weather forecasts disabled")
		}

		b := bot.New(cfg, deps)
		logger.Info("concierge started",
			"provider", cfg.LLMProvider, "model", cfg.LLMModel, "db", cfg.DBPath)
		b.Run(ctx, api)
		logger.Info("concierge stopped")
		return nil
	},
}
