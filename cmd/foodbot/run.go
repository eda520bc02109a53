package foodbot

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Pablo-o-plomo/food-ai-bot/internal/bot"
	"github.com/Pablo-o-plomo/food-ai-bot/internal/coach"
	"github.com/Pablo-o-plomo/food-ai-bot/internal/config"
	"github.com/Pablo-o-plomo/food-ai-bot/internal/recognize"
	"github.com/Pablo-o-plomo/food-ai-bot/internal/speech"
	"github.com/Pablo-o-plomo/food-ai-bot/internal/store"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Telegram bot",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if cfg.TelegramToken == "" {
			return fmt.Errorf("TELEGRAM_TOKEN is required to run the bot")
		}

		return withStore(func(st store.Store) error {
			food := recognize.NewClient(cfg.OpenAIBaseURL, cfg.OpenAIKey, cfg.FoodModel)
			stt := speech.NewTranscriber(cfg.OpenAIBaseURL, cfg.OpenAIKey, cfg.SpeechModel)
			adviser := coach.New(cfg.OpenAIBaseURL, cfg.OpenAIKey, cfg.CoachModel)

			b, err := bot.New(cfg.TelegramToken, cfg.ProviderToken, st, food, stt, adviser)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := b.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
