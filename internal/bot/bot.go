// Package bot wires the Telegram transport to the diary core. Everything
// stateful lives in the core packages; this layer routes messages, keeps
// per-chat conversation state, and maps core errors to polite replies.
package bot

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Pablo-o-plomo/food-ai-bot/internal/coach"
	"github.com/Pablo-o-plomo/food-ai-bot/internal/recognize"
	"github.com/Pablo-o-plomo/food-ai-bot/internal/speech"
	"github.com/Pablo-o-plomo/food-ai-bot/internal/store"
)

type Bot struct {
	api           *tgbotapi.BotAPI
	store         store.Store
	food          *recognize.Client
	stt           *speech.Transcriber
	coach         *coach.Coach
	sessions      *sessions
	providerToken string
}

func New(token, providerToken string, st store.Store, food *recognize.Client, stt *speech.Transcriber, adviser *coach.Coach) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram api: %w", err)
	}
	return &Bot{
		api:           api,
		store:         st,
		food:          food,
		stt:           stt,
		coach:         adviser,
		sessions:      newSessions(),
		providerToken: providerToken,
	}, nil
}

// Run polls for updates until ctx is cancelled. A failing handler answers
// the user and keeps the poller alive.
func (b *Bot) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := b.api.GetUpdatesChan(cfg)
	log.Printf("bot started as @%s", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.dispatch(ctx, update)
		}
	}
}

func (b *Bot) dispatch(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.PreCheckoutQuery != nil:
		b.handlePreCheckout(update.PreCheckoutQuery)
	case update.Message == nil:
	case update.Message.SuccessfulPayment != nil:
		b.handleSuccessfulPayment(update.Message)
	case update.Message.Voice != nil:
		b.handleVoice(ctx, update.Message)
	case len(update.Message.Photo) > 0:
		b.handlePhoto(ctx, update.Message)
	case update.Message.IsCommand():
		b.handleCommand(update.Message)
	case update.Message.Text != "":
		b.handleText(ctx, update.Message)
	}
}

func (b *Bot) reply(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) replyWithMenu(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = mainKeyboard
	b.send(msg)
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		log.Printf("send message: %v", err)
	}
}

func (b *Bot) typing(chatID int64) {
	if _, err := b.api.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		log.Printf("send chat action: %v", err)
	}
}

// downloadFile fetches a Telegram file's bytes by file id.
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("resolve file url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create file request: %w", err)
	}
	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file body: %w", err)
	}
	return raw, nil
}
