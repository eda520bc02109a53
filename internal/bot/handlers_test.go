package bot

import (
	"context"
	"path/filepath"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Pablo-o-plomo/food-ai-bot/internal/store/jsonstore"
)

func newTestBot(t *testing.T) *Bot {
	t.Helper()
	st, err := jsonstore.Open(filepath.Join(t.TempDir(), "users.json"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	// No api: handlers under test must not reach Telegram.
	return &Bot{store: st, sessions: newSessions()}
}

func TestCallbackWithoutMessageIsIgnored(t *testing.T) {
	t.Parallel()
	b := newTestBot(t)

	// Inline-mode callbacks carry no Message; the handler must bail out
	// before touching the api or any chat state.
	q := &tgbotapi.CallbackQuery{
		ID:   "q1",
		From: &tgbotapi.User{ID: 9},
		Data: cbSaveFood,
	}
	b.handleCallback(context.Background(), q)

	b.sessions.mu.Lock()
	defer b.sessions.mu.Unlock()
	if len(b.sessions.m) != 0 {
		t.Fatalf("message-less callback created session state: %v", b.sessions.m)
	}
}

func TestConfirmKeyboardOffersSaveEditCancel(t *testing.T) {
	t.Parallel()

	var data []string
	for _, row := range confirmKeyboard.InlineKeyboard {
		for _, btn := range row {
			if btn.CallbackData != nil {
				data = append(data, *btn.CallbackData)
			}
		}
	}
	want := []string{cbSaveFood, cbEditFood, cbCancelFood}
	if len(data) != len(want) {
		t.Fatalf("expected callbacks %v, got %v", want, data)
	}
	for i := range want {
		if data[i] != want[i] {
			t.Fatalf("expected callbacks %v, got %v", want, data)
		}
	}
}

func TestMainKeyboardHasWeighInButton(t *testing.T) {
	t.Parallel()

	found := false
	for _, row := range mainKeyboard.Keyboard {
		for _, btn := range row {
			if btn.Text == btnWeighIn {
				found = true
			}
		}
	}
	if !found {
		t.Fatal("weigh-in button missing from the main menu")
	}
}
