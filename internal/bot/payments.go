package bot

import (
	"errors"
	"fmt"
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Pablo-o-plomo/food-ai-bot/internal/access"
	"github.com/Pablo-o-plomo/food-ai-bot/internal/profile"
)

const proPayload = "pro_30_days"

// hasPro checks the user's PRO access and, when missing, answers with the
// purchase prompt so callers can simply return.
func (b *Bot) hasPro(userID, chatID int64) bool {
	p, err := profile.Get(b.store, userID)
	if err != nil {
		log.Printf("pro check for user %d: %v", userID, err)
		b.reply(chatID, msgStorageFail)
		return false
	}
	if access.HasPro(p, time.Now()) {
		return true
	}
	msg := tgbotapi.NewMessage(chatID, msgNeedPro)
	msg.ReplyMarkup = proKeyboard
	b.send(msg)
	return false
}

func (b *Bot) sendProStatus(userID, chatID int64) {
	p, err := profile.Get(b.store, userID)
	if err != nil {
		log.Printf("pro status for user %d: %v", userID, err)
		b.reply(chatID, msgStorageFail)
		return
	}

	var text string
	now := time.Now()
	switch {
	case p.SubscriptionEnd != nil && p.SubscriptionEnd.After(now):
		text = fmt.Sprintf("PRO активен до %s 🔥", p.SubscriptionEnd.Format("02.01.2006"))
	case access.HasPro(p, now):
		text = "У тебя пробный доступ: голос и фото уже работают.\nPRO продлит их после пробного периода."
	default:
		text = "PRO не активен. Голос + фото + контроль питания — 790 ₽ за 30 дней."
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = proKeyboard
	b.send(msg)
}

func (b *Bot) sendProInvoice(chatID int64) {
	if b.providerToken == "" {
		b.reply(chatID, "Оплата временно недоступна. Попробуй промокод: /promo")
		return
	}
	invoice := tgbotapi.NewInvoice(
		chatID,
		"PRO доступ",
		"Голос + фото + контроль питания. 30 дней.",
		proPayload,
		b.providerToken,
		"pro",
		"RUB",
		[]tgbotapi.LabeledPrice{{Label: "PRO 30 дней", Amount: access.PriceRUB}},
	)
	b.send(invoice)
}

func (b *Bot) handlePreCheckout(q *tgbotapi.PreCheckoutQuery) {
	ok := q.InvoicePayload == proPayload
	cfg := tgbotapi.PreCheckoutConfig{
		PreCheckoutQueryID: q.ID,
		OK:                 ok,
	}
	if !ok {
		cfg.ErrorMessage = "Неизвестный товар."
	}
	if _, err := b.api.Request(cfg); err != nil {
		log.Printf("answer pre-checkout: %v", err)
	}
}

func (b *Bot) handleSuccessfulPayment(m *tgbotapi.Message) {
	userID := m.From.ID
	if err := access.Activate(b.store, userID, access.SubscriptionDays, time.Now()); err != nil {
		log.Printf("activate after payment for user %d: %v", userID, err)
		b.reply(m.Chat.ID, msgStorageFail)
		return
	}
	b.replyWithMenu(m.Chat.ID, fmt.Sprintf("🔥 PRO активирован на %d дней.", access.SubscriptionDays))
}

func (b *Bot) redeemPromo(userID, chatID int64, code string) {
	days, err := access.RedeemPromo(b.store, userID, code, time.Now())
	switch {
	case errors.Is(err, access.ErrPromoEmpty):
		b.reply(chatID, "Промокод пустой.")
	case errors.Is(err, access.ErrPromoUsed):
		b.reply(chatID, "Этот промокод уже использован.")
	case errors.Is(err, access.ErrPromoInvalid):
		b.reply(chatID, "Промокод недействителен.")
	case err != nil:
		log.Printf("redeem promo for user %d: %v", userID, err)
		b.reply(chatID, msgStorageFail)
	default:
		b.replyWithMenu(chatID, fmt.Sprintf("🔥 PRO активирован на %d дней.", days))
	}
}
