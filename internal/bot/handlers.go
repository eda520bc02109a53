package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Pablo-o-plomo/food-ai-bot/internal/ledger"
	"github.com/Pablo-o-plomo/food-ai-bot/internal/profile"
	"github.com/Pablo-o-plomo/food-ai-bot/internal/recognize"
	"github.com/Pablo-o-plomo/food-ai-bot/internal/speech"
	"github.com/Pablo-o-plomo/food-ai-bot/internal/targets"
)

const (
	msgRetryFood    = "Не получилось распознать еду. Опиши подробнее, что съел."
	msgBadEstimate  = "Цифры в оценке выглядят некорректно. Опиши еду ещё раз."
	msgRetryVoice   = "Не разобрал голос. Скажи короче и чётче."
	msgStorageFail  = "Что-то пошло не так с дневником. Попробуй ещё раз."
	msgNothingUndo  = "Сегодня ещё нет записей — отменять нечего."
	msgFoodCanceled = "Ок, не записываю."
	msgNeedPro      = "Фото и голос — это PRO. Жми /pro, чтобы открыть доступ."
)

func (b *Bot) handleCommand(m *tgbotapi.Message) {
	switch m.Command() {
	case "start":
		sess := b.sessions.get(m.Chat.ID)
		sess.State = StateIdle
		b.replyWithMenu(m.Chat.ID, fmt.Sprintf(
			"Привет, %s 👋\n\nЯ помощник по питанию:\n• считаю калории по фото, тексту и голосу\n• веду дневник\n• помогаю держать цель\n\nВыбери действие:",
			m.From.FirstName,
		))
	case "reset":
		msg := tgbotapi.NewMessage(m.Chat.ID, "Точно обнулить сегодняшний день? Это не отменить.")
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("🗑 Да, обнулить", cbResetDay),
				tgbotapi.NewInlineKeyboardButtonData("❌ Нет", cbCancelFood),
			),
		)
		b.send(msg)
	case "pro":
		b.sendProStatus(m.From.ID, m.Chat.ID)
	case "promo":
		sess := b.sessions.get(m.Chat.ID)
		sess.State = StateAwaitPromo
		b.reply(m.Chat.ID, "Введи промокод.")
	default:
		b.reply(m.Chat.ID, "Не знаю такую команду. Жми кнопки меню.")
	}
}

func (b *Bot) handleText(ctx context.Context, m *tgbotapi.Message) {
	chatID := m.Chat.ID
	userID := m.From.ID
	sess := b.sessions.get(chatID)
	text := strings.TrimSpace(m.Text)

	// Menu buttons win over any pending state.
	switch text {
	case btnAddFood:
		msg := tgbotapi.NewMessage(chatID, "Как добавим?")
		msg.ReplyMarkup = addKeyboard
		b.send(msg)
		return
	case btnToday:
		b.sendTodaySummary(userID, chatID)
		return
	case btnWeighIn:
		sess.State = StateAwaitWeight
		b.reply(chatID, "Текущий вес (кг)?")
		return
	case btnUndo:
		b.undoLast(userID, chatID)
		return
	case btnMode:
		msg := tgbotapi.NewMessage(chatID, "Выбери режим:")
		msg.ReplyMarkup = modeKeyboard
		b.send(msg)
		return
	case btnAdvice:
		sess.State = StateAwaitAdvice
		b.reply(chatID, "Спрашивай — про еду, калории, дисциплину.")
		return
	}

	switch sess.State {
	case StateAskSex, StateAskAge, StateAskHeight, StateAskWeight, StateAskActivity, StateAskGoal:
		prompt, done, err := advanceOnboarding(sess, text)
		if err != nil {
			b.reply(chatID, err.Error()+"\n\n"+prompt)
			return
		}
		if done {
			b.finishOnboarding(sess, userID, chatID)
			return
		}
		b.reply(chatID, prompt)
	case StateAwaitFoodText:
		b.recognizeAndConfirm(ctx, sess, chatID, text)
	case StateAwaitWeight:
		b.recordWeighIn(sess, userID, chatID, text)
	case StateAwaitPromo:
		sess.State = StateIdle
		b.redeemPromo(userID, chatID, text)
	case StateAwaitAdvice:
		sess.State = StateIdle
		b.giveAdvice(ctx, userID, chatID, text)
	default:
		// Free text outside any flow is treated as food description.
		b.recognizeAndConfirm(ctx, sess, chatID, text)
	}
}

func (b *Bot) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) {
	// Inline-mode callbacks and callbacks for expired messages arrive
	// without a Message; there is no chat to answer in.
	if q.Message == nil {
		return
	}
	if _, err := b.api.Request(tgbotapi.NewCallback(q.ID, "")); err != nil {
		log.Printf("ack callback: %v", err)
	}
	chatID := q.Message.Chat.ID
	userID := q.From.ID
	sess := b.sessions.get(chatID)

	switch q.Data {
	case cbModeQuick, cbModePlan:
		if q.Data == cbModeQuick {
			sess.Mode = ModeQuick
		} else {
			sess.Mode = ModePlan
		}
		sess.State = StateAskSex
		b.reply(chatID, promptSex)
	case cbAddText:
		sess.State = StateAwaitFoodText
		b.reply(chatID, "Напиши, что съел.")
	case cbAddPhoto:
		sess.State = StateIdle
		b.reply(chatID, "Пришли фото еды.")
	case cbAddVoice:
		sess.State = StateIdle
		b.reply(chatID, "Запиши голосовое с описанием еды.")
	case cbSaveFood:
		b.savePending(sess, userID, chatID)
	case cbEditFood:
		// A misread estimate is corrected by re-describing the meal, not
		// by retyping the whole flow from the menu.
		sess.Pending = nil
		sess.State = StateAwaitFoodText
		b.reply(chatID, "Опиши блюдо ещё раз, поточнее — я пересчитаю.")
	case cbCancelFood:
		sess.Pending = nil
		sess.State = StateIdle
		b.replyWithMenu(chatID, msgFoodCanceled)
	case cbResetDay:
		if err := ledger.ResetDay(b.store, userID); err != nil {
			log.Printf("reset day for user %d: %v", userID, err)
			b.reply(chatID, msgStorageFail)
			return
		}
		b.replyWithMenu(chatID, "День обнулён. Начинаем заново 🧹")
	case cbBuyPro:
		b.sendProInvoice(chatID)
	case cbEnterPromo:
		sess.State = StateAwaitPromo
		b.reply(chatID, "Введи промокод.")
	}
}

func (b *Bot) handlePhoto(ctx context.Context, m *tgbotapi.Message) {
	chatID := m.Chat.ID
	sess := b.sessions.get(chatID)
	if !b.hasPro(m.From.ID, chatID) {
		return
	}
	b.typing(chatID)

	// Last photo size is the largest.
	photo := m.Photo[len(m.Photo)-1]
	raw, err := b.downloadFile(ctx, photo.FileID)
	if err != nil {
		log.Printf("download photo: %v", err)
		b.reply(chatID, "Не смог скачать фото. Пришли ещё раз.")
		return
	}

	est, err := b.food.AnalyzeImage(ctx, raw)
	if err != nil {
		b.replyRecognizeError(chatID, err)
		return
	}
	b.offerConfirm(sess, chatID, est)
}

func (b *Bot) handleVoice(ctx context.Context, m *tgbotapi.Message) {
	chatID := m.Chat.ID
	sess := b.sessions.get(chatID)
	if !b.hasPro(m.From.ID, chatID) {
		return
	}
	b.typing(chatID)

	raw, err := b.downloadFile(ctx, m.Voice.FileID)
	if err != nil {
		log.Printf("download voice: %v", err)
		b.reply(chatID, "Не смог скачать голосовое. Пришли ещё раз.")
		return
	}

	text, err := b.stt.Transcribe(ctx, raw)
	if errors.Is(err, speech.ErrEmptyTranscript) {
		b.reply(chatID, msgRetryVoice)
		return
	}
	if err != nil {
		log.Printf("transcribe voice: %v", err)
		b.reply(chatID, msgRetryVoice)
		return
	}
	b.recognizeAndConfirm(ctx, sess, chatID, text)
}

func (b *Bot) recognizeAndConfirm(ctx context.Context, sess *Session, chatID int64, text string) {
	b.typing(chatID)
	est, err := b.food.AnalyzeText(ctx, text)
	if err != nil {
		b.replyRecognizeError(chatID, err)
		return
	}
	b.offerConfirm(sess, chatID, est)
}

// offerConfirm shows the estimate and asks before writing anything to the
// diary: a misread meal must never land in the ledger silently.
func (b *Bot) offerConfirm(sess *Session, chatID int64, est recognize.Estimate) {
	sess.Pending = &est
	sess.State = StateAwaitConfirm

	name := est.Name
	if name == "" {
		name = "Блюдо"
	}
	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf(
		"%s\nКалории: %.0f\nБелки: %.1f г\nЖиры: %.1f г\nУглеводы: %.1f г\n\nЗаписать?",
		name, est.Calories, est.ProteinG, est.FatG, est.CarbsG,
	))
	msg.ReplyMarkup = confirmKeyboard
	b.send(msg)
}

func (b *Bot) savePending(sess *Session, userID, chatID int64) {
	est := sess.Pending
	sess.Pending = nil
	sess.State = StateIdle
	if est == nil {
		b.reply(chatID, "Нечего записывать — сначала пришли еду.")
		return
	}

	day, err := ledger.AddEntry(b.store, userID, ledger.AddEntryInput{
		Calories:    est.Calories,
		ProteinG:    est.ProteinG,
		FatG:        est.FatG,
		CarbsG:      est.CarbsG,
		Description: est.Name,
	})
	if errors.Is(err, ledger.ErrInvalidEntry) {
		sess.State = StateAwaitFoodText
		b.reply(chatID, msgBadEstimate)
		return
	}
	if err != nil {
		log.Printf("add entry for user %d: %v", userID, err)
		b.reply(chatID, msgStorageFail)
		return
	}

	sum, err := ledger.TodaySummary(b.store, userID)
	if err != nil {
		log.Printf("today summary for user %d: %v", userID, err)
		b.replyWithMenu(chatID, fmt.Sprintf("Записал ✅\nКалории сегодня: %.0f", day.Calories))
		return
	}
	b.replyWithMenu(chatID, fmt.Sprintf(
		"Записал ✅\nКалории сегодня: %.0f из %d (осталось %.0f)",
		sum.KcalTotal, sum.KcalTarget, sum.KcalLeft,
	))
}

func (b *Bot) undoLast(userID, chatID int64) {
	day, err := ledger.UndoLast(b.store, userID)
	if errors.Is(err, ledger.ErrNoEntries) {
		b.reply(chatID, msgNothingUndo)
		return
	}
	if err != nil {
		log.Printf("undo for user %d: %v", userID, err)
		b.reply(chatID, msgStorageFail)
		return
	}
	b.replyWithMenu(chatID, fmt.Sprintf("Удалил последнюю запись ↩️\nКалории сегодня: %.0f", day.Calories))
}

func (b *Bot) sendTodaySummary(userID, chatID int64) {
	sum, err := ledger.TodaySummary(b.store, userID)
	if err != nil {
		log.Printf("today summary for user %d: %v", userID, err)
		b.reply(chatID, msgStorageFail)
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 %s\n", sum.Date)
	if len(sum.Entries) == 0 {
		sb.WriteString("Записей пока нет.\n")
	}
	for i, e := range sum.Entries {
		desc := e.Description
		if desc == "" {
			desc = "без описания"
		}
		fmt.Fprintf(&sb, "%d. %s — %.0f ккал\n", i+1, desc, e.Calories)
	}
	fmt.Fprintf(&sb, "\nИтого: %.0f ккал | Б %.1f | Ж %.1f | У %.1f\n", sum.KcalTotal, sum.ProteinG, sum.FatG, sum.CarbsG)
	if sum.KcalLeft >= 0 {
		fmt.Fprintf(&sb, "Цель: %d, осталось %.0f", sum.KcalTarget, sum.KcalLeft)
	} else {
		fmt.Fprintf(&sb, "Цель: %d, перебор %.0f 😬", sum.KcalTarget, -sum.KcalLeft)
	}
	b.replyWithMenu(chatID, sb.String())
}

func (b *Bot) giveAdvice(ctx context.Context, userID, chatID int64, question string) {
	b.typing(chatID)
	sum, err := ledger.TodaySummary(b.store, userID)
	if err != nil {
		log.Printf("today summary for advice, user %d: %v", userID, err)
		b.reply(chatID, msgStorageFail)
		return
	}
	p, err := profile.Get(b.store, userID)
	if err != nil {
		log.Printf("profile for advice, user %d: %v", userID, err)
		b.reply(chatID, msgStorageFail)
		return
	}
	goal := ""
	if p.Goal != nil {
		goal = *p.Goal
	}

	answer, err := b.coach.Advise(ctx, question, sum, goal)
	if err != nil {
		log.Printf("advice for user %d: %v", userID, err)
		b.reply(chatID, "Коуч сейчас недоступен. Попробуй позже.")
		return
	}
	b.replyWithMenu(chatID, answer)
}

// finishOnboarding persists the collected answers and computes the target
// for the session's mode: quick mode stores only a deficit calorie target,
// plan mode stores the full macro target set.
func (b *Bot) finishOnboarding(sess *Session, userID, chatID int64) {
	fields := map[string]string{
		profile.FieldSex:            sess.Sex,
		profile.FieldAge:            fmt.Sprintf("%d", sess.Age),
		profile.FieldHeightCm:       fmt.Sprintf("%g", sess.HeightCm),
		profile.FieldWeightKg:       fmt.Sprintf("%g", sess.WeightKg),
		profile.FieldActivityFactor: fmt.Sprintf("%g", profile.ActivityFactors[sess.Activity]),
	}
	for field, value := range fields {
		if err := profile.SetField(b.store, userID, field, value); err != nil {
			log.Printf("save %s for user %d: %v", field, userID, err)
			b.reply(chatID, msgStorageFail)
			return
		}
	}

	if sess.Mode == ModePlan {
		if err := profile.SetField(b.store, userID, profile.FieldGoal, sess.Goal); err != nil {
			log.Printf("save goal for user %d: %v", userID, err)
			b.reply(chatID, msgStorageFail)
			return
		}
		t, err := targets.Calculate(targets.Input{
			Sex:            sess.Sex,
			WeightKg:       sess.WeightKg,
			HeightCm:       sess.HeightCm,
			Age:            sess.Age,
			ActivityFactor: profile.ActivityFactors[sess.Activity],
			Goal:           sess.Goal,
		})
		if err != nil {
			log.Printf("calculate targets for user %d: %v", userID, err)
			b.reply(chatID, msgStorageFail)
			return
		}
		if err := profile.SetTargets(b.store, userID, t); err != nil {
			log.Printf("save targets for user %d: %v", userID, err)
			b.reply(chatID, msgStorageFail)
			return
		}
		b.replyWithMenu(chatID, fmt.Sprintf(
			"Готово ✅\n\nКалории: %.0f ккал/день\nБелки: %.0f г\nЖиры: %.0f г\nУглеводы: %.0f г\n\nВеду дневник и считаю остаток.",
			t.Calories, t.ProteinG, t.FatG, t.CarbsG,
		))
		return
	}

	tdee, target, err := targets.QuickDeficit(targets.QuickInput{
		Sex:           sess.Sex,
		WeightKg:      sess.WeightKg,
		HeightCm:      sess.HeightCm,
		Age:           sess.Age,
		ActivityLevel: sess.Activity,
	})
	if err != nil {
		log.Printf("quick target for user %d: %v", userID, err)
		b.reply(chatID, msgStorageFail)
		return
	}
	if err := profile.SetField(b.store, userID, profile.FieldKcalTarget, fmt.Sprintf("%d", target)); err != nil {
		log.Printf("save kcal target for user %d: %v", userID, err)
		b.reply(chatID, msgStorageFail)
		return
	}
	b.replyWithMenu(chatID, fmt.Sprintf(
		"Готово ✅\n\nПоддержание: ~%d ккал\nДля снижения веса: %d ккал/день\n\nТеперь я буду считать остаток калорий и вести тебя.",
		tdee, target,
	))
}

func (b *Bot) recordWeighIn(sess *Session, userID, chatID int64, text string) {
	kg, err := parsePositive(text)
	if err != nil {
		b.reply(chatID, "Вес должен быть положительным числом, например 82,5. Попробуй ещё раз.")
		return
	}
	sess.State = StateIdle
	prev, err := profile.RecordWeighIn(b.store, userID, kg, ledger.Today())
	if err != nil {
		log.Printf("weigh-in for user %d: %v", userID, err)
		b.reply(chatID, msgStorageFail)
		return
	}
	if prev == 0 {
		b.replyWithMenu(chatID, fmt.Sprintf("Записал: %.1f кг ⚖️", kg))
		return
	}
	diff := kg - prev
	b.replyWithMenu(chatID, fmt.Sprintf("Записал: %.1f кг ⚖️ (%+.1f к прошлому)", kg, diff))
}

func (b *Bot) replyRecognizeError(chatID int64, err error) {
	if errors.Is(err, recognize.ErrUnparsable) {
		b.reply(chatID, msgRetryFood)
		return
	}
	log.Printf("recognize food: %v", err)
	b.reply(chatID, msgRetryFood)
}
