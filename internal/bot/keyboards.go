package bot

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

// Main menu button labels. The text router matches on these.
const (
	btnAddFood = "🍽 Добавить еду"
	btnAdvice  = "💡 Совет"
	btnToday   = "📊 Сегодня"
	btnWeighIn = "⚖️ Взвешивание"
	btnUndo    = "↩️ Отменить последнее"
	btnMode    = "⚙️ Режим"
)

// Callback data values for inline buttons.
const (
	cbAddText    = "add_text"
	cbAddPhoto   = "add_photo"
	cbAddVoice   = "add_voice"
	cbModeQuick  = "mode_quick"
	cbModePlan   = "mode_plan"
	cbSaveFood   = "save_food"
	cbEditFood   = "edit_food"
	cbCancelFood = "cancel_food"
	cbResetDay   = "reset_day"
	cbBuyPro     = "buy_pro"
	cbEnterPromo = "enter_promo"
)

var mainKeyboard = tgbotapi.NewReplyKeyboard(
	tgbotapi.NewKeyboardButtonRow(
		tgbotapi.NewKeyboardButton(btnAddFood),
		tgbotapi.NewKeyboardButton(btnAdvice),
	),
	tgbotapi.NewKeyboardButtonRow(
		tgbotapi.NewKeyboardButton(btnToday),
		tgbotapi.NewKeyboardButton(btnWeighIn),
	),
	tgbotapi.NewKeyboardButtonRow(
		tgbotapi.NewKeyboardButton(btnUndo),
		tgbotapi.NewKeyboardButton(btnMode),
	),
)

var addKeyboard = tgbotapi.NewInlineKeyboardMarkup(
	tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("✍️ Текст", cbAddText),
	),
	tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("📷 Фото", cbAddPhoto),
	),
	tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🎤 Голос", cbAddVoice),
	),
)

var modeKeyboard = tgbotapi.NewInlineKeyboardMarkup(
	tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("⚡ Просто считать калории", cbModeQuick),
	),
	tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("📈 План и статистика", cbModePlan),
	),
)

var confirmKeyboard = tgbotapi.NewInlineKeyboardMarkup(
	tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("✅ Записать", cbSaveFood),
	),
	tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("✏️ Исправить", cbEditFood),
	),
	tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("❌ Отмена", cbCancelFood),
	),
)

var proKeyboard = tgbotapi.NewInlineKeyboardMarkup(
	tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🔥 Активировать PRO", cbBuyPro),
	),
	tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🎟 Ввести промокод", cbEnterPromo),
	),
)
