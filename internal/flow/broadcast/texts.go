package broadcast

const (
	textModeSelect = "📣 <b>Новая рассылка</b>\n\n" +
		"Выберите формат сообщения:"

	textUseButtons = "🤖 Пожалуйста, выберите формат кнопками выше или отмените рассылку."

	textAwaitPhoto = "🖼️ Отправьте фотографию для рассылки."

	textAwaitText = "✍️ Отправьте текст рассылки."

	textNotPhoto = "❌ Это не фотография. Отправьте изображение или отмените рассылку."

	textEmptyText = "❌ Текст пустой. Отправьте текст рассылки."

	textPreview = "📋 <b>Предпросмотр рассылки</b>\n\n" +
		"%s\n\n" +
		"👥 Получателей: <b>%d</b>\n\n" +
		"Отправить?"

	textNoDraft = "⚠️ Нет активной рассылки. Начните заново: /broadcast"

	textCancelled = "🚫 Рассылка отменена."

	textStarted = "📤 Рассылка запущена..."

	textProgress = "📤 <b>Рассылка...</b>\n\n" +
		"Отправлено: %d / %d\n" +
		"✅ Успешно: %d\n" +
		"❌ Ошибок: %d"

	textDone = "✅ <b>Рассылка завершена</b>\n\n" +
		"👥 Получателей: %d\n" +
		"✅ Доставлено: %d\n" +
		"❌ Ошибок: %d\n" +
		"📈 Доставляемость: %.1f%%"

	textStorageFailure = "❌ Не удалось получить список получателей. Попробуйте позже."

	btnModeText  = "📝 Только текст"
	btnModePhoto = "🖼️ Фото + текст"
	btnConfirm   = "✅ Отправить"
	btnCancel    = "❌ Отменить"
)
