package registration

const (
	textWelcome = "🛠️ Добро пожаловать в <b>P.I.T Store Оренбург</b>!\n\n" +
		"🎁 <b>Получите специальный купон на скидку</b>\n\n" +
		"Для участия в акции необходимо:\n" +
		"1️⃣ Подписаться на наш канал\n" +
		"2️⃣ Поделиться номером телефона\n\n" +
		"После этого вы получите персональный купон для использования в нашем магазине!"

	textAlreadyEnrolled = "👋 Снова здравствуйте, %s!\n\n" +
		"🎫 <b>Ваш купон:</b> <code>%s</code>\n\n" +
		"Один участник = один купон 🎫\n" +
		"Если вы потеряли купон, вот он 👆"

	textAlreadyEnrolledShort = "❌ Вы уже участвовали в акции!\n\n" +
		"Ваш купон: <b>%s</b>\n\n" +
		"Один участник = один купон 🎫"

	textSubscribed = "✅ <b>Отлично! Вы подписаны на канал!</b>\n\n" +
		"Теперь поделитесь своим номером телефона с помощью кнопки ниже 👇"

	textSharePhone = "Нажмите на кнопку ниже, чтобы поделиться номером телефона:"

	textNotSubscribed = "❌ <b>Вы еще не подписались на канал!</b>\n\n" +
		"Пожалуйста, подпишитесь и нажмите проверку снова."

	textCheckFailed = "⚠️ <b>Произошла ошибка при проверке подписки.</b>\n\n" +
		"Пожалуйста, попробуйте позже."

	textForeignContact = "❌ Пожалуйста, поделитесь своим номером телефона."

	textStorageFailure = "❌ Произошла ошибка при регистрации. Пожалуйста, попробуйте позже."

	textCoupon = "🎉 <b>Благодарим за участие!</b>\n\n" +
		"🏷️ <b>Ваш купон на скидку:</b> <code>%s</code>\n\n" +
		"🎁 <b>Что вы получаете:</b>\n" +
		"• Скидку %d%% на покупку\n" +
		"• Бесплатную консультацию специалиста\n\n" +
		"🏪 <b>Адрес магазина:</b>\n%s\n\n" +
		"📞 <b>Телефон для связи:</b> %s\n\n" +
		"<i>Купон действует в течение 15 дней</i>"

	textFallback = "🤖 Пожалуйста, используйте кнопки для взаимодействия с ботом.\n" +
		"Или введите /start для начала работы."

	textRemindSubscribe = "📢 Подпишитесь на канал и нажмите «Я подписался» 👇"

	btnSubscribe = "📢 Подписаться на канал"
	btnCheck     = "✅ Я подписался"
	btnContact   = "📞 Поделиться номером"
)
