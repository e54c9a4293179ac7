// Package stats serves the operator's read-only statistics command.
package stats

import (
	"fmt"
	"time"

	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/m3rciful/promobot/core/telegram/helpers"
	"github.com/m3rciful/promobot/internal/store"
)

const textStats = "📊 <b>Статистика бота P.I.T Tools:</b>\n\n" +
	"• Всего участников: <b>%d</b>\n" +
	"• Google Sheets: %s\n" +
	"• Бот запущен: ✅\n\n" +
	"<i>Обновлено: %s</i>"

const textFailed = "❌ Не удалось получить статистику. Попробуйте позже."

// Connectivity reports the lead sink's current state.
type Connectivity interface {
	Connected() bool
}

// Flow answers /stats with the enrollment count and sink connectivity.
type Flow struct {
	store *store.EnrollmentStore
	sink  Connectivity
}

// NewFlow builds the stats handler.
func NewFlow(st *store.EnrollmentStore, sink Connectivity) *Flow {
	return &Flow{store: st, sink: sink}
}

// Stats handles the operator-only /stats command.
func (f *Flow) Stats(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)

	count, err := f.store.Count(ctx)
	if err != nil {
		return tghelpers.SendText(c, textFailed)
	}

	sinkMark := "❌"
	if f.sink != nil && f.sink.Connected() {
		sinkMark = "✅"
	}

	return tghelpers.SendHTML(c, fmt.Sprintf(textStats,
		count, sinkMark, time.Now().Format(time.DateTime)))
}
