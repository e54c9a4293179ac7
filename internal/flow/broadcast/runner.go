package broadcast

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/m3rciful/promobot/core/logger"
)

// SendFunc delivers the broadcast payload to one recipient.
type SendFunc func(recipientID int64) error

// Progress is a point-in-time snapshot of a running fan-out.
type Progress struct {
	Sent      int
	Succeeded int
	Failed    int
	Total     int
}

// progressStep controls how often the in-place progress report is
// refreshed during a fan-out.
const progressStep = 10

// Run fans the payload out to every recipient sequentially. One failed
// send never aborts the rest; delay paces sends under the gateway rate
// limit. progress fires on every tenth send and on the final one.
// Context cancellation stops the fan-out and returns the counts so far.
func Run(ctx context.Context, recipients []int64, send SendFunc, delay time.Duration, progress func(Progress)) Progress {
	p := Progress{Total: len(recipients)}

	for i, id := range recipients {
		if ctx.Err() != nil {
			logger.FlowCast.Warn("fan-out interrupted",
				slog.String("event", "run.cancel"),
				slog.Int("sent", p.Sent),
				slog.Int("recipients", p.Total),
			)
			return p
		}

		if err := send(id); err != nil {
			p.Failed++
			logger.FlowCast.Warn("send failed",
				slog.String("event", "send.fail"),
				slog.Int64("user_id", id),
				slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			)
		} else {
			p.Succeeded++
		}
		p.Sent++

		if progress != nil && (p.Sent%progressStep == 0 || p.Sent == p.Total) {
			progress(p)
		}

		if delay > 0 && i < len(recipients)-1 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
			case <-timer.C:
			}
		}
	}

	return p
}

// DeliveryPercent is succeeded/total as a percentage rounded to one
// decimal. Zero recipients yields 0 rather than a division error.
func DeliveryPercent(succeeded, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(succeeded)/float64(total)*1000) / 10
}
