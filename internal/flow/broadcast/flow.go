// Package broadcast implements the admin-only mass-messaging form:
// choose mode, supply content, confirm, fan out.
package broadcast

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/promobot/core/logger"
	"github.com/m3rciful/promobot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/promobot/core/telegram/helpers"
	"github.com/m3rciful/promobot/core/telegram/keyboard"
	"github.com/m3rciful/promobot/core/telegram/state"
	"github.com/m3rciful/promobot/internal/store"
)

// Callback keys used by the broadcast form.
const (
	CallbackMode    = "broadcast_mode"
	CallbackConfirm = "confirm_broadcast"
	CallbackCancel  = "cancel_broadcast"
)

// Broadcast payload modes.
const (
	ModeText  = "text"
	ModePhoto = "photo"
)

// Form states.
const (
	StateModeSelect state.State = "cast_mode_select"
	StateAwaitPhoto state.State = "cast_await_photo"
	StateAwaitText  state.State = "cast_await_text"
	StateConfirm    state.State = "cast_confirm"
)

// Job is one admin's broadcast draft. It lives from mode selection
// until the fan-out finishes or the form is cancelled; nothing is
// persisted across restarts.
type Job struct {
	Mode       string
	Text       string
	PhotoID    string
	Recipients int
}

// Flow wires the broadcast form handlers.
type Flow struct {
	store   *store.EnrollmentStore
	states  state.Manager
	adminID int64
	delay   time.Duration

	mu      sync.Mutex
	drafts  map[int64]*Job
	baseCtx context.Context
}

// NewFlow builds the flow and registers its conversation states.
func NewFlow(st *store.EnrollmentStore, states state.Manager, adminID int64, delay time.Duration) *Flow {
	f := &Flow{
		store:   st,
		states:  states,
		adminID: adminID,
		delay:   delay,
		drafts:  make(map[int64]*Job),
		baseCtx: context.Background(),
	}
	states.Handle(StateModeSelect, f.remindButtons)
	states.Handle(StateAwaitPhoto, f.AwaitPhoto)
	states.Handle(StateAwaitText, f.AwaitText)
	states.Handle(StateConfirm, f.remindButtons)
	return f
}

// SetBaseContext installs the context that bounds running fan-outs.
// Process shutdown cancels it and stops any in-flight broadcast.
func (f *Flow) SetBaseContext(ctx context.Context) {
	if ctx == nil {
		return
	}
	f.mu.Lock()
	f.baseCtx = ctx
	f.mu.Unlock()
}

// Start handles /broadcast. Admin gating happens in the router before
// this runs.
func (f *Flow) Start(c tele.Context) error {
	user := c.Sender()
	f.setDraft(user.ID, &Job{})
	f.states.SetState(user.ID, StateModeSelect)

	markup := keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{{Text: btnModeText, Unique: CallbackMode, Data: ModeText}},
		[]keyboard.InlineBtn{{Text: btnModePhoto, Unique: CallbackMode, Data: ModePhoto}},
		[]keyboard.InlineBtn{{Text: btnCancel, Unique: CallbackCancel}},
	)
	return tghelpers.SendHTML(c, textModeSelect, markup)
}

// ModeSelected handles the format button press.
func (f *Flow) ModeSelected(c tele.Context) error {
	if c.Sender().ID != f.adminID {
		return nil
	}
	draft := f.draft(c.Sender().ID)
	if draft == nil {
		return tghelpers.EditOrSendHTML(c, textNoDraft)
	}

	switch callbacks.CallbackPayload(c) {
	case ModeText:
		draft.Mode = ModeText
		f.states.SetState(c.Sender().ID, StateAwaitText)
		return tghelpers.EditOrSendHTML(c, textAwaitText, f.cancelMarkup())
	case ModePhoto:
		draft.Mode = ModePhoto
		f.states.SetState(c.Sender().ID, StateAwaitPhoto)
		return tghelpers.EditOrSendHTML(c, textAwaitPhoto, f.cancelMarkup())
	default:
		// Malformed selection re-prompts in place, no state advance.
		return tghelpers.EditOrSendHTML(c, textUseButtons)
	}
}

// AwaitPhoto collects the photo for photo mode. The gateway-native file
// reference is stored; bytes are never re-uploaded.
func (f *Flow) AwaitPhoto(c tele.Context) error {
	draft := f.draft(c.Sender().ID)
	if draft == nil {
		f.states.ClearState(c.Sender().ID)
		return tghelpers.SendHTML(c, textNoDraft)
	}

	msg := c.Message()
	if msg == nil || msg.Photo == nil {
		return tghelpers.SendText(c, textNotPhoto)
	}

	draft.PhotoID = msg.Photo.FileID
	f.states.SetState(c.Sender().ID, StateAwaitText)
	return tghelpers.SendHTML(c, textAwaitText, f.cancelMarkup())
}

// AwaitText collects the message text and produces a preview with the
// live recipient count.
func (f *Flow) AwaitText(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	user := c.Sender()
	draft := f.draft(user.ID)
	if draft == nil {
		f.states.ClearState(user.ID)
		return tghelpers.SendHTML(c, textNoDraft)
	}

	text := strings.TrimSpace(c.Text())
	if text == "" {
		return tghelpers.SendText(c, textEmptyText)
	}
	draft.Text = text

	count, err := f.store.Count(ctx)
	if err != nil {
		f.clear(user.ID)
		return tghelpers.SendText(c, textStorageFailure)
	}
	draft.Recipients = int(count)
	f.states.SetState(user.ID, StateConfirm)

	markup := keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: btnConfirm, Unique: CallbackConfirm},
		{Text: btnCancel, Unique: CallbackCancel},
	})
	preview := fmt.Sprintf(textPreview, draft.Text, draft.Recipients)

	if draft.Mode == ModePhoto {
		photo := &tele.Photo{File: tele.File{FileID: draft.PhotoID}, Caption: preview}
		return c.Send(photo, markup, tele.ModeHTML)
	}
	return tghelpers.SendHTML(c, preview, markup)
}

// Confirm launches the fan-out in the background so registration
// events keep flowing while sends are paced out.
func (f *Flow) Confirm(c tele.Context) error {
	if c.Sender().ID != f.adminID {
		return nil
	}
	ctx := tghelpers.BuildContext(c)
	user := c.Sender()

	draft := f.draft(user.ID)
	if draft == nil || f.states.GetState(user.ID) != StateConfirm {
		return tghelpers.EditOrSendHTML(c, textNoDraft)
	}

	recipients, err := f.store.AllIDs(ctx)
	if err != nil {
		f.clear(user.ID)
		return tghelpers.EditOrSendHTML(c, textStorageFailure)
	}

	job := *draft
	f.clear(user.ID)

	if err := tghelpers.EditOrSendHTML(c, textStarted); err != nil {
		return err
	}

	bot := c.Bot()
	progressMsg, err := bot.Send(&tele.User{ID: f.adminID}, fmt.Sprintf(textProgress, 0, len(recipients), 0, 0), tele.ModeHTML)
	if err != nil {
		logger.FlowCast.Warn("progress message failed",
			slog.String("event", "progress.init.fail"),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
	}

	f.mu.Lock()
	base := f.baseCtx
	f.mu.Unlock()

	logger.FlowCast.Info("fan-out started",
		slog.String("event", "run.start"),
		slog.String("mode", job.Mode),
		slog.Int("recipients", len(recipients)),
	)

	go f.runJob(base, bot, job, recipients, progressMsg)
	return nil
}

func (f *Flow) runJob(ctx context.Context, bot tele.API, job Job, recipients []int64, progressMsg *tele.Message) {
	send := func(id int64) error {
		to := &tele.User{ID: id}
		if job.Mode == ModePhoto {
			photo := &tele.Photo{File: tele.File{FileID: job.PhotoID}, Caption: job.Text}
			_, err := bot.Send(to, photo, tele.ModeHTML)
			return err
		}
		_, err := bot.Send(to, job.Text, tele.ModeHTML)
		return err
	}

	progress := func(p Progress) {
		if progressMsg == nil {
			return
		}
		text := fmt.Sprintf(textProgress, p.Sent, p.Total, p.Succeeded, p.Failed)
		if _, err := bot.Edit(progressMsg, text, tele.ModeHTML); err != nil {
			logger.FlowCast.Debug("progress edit failed",
				slog.String("event", "progress.edit.fail"),
				slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			)
		}
	}

	result := Run(ctx, recipients, send, f.delay, progress)

	final := fmt.Sprintf(textDone,
		result.Total, result.Succeeded, result.Failed,
		DeliveryPercent(result.Succeeded, result.Total),
	)
	reported := false
	if progressMsg != nil {
		if _, err := bot.Edit(progressMsg, final, tele.ModeHTML); err == nil {
			reported = true
		}
	}
	if !reported {
		if _, err := bot.Send(&tele.User{ID: f.adminID}, final, tele.ModeHTML); err != nil {
			logger.FlowCast.Warn("final report failed",
				slog.String("event", "report.fail"),
				slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			)
		}
	}

	logger.FlowCast.Info("fan-out finished",
		slog.String("event", "run.done"),
		slog.Int("recipients", result.Total),
		slog.Int("succeeded", result.Succeeded),
		slog.Int("failed", result.Failed),
		slog.Float64("percent", DeliveryPercent(result.Succeeded, result.Total)),
	)
}

// Cancel aborts the form from the inline cancel button.
func (f *Flow) Cancel(c tele.Context) error {
	if c.Sender().ID != f.adminID {
		return nil
	}
	f.clear(c.Sender().ID)
	return tghelpers.EditOrSendHTML(c, textCancelled)
}

// CancelCommand aborts the form via /cancel.
func (f *Flow) CancelCommand(c tele.Context) error {
	user := c.Sender()
	if f.draft(user.ID) == nil && !f.states.InProgress(user.ID) {
		return tghelpers.SendHTML(c, textNoDraft)
	}
	f.clear(user.ID)
	return tghelpers.SendText(c, textCancelled)
}

func (f *Flow) remindButtons(c tele.Context) error {
	return tghelpers.SendText(c, textUseButtons)
}

func (f *Flow) cancelMarkup() *tele.ReplyMarkup {
	return keyboard.SingleCancelMarkup(CallbackCancel, "cancel", btnCancel)
}

func (f *Flow) setDraft(userID int64, job *Job) {
	f.mu.Lock()
	f.drafts[userID] = job
	f.mu.Unlock()
}

func (f *Flow) draft(userID int64) *Job {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.drafts[userID]
}

func (f *Flow) clear(userID int64) {
	f.mu.Lock()
	delete(f.drafts, userID)
	f.mu.Unlock()
	f.states.ClearState(userID)
}
