// Package registration implements the subscribe → share-contact →
// issue-coupon conversation.
package registration

import (
	"fmt"
	"log/slog"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/promobot/core/logger"
	tghelpers "github.com/m3rciful/promobot/core/telegram/helpers"
	"github.com/m3rciful/promobot/core/telegram/keyboard"
	"github.com/m3rciful/promobot/core/telegram/state"
	"github.com/m3rciful/promobot/internal/config"
	"github.com/m3rciful/promobot/internal/model"
)

// CallbackCheckSubscription is the verification button key.
const CallbackCheckSubscription = "check_subscription"

const (
	// StateAwaitingSubscription marks a participant who was shown the
	// join-channel call to action and has not verified yet.
	StateAwaitingSubscription state.State = "reg_awaiting_subscription"
	// StateAwaitingContact marks a participant whose subscription is
	// verified and whose contact share is pending.
	StateAwaitingContact state.State = "reg_awaiting_contact"
)

// Flow wires the registration conversation handlers.
type Flow struct {
	enroller *Enroller
	states   state.Manager
	promo    config.PromoConfig
	adminID  int64
}

// NewFlow builds the flow and registers its conversation states.
func NewFlow(enroller *Enroller, states state.Manager, promo config.PromoConfig, adminID int64) *Flow {
	f := &Flow{
		enroller: enroller,
		states:   states,
		promo:    promo,
		adminID:  adminID,
	}
	states.Handle(StateAwaitingSubscription, f.remindSubscribe)
	states.Handle(StateAwaitingContact, f.Contact)
	return f
}

// Start handles /start: an enrolled participant is shown their existing
// coupon, anyone else gets the join-channel call to action.
func (f *Flow) Start(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	user := c.Sender()

	enrolled, err := f.enroller.Store.IsEnrolled(ctx, user.ID)
	if err != nil {
		return tghelpers.SendText(c, textStorageFailure)
	}
	if enrolled {
		code, ok, err := f.enroller.Store.CouponFor(ctx, user.ID)
		if err != nil || !ok {
			return tghelpers.SendText(c, textStorageFailure)
		}
		f.states.ClearState(user.ID)
		return tghelpers.SendHTML(c, fmt.Sprintf(textAlreadyEnrolled, user.FirstName, code))
	}

	f.states.SetState(user.ID, StateAwaitingSubscription)
	return tghelpers.SendPhotoHTML(c, f.promo.WelcomeImage, textWelcome, f.welcomeMarkup())
}

// CheckSubscription handles the verification button. A gateway failure
// is reported as transient and leaves the conversation where it was.
func (f *Flow) CheckSubscription(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	user := c.Sender()

	enrolled, err := f.enroller.Store.IsEnrolled(ctx, user.ID)
	if err != nil {
		return editCaptionOrSend(c, textStorageFailure)
	}
	if enrolled {
		code, ok, err := f.enroller.Store.CouponFor(ctx, user.ID)
		if err != nil || !ok {
			return editCaptionOrSend(c, textStorageFailure)
		}
		f.states.ClearState(user.ID)
		return editCaptionOrSend(c, fmt.Sprintf(textAlreadyEnrolledShort, code))
	}

	member, err := f.channelMember(c)
	if err != nil {
		logger.FlowReg.Warn("membership check failed",
			slog.String("event", "subscription.check.fail"),
			slog.Int64("user_id", user.ID),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
		return editCaptionOrSend(c, textCheckFailed)
	}

	if !subscribedRole(member.Role) {
		return editCaptionOrSend(c, textNotSubscribed)
	}

	f.states.SetState(user.ID, StateAwaitingContact)
	logger.FlowReg.Info("subscription confirmed",
		slog.String("event", "subscription.ok"),
		slog.Int64("user_id", user.ID),
	)
	if err := editCaptionOrSend(c, textSubscribed); err != nil {
		return err
	}
	return tghelpers.SendText(c, textSharePhone, &tele.SendOptions{
		ReplyMarkup: keyboard.ContactRequest(btnContact),
	})
}

// Contact is the awaiting-contact state handler. Only a contact card
// belonging to the sender advances the flow; anything else re-prompts.
func (f *Flow) Contact(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	user := c.Sender()
	msg := c.Message()

	if msg == nil || msg.Contact == nil {
		return tghelpers.SendText(c, textSharePhone, &tele.SendOptions{
			ReplyMarkup: keyboard.ContactRequest(btnContact),
		})
	}
	contact := msg.Contact
	if contact.UserID != user.ID {
		logger.FlowReg.Warn("foreign contact rejected",
			slog.String("event", "contact.mismatch"),
			slog.Int64("user_id", user.ID),
			slog.Int64("contact_user_id", contact.UserID),
		)
		return tghelpers.SendText(c, textForeignContact)
	}

	outcome, err := f.enroller.Enroll(ctx, Lead{
		ParticipantID: user.ID,
		Phone:         contact.PhoneNumber,
		FirstName:     contact.FirstName,
		LastName:      contact.LastName,
		Username:      user.Username,
	})
	if err != nil {
		f.states.ClearState(user.ID)
		return tghelpers.SendText(c, textStorageFailure)
	}

	f.states.ClearState(user.ID)

	if outcome.Already {
		return tghelpers.SendHTML(c,
			fmt.Sprintf(textAlreadyEnrolledShort, outcome.Coupon),
			keyboard.RemoveKeyboard(),
		)
	}

	logger.FlowReg.Info("participant enrolled",
		slog.String("event", "enroll"),
		slog.Int64("user_id", user.ID),
		slog.String("coupon", outcome.Coupon),
		slog.Bool("sheet_ok", outcome.SinkOK),
		slog.Int64("count", outcome.Total),
	)

	caption := fmt.Sprintf(textCoupon,
		outcome.Coupon,
		f.promo.CouponDiscount,
		f.promo.StoreAddress,
		f.promo.StorePhone,
	)
	if err := tghelpers.SendPhotoHTML(c, f.promo.CouponImage, caption, keyboard.RemoveKeyboard()); err != nil {
		return err
	}

	f.notifyAdmin(c, contact, outcome)
	return nil
}

// Fallback replies to text and stray payloads outside any conversation.
func (f *Flow) Fallback(c tele.Context) error {
	return tghelpers.SendText(c, textFallback)
}

// remindSubscribe nudges a participant who types instead of using the
// verification button.
func (f *Flow) remindSubscribe(c tele.Context) error {
	return tghelpers.SendHTML(c, textRemindSubscribe, f.welcomeMarkup())
}

func (f *Flow) welcomeMarkup() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	channelURL := "https://t.me/" + strings.TrimPrefix(f.promo.Channel, "@")
	markup.InlineKeyboard = [][]tele.InlineButton{
		keyboard.InlineURLRow(btnSubscribe, channelURL),
		{*markup.Data(btnCheck, CallbackCheckSubscription).Inline()},
	}
	return markup
}

func (f *Flow) channelMember(c tele.Context) (*tele.ChatMember, error) {
	chat, err := c.Bot().ChatByUsername(f.promo.Channel)
	if err != nil {
		return nil, err
	}
	return c.Bot().ChatMemberOf(chat, c.Sender())
}

func (f *Flow) notifyAdmin(c tele.Context, contact *tele.Contact, outcome Outcome) {
	username := "Не указан"
	if u := c.Sender().Username; u != "" {
		username = "@" + u
	}
	lead := model.Participant{FirstName: contact.FirstName, LastName: contact.LastName}
	text := fmt.Sprintf(
		"📱 <b>Новый лид!</b>\n"+
			"👤 Имя: %s\n"+
			"📞 Телефон: %s\n"+
			"🔗 Username: %s\n"+
			"🆔 User ID: %d\n"+
			"🏷️ Купон: %s\n"+
			"💾 В таблицу: %s\n"+
			"📊 Всего участников: %d",
		lead.DisplayName(),
		model.NormalizePhone(contact.PhoneNumber),
		username,
		c.Sender().ID,
		outcome.Coupon,
		checkmark(outcome.SinkOK),
		outcome.Total,
	)
	if _, err := c.Bot().Send(&tele.User{ID: f.adminID}, text, tele.ModeHTML); err != nil {
		logger.FlowReg.Warn("admin notify failed",
			slog.String("event", "notify.fail"),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
	}
}

func checkmark(ok bool) string {
	if ok {
		return "✅"
	}
	return "❌"
}

// subscribedRole reports whether the membership role counts as a
// channel subscription.
func subscribedRole(role tele.MemberStatus) bool {
	switch role {
	case tele.Creator, tele.Administrator, tele.Member:
		return true
	default:
		return false
	}
}

// editCaptionOrSend updates the message that carried the pressed
// button. Welcome messages may be plain text when the image asset is
// missing, so caption editing falls back to text editing, then to a
// fresh send.
func editCaptionOrSend(c tele.Context, text string) error {
	msg := c.Message()
	if msg != nil && msg.Photo != nil {
		if err := c.EditCaption(text, tele.ModeHTML); err == nil {
			return nil
		}
	}
	return tghelpers.EditOrSendHTML(c, text)
}
