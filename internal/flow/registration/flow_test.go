package registration

import (
	"context"
	"testing"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/promobot/core/telegram/state"
	"github.com/m3rciful/promobot/internal/config"
)

// captureContext records outgoing text sends instead of hitting a live bot.
type captureContext struct {
	tele.Context
	sender  *tele.User
	message *tele.Message
	values  map[string]interface{}
	sent    []string
}

func newCaptureContext(sender *tele.User, msg *tele.Message) *captureContext {
	return &captureContext{sender: sender, message: msg, values: make(map[string]interface{})}
}

func (c *captureContext) Sender() *tele.User     { return c.sender }
func (c *captureContext) Chat() *tele.Chat       { return &tele.Chat{ID: c.sender.ID} }
func (c *captureContext) Message() *tele.Message { return c.message }
func (c *captureContext) Update() tele.Update    { return tele.Update{ID: 1, Message: c.message} }

func (c *captureContext) Get(key string) interface{} { return c.values[key] }
func (c *captureContext) Set(key string, v interface{}) {
	c.values[key] = v
}

func (c *captureContext) Send(what interface{}, _ ...interface{}) error {
	if text, ok := what.(string); ok {
		c.sent = append(c.sent, text)
	}
	return nil
}

func newTestFlow(t *testing.T) (*Flow, state.Manager, *Enroller) {
	t.Helper()
	e := newEnroller(t, &fakeSink{connected: true})
	states := state.NewMemoryManager()
	flow := NewFlow(e, states, config.PromoConfig{CouponPrefix: "PIT", CouponDiscount: 15}, 1)
	return flow, states, e
}

func TestContactFromAnotherUserKeepsAwaiting(t *testing.T) {
	flow, states, e := newTestFlow(t)

	const userID = int64(501)
	states.SetState(userID, StateAwaitingContact)

	c := newCaptureContext(
		&tele.User{ID: userID, Username: "ann"},
		&tele.Message{Contact: &tele.Contact{UserID: 777, PhoneNumber: "79990001122"}},
	)
	if err := flow.Contact(c); err != nil {
		t.Fatalf("contact: %v", err)
	}

	if got := states.GetState(userID); got != StateAwaitingContact {
		t.Fatalf("state = %q, forwarded card must not advance the flow", got)
	}
	if len(c.sent) != 1 || c.sent[0] != textForeignContact {
		t.Fatalf("sent = %q, expected the own-number re-prompt", c.sent)
	}

	count, err := e.Store.Count(context.Background())
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("count = %d, a forwarded card must not enroll anyone", count)
	}
}

func TestContactTextInsteadOfCardReprompts(t *testing.T) {
	flow, states, _ := newTestFlow(t)

	const userID = int64(502)
	states.SetState(userID, StateAwaitingContact)

	c := newCaptureContext(&tele.User{ID: userID}, &tele.Message{Text: "79990001122"})
	if err := flow.Contact(c); err != nil {
		t.Fatalf("contact: %v", err)
	}

	if got := states.GetState(userID); got != StateAwaitingContact {
		t.Fatalf("state = %q, plain text must not advance the flow", got)
	}
	if len(c.sent) != 1 || c.sent[0] != textSharePhone {
		t.Fatalf("sent = %q, expected the share-phone re-prompt", c.sent)
	}
}
