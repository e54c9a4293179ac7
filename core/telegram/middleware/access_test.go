package middleware

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

type senderContext struct {
	tele.Context
	sender *tele.User
}

func (c *senderContext) Sender() *tele.User { return c.sender }

func TestAdminOnlyMiddlewareRejectsNonAdmin(t *testing.T) {
	var nextCalled, rejected bool
	h := AdminOnlyMiddleware(AdminOptions{
		AdminID:  99,
		OnReject: func(tele.Context) error { rejected = true; return nil },
	})(func(tele.Context) error { nextCalled = true; return nil })

	if err := h(&senderContext{sender: &tele.User{ID: 7}}); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if !rejected {
		t.Fatal("OnReject must run for a non-admin sender")
	}
	if nextCalled {
		t.Fatal("next must not run for a non-admin sender")
	}
}

func TestAdminOnlyMiddlewareSilentWithoutRejectHandler(t *testing.T) {
	var nextCalled bool
	h := AdminOnlyMiddleware(AdminOptions{AdminID: 99})(
		func(tele.Context) error { nextCalled = true; return nil },
	)

	if err := h(&senderContext{sender: &tele.User{ID: 7}}); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if nextCalled {
		t.Fatal("next must not run without a reject handler either")
	}
}

func TestAdminOnlyMiddlewarePassesAdmin(t *testing.T) {
	var nextCalled, rejected bool
	h := AdminOnlyMiddleware(AdminOptions{
		AdminID:  99,
		OnReject: func(tele.Context) error { rejected = true; return nil },
	})(func(tele.Context) error { nextCalled = true; return nil })

	if err := h(&senderContext{sender: &tele.User{ID: 99}}); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if !nextCalled {
		t.Fatal("next must run for the operator")
	}
	if rejected {
		t.Fatal("OnReject must not run for the operator")
	}
}

func TestAdminOnlyMiddlewareZeroIDDisablesGate(t *testing.T) {
	var nextCalled bool
	h := AdminOnlyMiddleware(AdminOptions{})(
		func(tele.Context) error { nextCalled = true; return nil },
	)

	if err := h(&senderContext{sender: &tele.User{ID: 7}}); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if !nextCalled {
		t.Fatal("an unset admin id must leave the gate open")
	}
}
