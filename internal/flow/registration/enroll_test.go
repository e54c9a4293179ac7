package registration

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	tele "gopkg.in/telebot.v4"
	_ "modernc.org/sqlite"

	"github.com/m3rciful/promobot/internal/coupon"
	"github.com/m3rciful/promobot/internal/model"
	"github.com/m3rciful/promobot/internal/store"
)

const schema = `
CREATE TABLE participants (
    participant_id INTEGER PRIMARY KEY,
    phone          TEXT NOT NULL,
    first_name     TEXT NOT NULL DEFAULT '',
    last_name      TEXT NOT NULL DEFAULT '',
    username       TEXT NOT NULL DEFAULT '',
    enrolled_at    TIMESTAMP NOT NULL,
    coupon_code    TEXT NOT NULL
);`

type fakeSink struct {
	records   []model.Participant
	connected bool
	fail      bool
}

func (f *fakeSink) Record(_ context.Context, p model.Participant) bool {
	if f.fail {
		return false
	}
	f.records = append(f.records, p)
	return true
}

func (f *fakeSink) Connected() bool { return f.connected }

func newEnroller(t *testing.T, sink LeadSink) *Enroller {
	t.Helper()
	db, err := sqlx.Connect("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return &Enroller{
		Store:  store.NewEnrollmentStore(db),
		Sink:   sink,
		Issuer: coupon.Issuer{Prefix: "PIT", Discount: 15},
	}
}

func TestEnrollIssuesCouponOnce(t *testing.T) {
	sink := &fakeSink{connected: true}
	e := newEnroller(t, sink)
	ctx := context.Background()

	lead := Lead{ParticipantID: 423, Phone: "7 999 000-11-22", FirstName: "Ann", Username: "ann"}

	out, err := e.Enroll(ctx, lead)
	if err != nil {
		t.Fatalf("enroll: %v", err)
	}
	if out.Already {
		t.Fatal("first enrollment must not report already")
	}
	if out.Coupon != "PIT-0423-15" {
		t.Fatalf("coupon = %q", out.Coupon)
	}
	if !out.SinkOK || out.Total != 1 {
		t.Fatalf("sinkOK=%v total=%d", out.SinkOK, out.Total)
	}
	if len(sink.records) != 1 || sink.records[0].Phone != "+79990001122" {
		t.Fatalf("sink records = %v", sink.records)
	}

	// Replay with a different phone must keep the original record.
	replay, err := e.Enroll(ctx, Lead{ParticipantID: 423, Phone: "70000000000"})
	if err != nil {
		t.Fatalf("replay enroll: %v", err)
	}
	if !replay.Already || replay.Coupon != "PIT-0423-15" {
		t.Fatalf("replay = %+v, expected existing coupon", replay)
	}
	if len(sink.records) != 1 {
		t.Fatal("replay must not reach the sink")
	}
}

func TestEnrollSinkFailureIsNonFatal(t *testing.T) {
	sink := &fakeSink{fail: true}
	e := newEnroller(t, sink)

	out, err := e.Enroll(context.Background(), Lead{ParticipantID: 9, Phone: "79990000000"})
	if err != nil {
		t.Fatalf("enroll: %v", err)
	}
	if out.SinkOK {
		t.Fatal("sinkOK must be false on mirror failure")
	}

	enrolled, err := e.Store.IsEnrolled(context.Background(), 9)
	if err != nil || !enrolled {
		t.Fatalf("participant must be enrolled locally, enrolled=%v err=%v", enrolled, err)
	}
}

func TestEnrollNilSink(t *testing.T) {
	e := newEnroller(t, nil)
	out, err := e.Enroll(context.Background(), Lead{ParticipantID: 5, Phone: "71112223344"})
	if err != nil {
		t.Fatalf("enroll: %v", err)
	}
	if out.SinkOK {
		t.Fatal("nil sink must report sinkOK=false")
	}
}

func TestSubscribedRole(t *testing.T) {
	for _, role := range []tele.MemberStatus{tele.Creator, tele.Administrator, tele.Member} {
		if !subscribedRole(role) {
			t.Errorf("role %q must count as subscribed", role)
		}
	}
	for _, role := range []tele.MemberStatus{tele.Left, tele.Kicked, tele.Restricted} {
		if subscribedRole(role) {
			t.Errorf("role %q must not count as subscribed", role)
		}
	}
}
