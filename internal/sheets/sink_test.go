package sheets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m3rciful/promobot/internal/model"
)

type fakeAPI struct {
	rows      [][]any
	appendErr error
	countErr  error
}

func (f *fakeAPI) RowCount(ctx context.Context) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return len(f.rows), nil
}

func (f *fakeAPI) Append(ctx context.Context, row []any) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.rows = append(f.rows, row)
	return nil
}

func lead() model.Participant {
	return model.Participant{
		ID:         42,
		Phone:      "+79990001122",
		FirstName:  "Ann",
		Username:   "ann",
		EnrolledAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		CouponCode: "PIT-0042-15",
	}
}

func TestHeaderCreatedWhenEmpty(t *testing.T) {
	f := &fakeAPI{}
	s, err := newWithAPI(context.Background(), f, "Sheet1")
	if err != nil {
		t.Fatalf("newWithAPI: %v", err)
	}
	if !s.Connected() {
		t.Fatal("sink must report connected")
	}
	if len(f.rows) != 1 {
		t.Fatalf("rows = %d, expected header only", len(f.rows))
	}
	if f.rows[0][0] != "Date" {
		t.Fatalf("first row = %v, expected header", f.rows[0])
	}
}

func TestHeaderNotDuplicated(t *testing.T) {
	f := &fakeAPI{rows: [][]any{headerRow}}
	if _, err := newWithAPI(context.Background(), f, "Sheet1"); err != nil {
		t.Fatalf("newWithAPI: %v", err)
	}
	if len(f.rows) != 1 {
		t.Fatalf("rows = %d, header must not be re-appended", len(f.rows))
	}
}

func TestRecordAppendsRow(t *testing.T) {
	f := &fakeAPI{rows: [][]any{headerRow}}
	s, err := newWithAPI(context.Background(), f, "Sheet1")
	if err != nil {
		t.Fatalf("newWithAPI: %v", err)
	}

	if !s.Record(context.Background(), lead()) {
		t.Fatal("record must succeed")
	}
	if len(f.rows) != 2 {
		t.Fatalf("rows = %d", len(f.rows))
	}
	row := f.rows[1]
	if row[3] != "+79990001122" || row[6] != "PIT-0042-15" {
		t.Fatalf("row = %v", row)
	}
}

func TestRecordDisconnectedSink(t *testing.T) {
	s := &Sink{}
	if s.Record(context.Background(), lead()) {
		t.Fatal("disconnected sink must report failure")
	}
}

func TestRecordAppendFailure(t *testing.T) {
	f := &fakeAPI{rows: [][]any{headerRow}}
	s, err := newWithAPI(context.Background(), f, "Sheet1")
	if err != nil {
		t.Fatalf("newWithAPI: %v", err)
	}
	f.appendErr = errors.New("quota exceeded")
	if s.Record(context.Background(), lead()) {
		t.Fatal("append failure must report false")
	}
}
