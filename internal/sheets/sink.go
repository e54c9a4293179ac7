// Package sheets mirrors enrollments into a Google spreadsheet.
package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	gsheets "google.golang.org/api/sheets/v4"
	"google.golang.org/api/option"

	"github.com/m3rciful/promobot/core/logger"
	"github.com/m3rciful/promobot/internal/config"
	"github.com/m3rciful/promobot/internal/model"
)

var headerRow = []any{"Date", "First name", "Last name", "Phone", "Username", "User ID", "Coupon"}

// api is the slice of the Sheets service the sink needs. Narrowed for tests.
type api interface {
	RowCount(ctx context.Context) (int, error)
	Append(ctx context.Context, row []any) error
}

// Sink writes lead rows best-effort. A sink that failed to connect at
// startup stays disconnected for the process lifetime; Record then
// reports failure without blocking enrollment.
type Sink struct {
	api       api
	sheetName string
	connected atomic.Bool
}

// Connect builds a Sink. It never returns an error: on any failure the
// sink comes up disconnected and enrollment proceeds without mirroring.
func Connect(ctx context.Context, cfg config.SheetsConfig) *Sink {
	s := &Sink{sheetName: cfg.SheetName}

	svc, err := gsheets.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsFile))
	if err != nil {
		logger.SHEETS.Warn("sink unavailable",
			slog.String("event", "connect.fail"),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
		return s
	}

	s.api = &liveAPI{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     cfg.SheetName,
	}

	if err := s.ensureHeader(ctx); err != nil {
		logger.SHEETS.Warn("sink unavailable",
			slog.String("event", "header.fail"),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
		s.api = nil
		return s
	}

	s.connected.Store(true)
	logger.SHEETS.Info("sink connected",
		slog.String("event", "connect"),
		slog.String("sheet", cfg.SheetName),
	)
	return s
}

// newWithAPI wires a sink over an arbitrary api implementation.
func newWithAPI(ctx context.Context, a api, sheetName string) (*Sink, error) {
	s := &Sink{api: a, sheetName: sheetName}
	if err := s.ensureHeader(ctx); err != nil {
		return nil, err
	}
	s.connected.Store(true)
	return s, nil
}

// Connected reports the sink's current connectivity flag.
func (s *Sink) Connected() bool {
	return s.connected.Load()
}

// ensureHeader appends the header row when the destination is empty.
// Row count is checked explicitly rather than probing for a read fault.
func (s *Sink) ensureHeader(ctx context.Context) error {
	rows, err := s.api.RowCount(ctx)
	if err != nil {
		return fmt.Errorf("sheets: row count: %w", err)
	}
	if rows > 0 {
		return nil
	}
	if err := s.api.Append(ctx, headerRow); err != nil {
		return fmt.Errorf("sheets: write header: %w", err)
	}
	return nil
}

// Record mirrors one enrollment. Returns false on any failure; the
// row is then lost except for what appears in logs.
func (s *Sink) Record(ctx context.Context, p model.Participant) bool {
	if !s.connected.Load() || s.api == nil {
		logger.SHEETS.Warn("lead dropped",
			slog.String("event", "record.skip"),
			slog.Int64("user_id", p.ID),
			slog.String("reason", "disconnected"),
		)
		return false
	}

	row := []any{
		p.EnrolledAt.Format(time.DateTime),
		p.FirstName,
		p.LastName,
		p.Phone,
		p.Username,
		p.ID,
		p.CouponCode,
	}
	if err := s.api.Append(ctx, row); err != nil {
		logger.SHEETS.Error("lead append failed",
			slog.String("event", "record.fail"),
			slog.Int64("user_id", p.ID),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
		return false
	}

	logger.SHEETS.Debug("lead recorded",
		slog.String("event", "record"),
		slog.Int64("user_id", p.ID),
		slog.String("coupon", p.CouponCode),
	)
	return true
}

// liveAPI talks to the real Sheets service.
type liveAPI struct {
	svc           *gsheets.Service
	spreadsheetID string
	sheetName     string
}

func (a *liveAPI) RowCount(ctx context.Context) (int, error) {
	resp, err := a.svc.Spreadsheets.Values.
		Get(a.spreadsheetID, a.sheetName).
		Context(ctx).Do()
	if err != nil {
		return 0, err
	}
	return len(resp.Values), nil
}

func (a *liveAPI) Append(ctx context.Context, row []any) error {
	_, err := a.svc.Spreadsheets.Values.
		Append(a.spreadsheetID, a.sheetName, &gsheets.ValueRange{Values: [][]any{row}}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	return err
}
