// Package app assembles the promo bot from the core runtime and the
// domain flows.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	tele "gopkg.in/telebot.v4"

	corebootstrap "github.com/m3rciful/promobot/core/bootstrap"
	"github.com/m3rciful/promobot/core/logger"
	coretelegram "github.com/m3rciful/promobot/core/telegram"
	"github.com/m3rciful/promobot/core/telegram/commands"
	tghelpers "github.com/m3rciful/promobot/core/telegram/helpers"
	"github.com/m3rciful/promobot/core/telegram/router"
	"github.com/m3rciful/promobot/core/telegram/state"
	"github.com/m3rciful/promobot/internal/config"
	"github.com/m3rciful/promobot/internal/coupon"
	"github.com/m3rciful/promobot/internal/flow/broadcast"
	"github.com/m3rciful/promobot/internal/flow/registration"
	"github.com/m3rciful/promobot/internal/flow/stats"
	"github.com/m3rciful/promobot/internal/sheets"
	"github.com/m3rciful/promobot/internal/store"
)

const textAdminOnly = "❌ Эта команда только для администратора"

// App holds the assembled services for the process lifetime.
type App struct {
	cfg *config.Config
	db  *sqlx.DB

	registration *registration.Flow
	broadcast    *broadcast.Flow
	stats        *stats.Flow
	states       state.Manager
}

// Bootstrap initializes logging, storage, migrations, the lead sink,
// and the conversation flows.
func Bootstrap(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: nil config")
	}

	res, err := corebootstrap.Run(corebootstrap.Options{
		Config:   cfg.CoreConfig(),
		Database: cfg.Database,
	})
	if err != nil {
		return nil, err
	}

	sink := sheets.Connect(logger.Background(), cfg.Sheets)
	enrollments := store.NewEnrollmentStore(res.DB)
	states := state.NewMemoryManager()

	enroller := &registration.Enroller{
		Store: enrollments,
		Sink:  sink,
		Issuer: coupon.Issuer{
			Prefix:   cfg.Promo.CouponPrefix,
			Discount: cfg.Promo.CouponDiscount,
		},
	}

	adminID := cfg.Core.Telegram.AdminID
	delay := time.Duration(cfg.Promo.BroadcastDelayMS) * time.Millisecond

	return &App{
		cfg:          cfg,
		db:           res.DB,
		registration: registration.NewFlow(enroller, states, cfg.Promo, adminID),
		broadcast:    broadcast.NewFlow(enrollments, states, adminID, delay),
		stats:        stats.NewFlow(enrollments, sink),
		states:       states,
	}, nil
}

// TelegramRunOptions wires commands, callbacks, middleware, and routes.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()

	reg.RegisterCommand("/start", commands.Command{
		Handler:     a.registration.Start,
		Description: "Получить купон",
	})
	reg.RegisterCommand("/stats", commands.Command{
		Handler:     a.stats.Stats,
		Description: "Статистика бота",
		AdminOnly:   true,
		Hidden:      true,
	})
	reg.RegisterCommand("/broadcast", commands.Command{
		Handler:     a.broadcast.Start,
		Description: "Начать рассылку",
		AdminOnly:   true,
		Hidden:      true,
	})
	reg.RegisterCommand("/cancel", commands.Command{
		Handler:     a.broadcast.CancelCommand,
		Description: "Отменить рассылку",
		AdminOnly:   true,
		Hidden:      true,
	})

	if err := reg.RegisterCallback(registration.CallbackCheckSubscription, a.registration.CheckSubscription); err != nil {
		return coretelegram.RunOptions{}, err
	}
	if err := reg.RegisterCallback(broadcast.CallbackMode, a.broadcast.ModeSelected); err != nil {
		return coretelegram.RunOptions{}, err
	}
	if err := reg.RegisterCallback(broadcast.CallbackConfirm, a.broadcast.Confirm); err != nil {
		return coretelegram.RunOptions{}, err
	}
	if err := reg.RegisterCallback(broadcast.CallbackCancel, a.broadcast.Cancel); err != nil {
		return coretelegram.RunOptions{}, err
	}

	reg.SetTextFallback(a.registration.Fallback)

	rejectNonAdmin := func(c tele.Context) error {
		return tghelpers.SendText(c, textAdminOnly)
	}

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID:       a.cfg.Core.Telegram.AdminID,
		OnAdminReject: rejectNonAdmin,
	})
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))
	routes = append(routes, router.MessageRoutes(a.states, reg, router.MessageOptions{
		UnexpectedContact: a.registration.Fallback,
		UnexpectedPhoto:   a.registration.Fallback,
	})...)

	return coretelegram.RunOptions{
		Config:      a.cfg.CoreConfig(),
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(a.cfg.CoreConfig(), nil),
		Routes:      routes,
		OnStart: func(ctx context.Context, _ coretelegram.Runtime) error {
			a.broadcast.SetBaseContext(ctx)
			return nil
		},
		OnStop: func(context.Context, coretelegram.Runtime) error {
			return a.db.Close()
		},
	}, nil
}
