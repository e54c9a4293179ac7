package telegram

import (
	"testing"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/promobot/core/telegram/commands"
)

func noop(tele.Context) error { return nil }

func TestRegistryCommands(t *testing.T) {
	r := NewRegistry()
	r.RegisterCommand("/start", commands.Command{Handler: noop, Description: "start"})
	r.RegisterCommand("/stats", commands.Command{Handler: noop, Description: "stats", AdminOnly: true, Hidden: true})
	r.RegisterCommand("nocmd", commands.Command{Handler: noop, Description: "missing slash"})
	r.RegisterCommand("/broken", commands.Command{Description: "nil handler"})

	if len(r.Commands()) != 2 {
		t.Fatalf("commands = %d, invalid registrations must be skipped", len(r.Commands()))
	}

	name, cmd, ok := r.LookupCommand("start")
	if !ok || name != "/start" || cmd.AdminOnly {
		t.Fatalf("lookup start = %q ok=%v", name, ok)
	}
	if _, _, ok := r.LookupCommand("/missing"); ok {
		t.Fatal("unknown command must not resolve")
	}

	visible := r.ListCommands(true)
	if len(visible) != 1 || visible[0].Text != "/start" {
		t.Fatalf("visible commands = %v, admin-only must be hidden", visible)
	}
}

func TestRegistryDuplicateCommand(t *testing.T) {
	r := NewRegistry()
	r.RegisterCommand("/start", commands.Command{Handler: noop, Description: "first"})
	r.RegisterCommand("/start", commands.Command{Handler: noop, Description: "second"})

	_, cmd, _ := r.LookupCommand("/start")
	if cmd.Description != "first" {
		t.Fatalf("description = %q, first registration must win", cmd.Description)
	}
}

func TestRegistryCallbacks(t *testing.T) {
	r := NewRegistry()
	if err := r.RegisterCallback("check_subscription", noop); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := r.RegisterCallback("check_subscription", noop); err == nil {
		t.Fatal("duplicate callback must error")
	}
	if err := r.RegisterCallback("", noop); err == nil {
		t.Fatal("empty key must error")
	}

	if _, ok := r.GetCallback("check_subscription"); !ok {
		t.Fatal("registered callback must resolve")
	}
	if _, ok := r.GetCallback("unknown"); ok {
		t.Fatal("unknown callback must not resolve")
	}

	keys := r.ListCallbacks()
	if len(keys) != 1 || keys[0] != "check_subscription" {
		t.Fatalf("keys = %v", keys)
	}
}
