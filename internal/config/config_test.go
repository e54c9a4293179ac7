package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const validYAML = `
telegram:
  token: "123:abc"
  admin_id: 99
promo:
  channel: "@pit_store"
sheets:
  spreadsheet_id: "sheet-id"
  credentials_file: "credentials.json"
`

func TestLoadValid(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Core.Telegram.AdminID != 99 {
		t.Fatalf("admin id = %d", cfg.Core.Telegram.AdminID)
	}
	if cfg.Promo.CouponPrefix != "PIT" || cfg.Promo.CouponDiscount != 15 {
		t.Fatalf("coupon defaults = %q/%d", cfg.Promo.CouponPrefix, cfg.Promo.CouponDiscount)
	}
	if cfg.Sheets.SheetName != "Sheet1" {
		t.Fatalf("sheet name default = %q", cfg.Sheets.SheetName)
	}
	if cfg.Database.Path == "" {
		t.Fatal("database path default missing")
	}
}

func TestLoadReportsEveryMissingKey(t *testing.T) {
	_, err := Load(writeConfig(t, "telegram:\n  run_mode: longpoll\n"))
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, key := range []string{
		"BOT_TOKEN",
		"TELEGRAM_ADMIN_ID",
		"PROMO_CHANNEL",
		"SHEETS_SPREADSHEET_ID",
		"SHEETS_CREDENTIALS_FILE",
	} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("diagnostic %q missing key %s", err, key)
		}
	}
}

func TestLoadPartialMissing(t *testing.T) {
	body := strings.Replace(validYAML, `channel: "@pit_store"`, `channel: ""`, 1)
	_, err := Load(writeConfig(t, body))
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "PROMO_CHANNEL") {
		t.Errorf("diagnostic %q must name PROMO_CHANNEL", err)
	}
	if strings.Contains(err.Error(), "BOT_TOKEN") {
		t.Errorf("diagnostic %q must not name present keys", err)
	}
}
