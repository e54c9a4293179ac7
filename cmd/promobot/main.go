package main

import (
	"fmt"
	"log"
	"os"

	"github.com/m3rciful/promobot/core/buildinfo"
	corecmd "github.com/m3rciful/promobot/core/cmd"
	"github.com/m3rciful/promobot/internal/app"
	"github.com/m3rciful/promobot/internal/config"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "version") {
		fmt.Println(buildinfo.String())
		return
	}

	err := corecmd.Run(corecmd.Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			return config.Load(path)
		},
		Bootstrap: func(carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
			cfg, ok := carrier.(*config.Config)
			if !ok {
				return nil, fmt.Errorf("unexpected config type %T", carrier)
			}
			return app.Bootstrap(cfg)
		},
	})
	if err != nil {
		log.Fatalf("promobot: %v", err)
	}
}
