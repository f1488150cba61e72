package main

import (
	"fmt"
	"os"

	"stepik-analytics/internal/app"
)

func main() {
	a, err := app.New()
	if err != nil {
		fmt.Printf("Failed to init app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	if err := a.Start(); err != nil {
		a.Log.Warn("Scheduler start failed", "error", err)
	}

	fmt.Printf("Server listening on %s\n", a.Cfg.HTTPAddr)
	if err := a.Run(a.Cfg.HTTPAddr); err != nil {
		a.Log.Warn("Server failed", "error", err)
	}
}
