package main

import (
	"github.com/gloomdelve/server/internal/logging"
)

func main() {
	app, err := newApp()
	if err != nil {
		logging.Fatal("startup failed", err, nil)
	}
	if err := app.run(); err != nil {
		logging.Fatal("server stopped", err, nil)
	}
}
