package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/pravdin97/minesweeper/internal/app"
	"github.com/pravdin97/minesweeper/internal/config"
	"github.com/pravdin97/minesweeper/internal/logging"
	"github.com/pravdin97/minesweeper/internal/mines"
)

func main() {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	fallback := logrus.New()

	appCfg, err := config.NewApp()
	if err != nil {
		fallback.Fatal("failed to read app config: ", err)
	}

	logCfg, err := config.NewLogging()
	if err != nil {
		fallback.Fatal("failed to read logging config: ", err)
	}

	log, err := logging.New(logCfg, appCfg.Development)
	if err != nil {
		fallback.Fatal("failed to set up logging: ", err)
	}
	mines.Log = log

	dims, err := config.NewGrid()
	if err != nil {
		log.Fatal("failed to read grid config: ", err)
	}

	jwt, err := config.NewJWT(appCfg.Development)
	if err != nil {
		log.Fatal("failed to read jwt config: ", err)
	}

	cookies, err := config.NewCookies(jwt)
	if err != nil {
		log.Fatal("failed to read cookies config: ", err)
	}

	ws, err := config.NewWebSocket(appCfg.Development)
	if err != nil {
		log.Fatal("failed to read ws config: ", err)
	}

	log.WithFields(appCfg.Fields()).
		WithField("grid", dims.String()).
		Info("starting up")

	if err := app.New(log, appCfg, dims, cookies, ws).Start(ctx); err != nil {
		log.Fatal("exit reason: ", err)
	}
	log.Info("shut down")
}
