package config

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

type App struct {
	Addr        string
	BasePath    string
	Development bool
	SessionTTL  time.Duration
}

func NewApp() (*App, error) {
	ttl, err := durationEnv("SESSION_TTL", 2*time.Hour)
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive, got %s", ttl)
	}
	return &App{
		Addr:        stringEnv("APP_ADDR", ":8080"),
		BasePath:    stringEnv("APP_BASE_PATH", ""),
		Development: Development(),
		SessionTTL:  ttl,
	}, nil
}

func (a App) Fields() logrus.Fields {
	return logrus.Fields{
		"addr":        a.Addr,
		"base_path":   a.BasePath,
		"development": a.Development,
		"session_ttl": a.SessionTTL.String(),
	}
}
