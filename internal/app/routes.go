package app

import (
	"github.com/pravdin97/minesweeper/internal/handlers"
)

func (a *App) loadRoutes() {
	base := a.cfg.BasePath
	status := handlers.NewStatusHandler(a.log, a.store.Len)
	game := handlers.NewGameHandler(a.log, a.store, a.cookies, a.ws)

	a.router.HandleFunc("GET "+base+"/v1/status", status.Status)

	a.router.HandleFunc("POST "+base+"/v1/game", game.NewGame)
	a.router.HandleFunc("GET "+base+"/v1/game/{id}", game.Fetch)
	a.router.HandleFunc("GET "+base+"/v1/game/{id}/board", game.Board)
	a.router.HandleFunc("POST "+base+"/v1/game/{id}/open", game.Open)
	a.router.HandleFunc("POST "+base+"/v1/game/{id}/flag", game.Flag)
	a.router.HandleFunc("POST "+base+"/v1/game/{id}/restart", game.Restart)
	a.router.HandleFunc("POST "+base+"/v1/game/{id}/batch", game.Batch)

	a.router.HandleFunc("GET "+base+"/v1/game/{id}/connect", game.ConnectWS)
}
