package app

import (
	"hash/maphash"
	"math/rand/v2"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vancomm/minesweeper-agent/internal/handlers"
	"github.com/vancomm/minesweeper-agent/internal/repository"
)

func createRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

func (a *App) loadRoutes(db repository.DBTX) {
	repo := repository.New(db)

	game := handlers.NewGameHandler(
		a.logger, repo, a.sessions, a.ws, createRand(),
	)
	a.router.HandleFunc("POST /game", game.NewGame)
	a.router.HandleFunc("GET /game/{id}", game.Fetch)
	a.router.HandleFunc("POST /game/{id}/step", game.Step)
	a.router.HandleFunc("POST /game/{id}/solve", game.Solve)
	a.router.HandleFunc("POST /game/{id}/forfeit", game.Forfeit)
	a.router.HandleFunc("/game/{id}/connect", game.ConnectWS)

	auth := handlers.NewAuth(a.logger, repo, a.cookies)
	a.router.HandleFunc("POST /register", auth.Register)
	a.router.HandleFunc("POST /login", auth.Login)
	a.router.HandleFunc("POST /logout", auth.Logout)
	a.router.HandleFunc("GET /status", auth.Status)

	leaderboard := handlers.NewLeaderboard(a.logger, repo)
	a.router.HandleFunc("GET /leaderboard", leaderboard.Get)

	a.router.Handle("GET /metrics", promhttp.Handler())
	a.router.HandleFunc("GET /health", handlers.Health)
}
