package handlers

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-agent/internal/config"
	"github.com/vancomm/minesweeper-agent/internal/middleware"
	"github.com/vancomm/minesweeper-agent/internal/play"
	"github.com/vancomm/minesweeper-agent/internal/repository"
	"github.com/vancomm/minesweeper-agent/internal/session"
)

type RunStore interface {
	CreateRun(ctx context.Context, params repository.CreateRunParams) (*repository.Run, error)
	FetchRun(ctx context.Context, runId int64) (*repository.Run, error)
	UpdateRun(ctx context.Context, runId int64, params repository.UpdateRunParams) (*repository.Run, error)
}

var (
	ErrGameNotLive = errors.New("game is not live")
	ErrNotYourGame = errors.New("game belongs to another player")
)

type GameHandler struct {
	logger   *logrus.Logger
	runs     RunStore
	sessions *session.Registry
	ws       *config.WebSocket

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewGameHandler(
	logger *logrus.Logger,
	runs RunStore,
	sessions *session.Registry,
	ws *config.WebSocket,
	rnd *rand.Rand,
) *GameHandler {
	return &GameHandler{
		logger:   logger,
		runs:     runs,
		sessions: sessions,
		ws:       ws,
		rnd:      rnd,
	}
}

// gameRand gives every game its own generator so that sessions never share
// one across goroutines.
func (g *GameHandler) gameRand() *rand.Rand {
	g.mu.Lock()
	defer g.mu.Unlock()
	return rand.New(rand.NewPCG(g.rnd.Uint64(), g.rnd.Uint64()))
}

func (g *GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		sendError(w, g.logger, http.StatusBadRequest, err)
		return
	}
	params, err := ParseNewGameDTO(r.Form)
	if err != nil {
		sendError(w, g.logger, http.StatusBadRequest, err)
		return
	}
	if err := params.Validate(); err != nil {
		sendError(w, g.logger, http.StatusBadRequest, err)
		return
	}

	var playerId *int64
	if claims, ok := middleware.PlayerClaims(r.Context()); ok {
		playerId = &claims.PlayerId
	}

	player, err := play.New(params, g.gameRand(), g.logger)
	if err != nil {
		sendError(w, g.logger, http.StatusBadRequest, err)
		return
	}

	run, err := g.runs.CreateRun(r.Context(), repository.CreateRunParams{
		PlayerId:   playerId,
		GameParams: params,
	})
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.logger.WithError(err).Error("unable to create run")
		return
	}

	g.sessions.Put(session.New(run.RunId, playerId, player))
	g.logger.WithFields(logrus.Fields{
		"run_id": run.RunId,
		"params": params.Seed(),
	}).Debug("new game")

	w.WriteHeader(http.StatusCreated)
	sendJSONOrLog(w, g.logger, NewLiveGameDTO(run.RunId, player))
}

func (g *GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	runId, err := pathId(r)
	if err != nil {
		sendError(w, g.logger, http.StatusBadRequest, err)
		return
	}

	if s, ok := g.sessions.Get(runId); ok {
		var dto *GameDTO
		s.Do(func(p *play.Player) error {
			dto = NewLiveGameDTO(runId, p)
			return nil
		})
		sendJSONOrLog(w, g.logger, dto)
		return
	}

	run, err := g.runs.FetchRun(r.Context(), runId)
	if errors.Is(err, pgx.ErrNoRows) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.logger.WithError(err).Error("unable to fetch run from db")
		return
	}
	dto, err := NewStoredGameDTO(run)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.logger.WithError(err).Error("db returned invalid agent_run.state")
		return
	}
	sendJSONOrLog(w, g.logger, dto)
}

// liveSession finds the session for the request and checks that the caller
// may drive it.
func (g *GameHandler) liveSession(r *http.Request) (*session.Session, int, error) {
	runId, err := pathId(r)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	s, ok := g.sessions.Get(runId)
	if !ok {
		return nil, http.StatusNotFound, ErrGameNotLive
	}
	if s.PlayerId != nil {
		claims, ok := middleware.PlayerClaims(r.Context())
		if !ok || claims.PlayerId != *s.PlayerId {
			return nil, http.StatusForbidden, ErrNotYourGame
		}
	}
	return s, 0, nil
}

func (g *GameHandler) Step(w http.ResponseWriter, r *http.Request) {
	s, status, err := g.liveSession(r)
	if err != nil {
		sendError(w, g.logger, status, err)
		return
	}

	var dto StepDTO
	err = s.Do(func(p *play.Player) error {
		step, err := p.Step(r.Context())
		if err != nil {
			return err
		}
		dto = StepDTO{Step: step, Game: NewLiveGameDTO(s.Id, p)}
		return g.finish(r.Context(), s.Id, p)
	})
	if err != nil {
		g.fail(w, s.Id, err)
		return
	}
	sendJSONOrLog(w, g.logger, dto)
}

func (g *GameHandler) Solve(w http.ResponseWriter, r *http.Request) {
	s, status, err := g.liveSession(r)
	if err != nil {
		sendError(w, g.logger, status, err)
		return
	}

	var dto SolveDTO
	err = s.Do(func(p *play.Player) error {
		res, err := p.Run(r.Context())
		if err != nil {
			return err
		}
		dto = SolveDTO{Result: res, Game: NewLiveGameDTO(s.Id, p)}
		return g.finish(r.Context(), s.Id, p)
	})
	if err != nil {
		g.fail(w, s.Id, err)
		return
	}
	sendJSONOrLog(w, g.logger, dto)
}

func (g *GameHandler) Forfeit(w http.ResponseWriter, r *http.Request) {
	s, status, err := g.liveSession(r)
	if err != nil {
		sendError(w, g.logger, status, err)
		return
	}

	var dto *GameDTO
	err = s.Do(func(p *play.Player) error {
		p.Forfeit()
		dto = NewLiveGameDTO(s.Id, p)
		return g.finish(r.Context(), s.Id, p)
	})
	if err != nil {
		g.fail(w, s.Id, err)
		return
	}
	sendJSONOrLog(w, g.logger, dto)
}

// finish stores a game that is over and drops its session.
func (g *GameHandler) finish(ctx context.Context, runId int64, p *play.Player) error {
	if p.Outcome() == play.Playing {
		return nil
	}
	res := p.Result()
	outcome := string(res.Outcome)
	ended := time.Now().UTC()
	params := repository.UpdateRunParams{
		Outcome: &outcome,
		Moves:   &res.Moves,
		Guesses: &res.Guesses,
		EndedAt: &ended,
	}
	if game := p.Game(); game != nil {
		state, err := game.Bytes()
		if err != nil {
			return fmt.Errorf("unable to serialize game state: %w", err)
		}
		params.State = &state
	}
	if _, err := g.runs.UpdateRun(ctx, runId, params); err != nil {
		return fmt.Errorf("unable to update run: %w", err)
	}
	g.sessions.Delete(runId)
	return nil
}

func (g *GameHandler) fail(w http.ResponseWriter, runId int64, err error) {
	switch {
	case errors.Is(err, play.ErrFinished):
		sendError(w, g.logger, http.StatusConflict, err)
	case errors.Is(err, context.Canceled):
		w.WriteHeader(http.StatusRequestTimeout)
	default:
		g.logger.WithError(err).WithField("run_id", runId).Error("game failed")
		sendError(w, g.logger, http.StatusInternalServerError, err)
	}
}
