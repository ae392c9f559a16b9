package play

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-agent/internal/knowledge"
	"github.com/vancomm/minesweeper-agent/internal/metrics"
	"github.com/vancomm/minesweeper-agent/internal/mines"
)

var ErrFinished = errors.New("game is finished")

type Outcome string

const (
	Playing Outcome = "playing"
	Won     Outcome = "won"
	Lost    Outcome = "lost"
	Stalled Outcome = "stalled"
)

// Step describes one move and what the board answered.
type Step struct {
	Move    knowledge.Move `json:"-"`
	Kind    string         `json:"kind"`
	X       int            `json:"x"`
	Y       int            `json:"y"`
	Reveals []mines.Reveal `json:"reveals"`
	Outcome Outcome        `json:"outcome"`
}

type Result struct {
	Params   mines.GameParams `json:"params"`
	Outcome  Outcome          `json:"outcome"`
	Moves    int              `json:"moves"`
	Guesses  int              `json:"guesses"`
	Duration time.Duration    `json:"duration"`
}

// Player drives one agent through one game. A Player is not safe for
// concurrent use.
type Player struct {
	params  mines.GameParams
	rnd     *rand.Rand
	logger  *logrus.Logger
	agent   *knowledge.Agent
	game    *mines.GameState
	outcome Outcome
	moves   int
	guesses int
	started time.Time
	elapsed time.Duration
}

func New(params mines.GameParams, r *rand.Rand, logger *logrus.Logger, opts ...knowledge.Option) (*Player, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	agent, err := knowledge.NewAgent(params.Height, params.Width, r, opts...)
	if err != nil {
		return nil, err
	}
	return &Player{
		params:  params,
		rnd:     r,
		logger:  logger,
		agent:   agent,
		outcome: Playing,
	}, nil
}

func (p *Player) Params() mines.GameParams { return p.params }
func (p *Player) Agent() *knowledge.Agent  { return p.agent }
func (p *Player) Outcome() Outcome         { return p.outcome }
func (p *Player) Moves() int               { return p.moves }
func (p *Player) Guesses() int             { return p.guesses }

// Game returns the board, or nil before the first move.
func (p *Player) Game() *mines.GameState { return p.game }

/*
Step makes the agent's next move.

The board is laid out around the first move, so it never hits a mine.
Every square the board opens is fed back to the agent, and every mine the
agent has proven gets flagged on the board.
*/
func (p *Player) Step(ctx context.Context) (Step, error) {
	if err := ctx.Err(); err != nil {
		return Step{}, err
	}
	if p.outcome != Playing {
		return Step{}, ErrFinished
	}
	if p.moves == 0 {
		p.started = time.Now()
	}

	move, ok := p.agent.NextMove()
	if !ok {
		p.finish(Stalled)
		return Step{Outcome: p.outcome}, nil
	}
	x, y := move.Col, move.Row

	var reveals []mines.Reveal
	if p.game == nil {
		game, rs, err := mines.NewGame(p.params, x, y, p.rnd)
		if err != nil {
			return Step{}, fmt.Errorf("unable to create game: %w", err)
		}
		p.game, reveals = game, rs
	} else {
		reveals = p.game.OpenCell(x, y)
	}

	p.moves++
	if move.Kind == knowledge.KindRandom {
		p.guesses++
	}
	metrics.Moves.WithLabelValues(move.Kind.String()).Inc()

	step := Step{
		Move:    move,
		Kind:    move.Kind.String(),
		X:       x,
		Y:       y,
		Reveals: reveals,
	}

	if p.game.Dead {
		p.finish(Lost)
		step.Outcome = p.outcome
		return step, nil
	}

	if err := p.observe(reveals); err != nil {
		return step, err
	}

	if p.game.Won {
		p.finish(Won)
	}
	step.Outcome = p.outcome

	p.logger.WithFields(logrus.Fields{
		"move":    move.Cell.String(),
		"kind":    step.Kind,
		"reveals": len(reveals),
		"outcome": step.Outcome,
	}).Debug("step")

	return step, nil
}

func (p *Player) observe(reveals []mines.Reveal) error {
	kb := p.agent.Knowledge()
	for _, r := range reveals {
		c := knowledge.Cell{Row: r.Y, Col: r.X}
		if kb.Moved(c) {
			continue
		}
		if err := p.agent.AddObservation(c, r.Count); err != nil {
			var ie *knowledge.InvariantError
			if errors.As(err, &ie) {
				metrics.Contradictions.Inc()
			}
			return fmt.Errorf("unable to observe %s: %w", c, err)
		}
		stats := kb.Stats()
		metrics.ClosureIterations.Observe(float64(stats.Iterations))
		metrics.Sentences.Observe(float64(stats.Sentences))
	}
	for _, c := range kb.Mines() {
		p.game.MarkMine(c.Col, c.Row)
	}
	return nil
}

// Run steps until the game is over or the agent runs out of moves.
func (p *Player) Run(ctx context.Context) (Result, error) {
	for p.outcome == Playing {
		if _, err := p.Step(ctx); err != nil {
			return p.Result(), err
		}
	}
	return p.Result(), nil
}

// Forfeit ends a running game as lost.
func (p *Player) Forfeit() {
	if p.outcome != Playing {
		return
	}
	if p.game != nil {
		p.game.Forfeit()
	}
	p.finish(Lost)
}

func (p *Player) Result() Result {
	return Result{
		Params:   p.params,
		Outcome:  p.outcome,
		Moves:    p.moves,
		Guesses:  p.guesses,
		Duration: p.elapsed,
	}
}

func (p *Player) finish(o Outcome) {
	p.outcome = o
	if !p.started.IsZero() {
		p.elapsed = time.Since(p.started)
	}
	if p.game != nil && o != Won {
		p.game.RevealMines()
	}
	metrics.Games.WithLabelValues(string(o)).Inc()

	p.logger.WithFields(logrus.Fields{
		"params":  p.params.Seed(),
		"outcome": o,
		"moves":   p.moves,
		"guesses": p.guesses,
	}).Debug("game over")
}
