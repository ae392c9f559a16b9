package play

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minesweeper-agent/internal/mines"
)

type BenchConfig struct {
	Params mines.GameParams
	Games  int
	// Seed makes a run reproducible: game i is played with PCG(Seed, i).
	Seed uint64
	// Concurrency limits the games played at once. Zero means GOMAXPROCS.
	Concurrency int
}

type Summary struct {
	Params     mines.GameParams `json:"params"`
	Games      int              `json:"games"`
	Won        int              `json:"won"`
	Lost       int              `json:"lost"`
	Stalled    int              `json:"stalled"`
	WinRate    float64          `json:"win_rate"`
	Moves      int              `json:"moves"`
	Guesses    int              `json:"guesses"`
	AvgGuesses float64          `json:"avg_guesses"`
	Duration   time.Duration    `json:"duration"`
}

func (s Summary) String() string {
	return fmt.Sprintf(
		"%s: %d games, %d won (%.1f%%), %d lost, %d stalled, %.2f guesses/game, %s",
		s.Params.Seed(), s.Games, s.Won, s.WinRate*100, s.Lost, s.Stalled,
		s.AvgGuesses, s.Duration.Round(time.Millisecond),
	)
}

// Bench plays cfg.Games independent games and aggregates their results.
func Bench(ctx context.Context, cfg BenchConfig, logger *logrus.Logger) (Summary, error) {
	if err := cfg.Params.Validate(); err != nil {
		return Summary{}, err
	}
	if cfg.Games <= 0 {
		return Summary{}, fmt.Errorf("number of games must be positive, got %d", cfg.Games)
	}
	limit := cfg.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	start := time.Now()
	results := make([]Result, cfg.Games)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := range cfg.Games {
		g.Go(func() error {
			r := rand.New(rand.NewPCG(cfg.Seed, uint64(i)))
			p, err := New(cfg.Params, r, logger)
			if err != nil {
				return err
			}
			res, err := p.Run(ctx)
			if err != nil {
				return fmt.Errorf("game %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	s := Summary{Params: cfg.Params, Games: cfg.Games}
	for _, res := range results {
		switch res.Outcome {
		case Won:
			s.Won++
		case Lost:
			s.Lost++
		case Stalled:
			s.Stalled++
		}
		s.Moves += res.Moves
		s.Guesses += res.Guesses
	}
	s.WinRate = float64(s.Won) / float64(s.Games)
	s.AvgGuesses = float64(s.Guesses) / float64(s.Games)
	s.Duration = time.Since(start)

	logger.WithFields(logrus.Fields{
		"params":   cfg.Params.Seed(),
		"games":    s.Games,
		"win_rate": s.WinRate,
	}).Info("bench finished")

	return s, nil
}
