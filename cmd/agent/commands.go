package main

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/maphash"
	"io"
	"math/rand/v2"
	"os"
	"os/signal"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vancomm/minesweeper-agent/internal/config"
	"github.com/vancomm/minesweeper-agent/internal/knowledge"
	"github.com/vancomm/minesweeper-agent/internal/logging"
	"github.com/vancomm/minesweeper-agent/internal/mines"
	"github.com/vancomm/minesweeper-agent/internal/play"
)

type options struct {
	width, height, mineCount int
	seed                     uint64
	preset                   string
	presetsPath              string
	games                    int
	concurrency              int
	quiet                    bool
	jsonOut                  bool
	verbose                  bool

	log *logrus.Logger
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "agent",
		Short:         "A Minesweeper agent that plays by logical inference",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logCfg, err := config.NewLogging()
			if err != nil {
				return err
			}
			if opts.verbose {
				logCfg.Level = logrus.DebugLevel
			}
			log, err := logging.New(logCfg)
			if err != nil {
				return err
			}
			log.SetOutput(cmd.ErrOrStderr())
			opts.log = log
			knowledge.Log = log
			if opts.seed == 0 {
				opts.seed = new(maphash.Hash).Sum64()
			}
			return nil
		},
	}
	rootCmd.PersistentFlags().Uint64Var(&opts.seed, "seed", 0, "random seed (0 picks one)")
	rootCmd.PersistentFlags().StringVar(&opts.preset, "preset", "", "board preset name")
	rootCmd.PersistentFlags().StringVar(&opts.presetsPath, "presets", "", "YAML file with extra presets")
	rootCmd.PersistentFlags().IntVar(&opts.width, "width", 9, "board width")
	rootCmd.PersistentFlags().IntVar(&opts.height, "height", 9, "board height")
	rootCmd.PersistentFlags().IntVar(&opts.mineCount, "mines", 10, "number of mines")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log inference details")

	playCmd := &cobra.Command{
		Use:   "play",
		Short: "Play one game and print the board after every move",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}
	playCmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "only print the final board")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "Play many games and report the win rate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(cmd.Context(), cmd.OutOrStdout(), opts, cmd.Flags().Changed("games"))
		},
	}
	benchCmd.Flags().IntVarP(&opts.games, "games", "n", 100, "number of games")
	benchCmd.Flags().IntVarP(&opts.concurrency, "concurrency", "j", 0, "games played at once (0 means GOMAXPROCS)")
	benchCmd.Flags().BoolVar(&opts.jsonOut, "json", false, "print the summary as JSON")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "List the known board presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPresets(cmd.OutOrStdout(), opts)
		},
	}

	rootCmd.AddCommand(playCmd, benchCmd, presetsCmd)
	return rootCmd
}

// params resolves the board from --preset, falling back to the size flags.
func (o *options) params() (mines.GameParams, *config.Preset, error) {
	if o.preset == "" {
		p := mines.GameParams{Width: o.width, Height: o.height, MineCount: o.mineCount}
		return p, nil, p.Validate()
	}
	presets, err := config.LoadPresets(o.presetsPath)
	if err != nil {
		return mines.GameParams{}, nil, err
	}
	preset, ok := presets[o.preset]
	if !ok {
		return mines.GameParams{}, nil, fmt.Errorf("unknown preset %q", o.preset)
	}
	p := mines.GameParams{Width: preset.Width, Height: preset.Height, MineCount: preset.MineCount}
	return p, &preset, p.Validate()
}

func signalContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, os.Interrupt)
}

func runPlay(ctx context.Context, out io.Writer, opts *options) error {
	params, _, err := opts.params()
	if err != nil {
		return err
	}
	ctx, stop := signalContext(ctx)
	defer stop()

	p, err := play.New(params, rand.New(rand.NewPCG(opts.seed, opts.seed)), opts.log)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "board %s, seed %d\n", params.Seed(), opts.seed)
	for p.Outcome() == play.Playing {
		step, err := p.Step(ctx)
		if err != nil {
			return err
		}
		if opts.quiet || step.Outcome == play.Stalled {
			continue
		}
		fmt.Fprintf(out, "\n%s move at (%d, %d)\n", step.Kind, step.X, step.Y)
		fmt.Fprint(out, p.Game().PlayerGrid.ToString(params.Width))
	}

	res := p.Result()
	if opts.quiet && p.Game() != nil {
		fmt.Fprint(out, p.Game().PlayerGrid.ToString(params.Width))
	}
	fmt.Fprintf(out, "\n%s after %d moves (%d guesses)\n", res.Outcome, res.Moves, res.Guesses)
	return nil
}

func runBench(ctx context.Context, out io.Writer, opts *options, gamesSet bool) error {
	params, preset, err := opts.params()
	if err != nil {
		return err
	}
	games := opts.games
	if preset != nil && !gamesSet {
		games = preset.Games
	}
	ctx, stop := signalContext(ctx)
	defer stop()

	summary, err := play.Bench(ctx, play.BenchConfig{
		Params:      params,
		Games:       games,
		Seed:        opts.seed,
		Concurrency: opts.concurrency,
	}, opts.log)
	if err != nil {
		return err
	}

	if opts.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}
	fmt.Fprintln(out, summary.String())
	return nil
}

func runPresets(out io.Writer, opts *options) error {
	presets, err := config.LoadPresets(opts.presetsPath)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		p := presets[name]
		fmt.Fprintf(out, "%-14s %dx%d, %d mines, %d games\n", name, p.Width, p.Height, p.MineCount, p.Games)
	}
	return nil
}
