package main

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"slices"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/hailam/checkersplay/internal/board"
	"github.com/hailam/checkersplay/internal/engine"
	"github.com/hailam/checkersplay/internal/game"
	"github.com/hailam/checkersplay/internal/protocol"
	"github.com/hailam/checkersplay/internal/storage"
)

// openStorage opens the database in --data-dir or the platform data directory.
func openStorage(cmd *cli.Command) (*storage.Storage, error) {
	if dir := cmd.String("data-dir"); dir != "" {
		dbDir, err := storage.DatabaseDirIn(dir)
		if err != nil {
			return nil, err
		}
		return storage.Open(dbDir)
	}
	return storage.NewStorage()
}

// loadPreferences returns the saved preferences, or the defaults when storage
// is unavailable.
func loadPreferences(cmd *cli.Command) *storage.Preferences {
	store, err := openStorage(cmd)
	if err != nil {
		log.Printf("Warning: Failed to initialize storage: %v", err)
		return storage.DefaultPreferences()
	}
	defer store.Close()

	prefs, err := store.LoadPreferences()
	if err != nil {
		log.Printf("Warning: Failed to load preferences: %v", err)
		return storage.DefaultPreferences()
	}
	return prefs
}

// resolveLimits combines saved preferences with flags. --difficulty replaces
// the saved depth and algorithm; --depth and --algorithm override either.
func resolveLimits(cmd *cli.Command, prefs *storage.Preferences) (engine.SearchLimits, string, error) {
	limits := engine.SearchLimits{
		Depth:     prefs.Depth,
		Algorithm: engine.Algorithm(prefs.Algorithm),
	}
	difficulty := prefs.Difficulty

	if cmd.IsSet("difficulty") {
		d, err := engine.ParseDifficulty(cmd.String("difficulty"))
		if err != nil {
			return limits, "", err
		}
		limits = engine.DifficultySettings[d]
		difficulty = d.String()
	}
	if cmd.IsSet("algorithm") {
		algo, err := engine.ParseAlgorithm(cmd.String("algorithm"))
		if err != nil {
			return limits, "", err
		}
		limits.Algorithm = algo
	}
	if cmd.IsSet("depth") {
		limits.Depth = cmd.Int("depth")
	}

	return limits, difficulty, nil
}

func newEngine(cmd *cli.Command) (*engine.Engine, error) {
	limits, _, err := resolveLimits(cmd, loadPreferences(cmd))
	if err != nil {
		return nil, err
	}
	return engineWithLimits(limits)
}

func engineWithLimits(limits engine.SearchLimits) (*engine.Engine, error) {
	eng := engine.NewEngine()
	if err := eng.SetAlgorithm(limits.Algorithm); err != nil {
		return nil, err
	}
	if err := eng.SetDepth(limits.Depth); err != nil {
		return nil, err
	}
	return eng, nil
}

// boardFromFlags reads --board and --side.
func boardFromFlags(cmd *cli.Command) (board.Board, board.Color, error) {
	c, err := board.ParseColor(cmd.String("side"))
	if err != nil {
		return board.Board{}, c, err
	}
	if n := cmd.String("board"); n != "" {
		b, err := board.ParseBoard(n)
		return b, c, err
	}
	return board.NewBoard(), c, nil
}

func runProtocol(ctx context.Context, cmd *cli.Command) error {
	eng, err := newEngine(cmd)
	if err != nil {
		return err
	}
	return protocol.New(eng, os.Stdin, os.Stdout).Run()
}

func runMoves(ctx context.Context, cmd *cli.Command) error {
	b, c, err := boardFromFlags(cmd)
	if err != nil {
		return err
	}

	var moves []board.Move
	if cmd.Args().Present() {
		sq, err := board.ParseSquare(cmd.Args().First())
		if err != nil {
			return err
		}
		if moves, err = board.MovesFor(b, sq); err != nil {
			return err
		}
	} else {
		moves = board.AvailableMoves(b, c)
	}

	fmt.Print(b.String())
	if eat := board.CanEat(b, c); len(eat) > 0 {
		names := make([]string, len(eat))
		for i, sq := range eat {
			names[i] = sq.String()
		}
		fmt.Printf("%s must capture with: %s\n", c, strings.Join(names, " "))
	}
	for _, m := range moves {
		fmt.Println(m)
	}
	fmt.Printf("%d moves\n", len(moves))
	return nil
}

func runBest(ctx context.Context, cmd *cli.Command) error {
	b, c, err := boardFromFlags(cmd)
	if err != nil {
		return err
	}
	eng, err := newEngine(cmd)
	if err != nil {
		return err
	}

	res, ok, err := eng.Search(b, c)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Printf("%s has no legal moves\n", c)
		return nil
	}

	limits := eng.Limits()
	fmt.Printf("best %s score %d (%s)\n", res.Move, res.Score, engine.ScoreToString(res.Score))
	fmt.Printf("%s depth %d: %s nodes in %v\n", limits.Algorithm, limits.Depth, humanize.Comma(int64(res.Nodes)), res.Elapsed)
	if !res.Move.IsNone() {
		fmt.Print(res.Move.Result.String())
	}
	return nil
}

func runPlay(ctx context.Context, cmd *cli.Command) error {
	limits, _, err := resolveLimits(cmd, loadPreferences(cmd))
	if err != nil {
		return err
	}
	// Fail on bad settings before starting any game.
	if _, err := engineWithLimits(limits); err != nil {
		return err
	}

	var store *storage.Storage
	if !cmd.Bool("no-record") {
		if store, err = openStorage(cmd); err != nil {
			return err
		}
		defer store.Close()
	}

	var mu sync.Mutex // serializes output
	maxPlies := cmd.Int("max-plies")

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, cmd.Int("parallel")))

	for i := 0; i < cmd.Int("games"); i++ {
		g.Go(func() error {
			eng, _ := engineWithLimits(limits)
			s, err := selfPlay(ctx, eng, maxPlies)
			if err != nil {
				return fmt.Errorf("game %d: %w", i+1, err)
			}

			if store != nil {
				rec := storage.RecordFromSession(s, string(limits.Algorithm), limits.Depth)
				if err := store.RecordGame(rec); err != nil {
					return err
				}
			}

			mu.Lock()
			defer mu.Unlock()
			fmt.Printf("game %d (%s): %s\n", i+1, s.ID, s.Notation())
			if s.IsOver() {
				fmt.Printf("  %s\n", s.Result())
			} else {
				fmt.Printf("  stopped after %d plies\n", len(s.History()))
			}
			return nil
		})
	}

	return g.Wait()
}

// selfPlay plays one game. The first two plies are random so that repeated
// games differ.
func selfPlay(ctx context.Context, eng *engine.Engine, maxPlies int) (*game.Session, error) {
	const randomPlies = 2
	s := game.NewSession()

	for ply := 0; ply < maxPlies && !s.IsOver(); ply++ {
		if ply < randomPlies {
			moves := s.Moves()
			if err := s.Apply(moves[rand.IntN(len(moves))]); err != nil {
				return s, err
			}
			continue
		}
		if _, err := s.PlayEngineMove(ctx, eng); err != nil {
			return s, err
		}
	}
	return s, nil
}

func runBench(ctx context.Context, cmd *cli.Command) error {
	from, to, iterations := cmd.Int("from"), cmd.Int("to"), max(1, cmd.Int("iterations"))
	if from < 0 || to < from {
		return fmt.Errorf("%w: %d..%d", engine.ErrInvalidDepth, from, to)
	}

	b := board.NewBoard()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "algorithm\tdepth\tavg time\tnodes\tnodes/s\tmove\tscore")

	for _, algo := range []engine.Algorithm{engine.Minimax, engine.AlphaBeta} {
		for depth := from; depth <= to; depth++ {
			var total time.Duration
			var res engine.Result
			for range iterations {
				if err := ctx.Err(); err != nil {
					return err
				}
				r, _, err := engine.EvaluateBestMove(b, board.White, algo, depth)
				if err != nil {
					return err
				}
				total += r.Elapsed
				res = r
			}

			avg := total / time.Duration(iterations)
			nps := int64(0)
			if avg > 0 {
				nps = int64(float64(res.Nodes) / avg.Seconds())
			}
			fmt.Fprintf(w, "%s\t%d\t%v\t%s\t%s\t%s\t%d\n",
				algo, depth, avg.Round(time.Microsecond), humanize.Comma(int64(res.Nodes)), humanize.Comma(nps), res.Move, res.Score)
		}
	}

	return w.Flush()
}

func runConfig(ctx context.Context, cmd *cli.Command) error {
	store, err := openStorage(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	prefs, err := store.LoadPreferences()
	if err != nil {
		return err
	}
	limits, difficulty, err := resolveLimits(cmd, prefs)
	if err != nil {
		return err
	}
	// Validate before saving.
	if _, err := engineWithLimits(limits); err != nil {
		return err
	}

	prefs.Algorithm = string(limits.Algorithm)
	prefs.Depth = limits.Depth
	prefs.Difficulty = difficulty
	if err := store.SavePreferences(prefs); err != nil {
		return err
	}

	fmt.Printf("algorithm %s, depth %d, difficulty %s\n", prefs.Algorithm, prefs.Depth, prefs.Difficulty)
	return nil
}

func runStats(ctx context.Context, cmd *cli.Command) error {
	store, err := openStorage(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	stats, err := store.LoadStats()
	if err != nil {
		return err
	}

	fmt.Printf("games played:  %d\n", stats.GamesPlayed)
	fmt.Printf("white wins:    %d\n", stats.WhiteWins)
	fmt.Printf("black wins:    %d\n", stats.BlackWins)
	fmt.Printf("draws:         %d\n", stats.Draws)
	fmt.Printf("average plies: %.1f\n", stats.AveragePlies())
	fmt.Printf("longest game:  %d plies\n", stats.LongestGame)
	fmt.Printf("time played:   %v\n", stats.TotalPlayTime.Round(time.Second))

	algos := make([]string, 0, len(stats.GamesByAlgo))
	for a := range stats.GamesByAlgo {
		algos = append(algos, a)
	}
	slices.Sort(algos)
	for _, a := range algos {
		fmt.Printf("  %-10s %d\n", a, stats.GamesByAlgo[a])
	}
	return nil
}

func runGames(ctx context.Context, cmd *cli.Command) error {
	store, err := openStorage(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	if cmd.Args().Present() {
		id, err := uuid.Parse(cmd.Args().First())
		if err != nil {
			return fmt.Errorf("invalid game id: %w", err)
		}
		rec, err := store.LoadGame(id)
		if err != nil {
			return err
		}
		return showGame(rec)
	}

	records, err := store.ListGames(cmd.Int("limit"))
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("no recorded games")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "id\tplayed\tresult\tplies\tsearch")
	for _, rec := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s %d\n",
			rec.ID, humanize.Time(rec.Started), rec.Outcome, len(rec.Moves), rec.Algorithm, rec.Depth)
	}
	return w.Flush()
}

// showGame replays a record to check it and prints the move log.
func showGame(rec storage.GameRecord) error {
	b, err := board.ParseBoard(rec.StartBoard)
	if err != nil {
		return err
	}
	c, err := board.ParseColor(rec.StartColor)
	if err != nil {
		return err
	}
	s, err := game.NewSessionFrom(b, c)
	if err != nil {
		return err
	}
	for _, text := range rec.Moves {
		if _, err := s.ApplyText(text); err != nil {
			return fmt.Errorf("replay %s: %w", text, err)
		}
	}

	fmt.Printf("game %s, %s (%s depth %d)\n", rec.ID, rec.Started.Format(time.RFC1123), rec.Algorithm, rec.Depth)
	fmt.Println(s.Notation())
	if rec.Result != "" {
		fmt.Println(rec.Result)
	}
	fmt.Print(s.Board().String())
	return nil
}
