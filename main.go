// CheckersPlay - a checkers engine with a command line front end
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime/pprof"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
)

const (
	AppName = "checkersplay"
	Version = "0.3.0"
)

// profileFile is the open CPU profile, if any.
var profileFile *os.File

func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	}

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    AppName,
		Usage:   "checkers engine with minimax and alpha-beta search",
		Version: Version,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "depth",
				Aliases: []string{"d"},
				Usage:   "search depth in plies (overrides difficulty)",
				Sources: cli.EnvVars("CHECKERS_DEPTH"),
			},
			&cli.StringFlag{
				Name:    "algorithm",
				Aliases: []string{"a"},
				Usage:   "search algorithm: minimax or alphabeta",
				Sources: cli.EnvVars("CHECKERS_ALGORITHM"),
			},
			&cli.StringFlag{
				Name:    "difficulty",
				Usage:   "preset depth: easy, medium or hard",
				Sources: cli.EnvVars("CHECKERS_DIFFICULTY"),
			},
			&cli.StringFlag{
				Name:    "data-dir",
				Usage:   "directory for preferences and game records",
				Sources: cli.EnvVars("CHECKERS_DATA_DIR"),
			},
			&cli.StringFlag{
				Name:    "cpuprofile",
				Usage:   "write cpu profile to file",
				Sources: cli.EnvVars("CPUPROFILE"),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "log file and line numbers",
			},
		},
		Before:         setup,
		After:          teardown,
		DefaultCommand: "protocol",
		Commands: []*cli.Command{
			{
				Name:   "protocol",
				Usage:  "speak the text protocol on stdin/stdout",
				Action: runProtocol,
			},
			{
				Name:      "moves",
				Usage:     "list legal moves of a board",
				ArgsUsage: "[square]",
				Flags:     boardFlags(),
				Action:    runMoves,
			},
			{
				Name:   "best",
				Usage:  "search a board for the best move",
				Flags:  boardFlags(),
				Action: runBest,
			},
			{
				Name:  "play",
				Usage: "let the engine play against itself and record the games",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "games", Aliases: []string{"n"}, Value: 1, Usage: "number of games"},
					&cli.IntFlag{Name: "parallel", Aliases: []string{"p"}, Value: 1, Usage: "games played at once"},
					&cli.IntFlag{Name: "max-plies", Value: 400, Usage: "stop a game after this many plies"},
					&cli.BoolFlag{Name: "no-record", Usage: "do not store the games"},
				},
				Action: runPlay,
			},
			{
				Name:  "bench",
				Usage: "time both algorithms over a range of depths",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "from", Value: 1, Usage: "first depth"},
					&cli.IntFlag{Name: "to", Value: 6, Usage: "last depth"},
					&cli.IntFlag{Name: "iterations", Aliases: []string{"i"}, Value: 3, Usage: "searches per depth"},
				},
				Action: runBench,
			},
			{
				Name:   "config",
				Usage:  "save --depth, --algorithm and --difficulty as defaults",
				Action: runConfig,
			},
			{
				Name:   "stats",
				Usage:  "show statistics of recorded games",
				Action: runStats,
			},
			{
				Name:      "games",
				Usage:     "list recorded games, or show one",
				ArgsUsage: "[game id]",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: 10, Usage: "number of games to list (0 for all)"},
				},
				Action: runGames,
			},
		},
	}
}

func boardFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "board", Aliases: []string{"b"}, Usage: "board notation (default: start position)"},
		&cli.StringFlag{Name: "side", Aliases: []string{"s"}, Value: "white", Usage: "side to move"},
	}
}

// setup configures logging and starts CPU profiling if requested.
func setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("debug") {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	} else {
		log.SetFlags(log.LstdFlags)
	}

	if path := cmd.String("cpuprofile"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return ctx, fmt.Errorf("could not create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return ctx, fmt.Errorf("could not start CPU profile: %w", err)
		}
		profileFile = f
		log.Printf("CPU profiling enabled, writing to %s", path)
	}
	return ctx, nil
}

func teardown(ctx context.Context, cmd *cli.Command) error {
	if profileFile != nil {
		pprof.StopCPUProfile()
		return profileFile.Close()
	}
	return nil
}
