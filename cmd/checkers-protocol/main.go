// Command checkers-protocol runs the engine's text protocol on stdin/stdout
// without the rest of the command line front end.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/hailam/checkersplay/internal/engine"
	"github.com/hailam/checkersplay/internal/protocol"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	depth      = flag.Int("depth", -1, "search depth in plies (default: difficulty preset)")
	algorithm  = flag.String("algorithm", "", "search algorithm: minimax or alphabeta")
	difficulty = flag.String("difficulty", "", "easy, medium or hard")
)

func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Error loading .env file: %v", err)
	}
	flag.Parse()

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	eng, err := configure()
	if err != nil {
		log.Fatal(err)
	}

	// Create and run protocol handler
	if err := protocol.New(eng, os.Stdin, os.Stdout).Run(); err != nil {
		log.Printf("protocol: %v", err)
	}
}

// configure applies flags, falling back to CHECKERS_* environment variables.
func configure() (*engine.Engine, error) {
	eng := engine.NewEngine()

	if d := firstNonEmpty(*difficulty, os.Getenv("CHECKERS_DIFFICULTY")); d != "" {
		level, err := engine.ParseDifficulty(d)
		if err != nil {
			return nil, err
		}
		eng.SetDifficulty(level)
	}
	if a := firstNonEmpty(*algorithm, os.Getenv("CHECKERS_ALGORITHM")); a != "" {
		algo, err := engine.ParseAlgorithm(a)
		if err != nil {
			return nil, err
		}
		if err := eng.SetAlgorithm(algo); err != nil {
			return nil, err
		}
	}
	plies := *depth
	if env := os.Getenv("CHECKERS_DEPTH"); plies < 0 && env != "" {
		n, err := strconv.Atoi(env)
		if err != nil {
			return nil, fmt.Errorf("CHECKERS_DEPTH: %w", err)
		}
		plies = n
	}
	if plies >= 0 {
		if err := eng.SetDepth(plies); err != nil {
			return nil, err
		}
	}

	return eng, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
