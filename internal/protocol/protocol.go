// Package protocol implements a line-based text protocol for driving the
// engine from another program, in the manner of UCI.
package protocol

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"sync"

	"github.com/hailam/checkersplay/internal/board"
	"github.com/hailam/checkersplay/internal/engine"
	"github.com/hailam/checkersplay/internal/game"
)

// Protocol reads commands from in and writes responses to out.
type Protocol struct {
	engine  *engine.Engine
	session *game.Session

	in  io.Reader
	out io.Writer
	mu  sync.Mutex // serializes writes to out

	// Search state
	searching  bool
	searchDone chan struct{}

	// CPU profiling
	profileFile *os.File
}

// New creates a protocol handler.
func New(eng *engine.Engine, in io.Reader, out io.Writer) *Protocol {
	p := &Protocol{
		engine:  eng,
		session: game.NewSession(),
		in:      in,
		out:     out,
	}
	eng.OnInfo = p.sendInfo
	return p
}

// Run processes commands until "quit" or the end of input. A running search
// is always allowed to finish before Run returns.
func (p *Protocol) Run() error {
	defer p.shutdown()

	scanner := bufio.NewScanner(p.in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "hello":
			p.handleHello()
		case "isready":
			p.wait()
			p.send("readyok")
		case "newgame":
			p.wait()
			p.session = game.NewSession()
		case "position":
			p.wait()
			p.handlePosition(args)
		case "moves":
			p.handleMoves(args)
		case "caneat":
			p.handleCanEat()
		case "eval":
			p.send("eval %d", engine.Evaluate(p.session.Board()))
		case "go":
			p.handleGo(args)
		case "stop":
			p.wait()
		case "setoption":
			p.wait()
			p.handleSetOption(args)
		case "quit":
			return nil
		// Debug commands
		case "d":
			p.handleDisplay()
		case "perft":
			p.handlePerft(args)
		default:
			p.send("info string unknown command: %s", cmd)
		}
	}

	return scanner.Err()
}

func (p *Protocol) send(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, format+"\n", args...)
}

// wait blocks until a running search has finished. Searches cannot be
// interrupted, so "stop" only waits.
func (p *Protocol) wait() {
	if p.searching {
		<-p.searchDone
		p.searching = false
	}
}

func (p *Protocol) shutdown() {
	p.wait()
	p.stopProfile()
}

// handleHello responds to the "hello" command.
func (p *Protocol) handleHello() {
	limits := p.engine.Limits()
	p.send("id name checkersplay")
	p.send("id author checkersplay team")
	p.send("option name Depth type spin default %d min 0 max 20", limits.Depth)
	p.send("option name Algorithm type combo default %s var minimax var alphabeta", limits.Algorithm)
	p.send("option name Difficulty type combo default medium var easy var medium var hard")
	p.send("option name CPUProfile type string default <empty>")
	p.send("hellook")
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves c3-d4 f6-e5
//   - position board <notation> [white|black]
//   - position board <notation> black moves d6xf4
func (p *Protocol) handlePosition(args []string) {
	if len(args) == 0 {
		p.send("info string position needs startpos or board")
		return
	}

	setup, moveTexts := args, []string(nil)
	for i, arg := range args {
		if arg == "moves" {
			setup, moveTexts = args[:i], args[i+1:]
			break
		}
	}
	if len(setup) == 0 {
		p.send("info string position needs startpos or board")
		return
	}

	var session *game.Session
	switch setup[0] {
	case "startpos":
		session = game.NewSession()
	case "board":
		if len(setup) < 2 {
			p.send("info string position board needs a notation")
			return
		}
		b, err := board.ParseBoard(setup[1])
		if err != nil {
			p.send("info string %v", err)
			return
		}
		toMove := board.White
		if len(setup) > 2 {
			if toMove, err = board.ParseColor(setup[2]); err != nil {
				p.send("info string %v", err)
				return
			}
		}
		if session, err = game.NewSessionFrom(b, toMove); err != nil {
			p.send("info string %v", err)
			return
		}
	default:
		p.send("info string unknown position type: %s", setup[0])
		return
	}

	p.session = session
	for _, text := range moveTexts {
		if _, err := p.session.ApplyText(text); err != nil {
			p.send("info string Invalid move %s: %v", text, err)
			return
		}
	}
}

// handleMoves lists the legal moves of the side to move, or of one piece.
func (p *Protocol) handleMoves(args []string) {
	var moves []board.Move
	if len(args) > 0 {
		sq, err := board.ParseSquare(args[0])
		if err != nil {
			p.send("info string %v", err)
			return
		}
		if moves, err = board.MovesFor(p.session.Board(), sq); err != nil {
			p.send("info string %v", err)
			return
		}
	} else {
		moves = board.AvailableMoves(p.session.Board(), p.session.ToMove())
	}

	texts := make([]string, 0, len(moves)+1)
	texts = append(texts, "moves")
	for _, m := range moves {
		texts = append(texts, m.String())
	}
	p.send("%s", strings.Join(texts, " "))
}

func (p *Protocol) handleCanEat() {
	texts := []string{"caneat"}
	for _, sq := range board.CanEat(p.session.Board(), p.session.ToMove()) {
		texts = append(texts, sq.String())
	}
	p.send("%s", strings.Join(texts, " "))
}

// parseGoOptions reads "depth N" and "algorithm A" on top of the engine's
// configured limits.
func (p *Protocol) parseGoOptions(args []string) (engine.SearchLimits, error) {
	limits := p.engine.Limits()

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			if i+1 >= len(args) {
				return limits, fmt.Errorf("depth needs a value")
			}
			depth, err := strconv.Atoi(args[i+1])
			if err != nil || depth < 0 {
				return limits, fmt.Errorf("%w: %s", engine.ErrInvalidDepth, args[i+1])
			}
			limits.Depth = depth
			i++
		case "algorithm":
			if i+1 >= len(args) {
				return limits, fmt.Errorf("algorithm needs a value")
			}
			algo, err := engine.ParseAlgorithm(args[i+1])
			if err != nil {
				return limits, err
			}
			limits.Algorithm = algo
			i++
		}
	}

	return limits, nil
}

// handleGo starts a search on its own goroutine.
func (p *Protocol) handleGo(args []string) {
	p.wait()

	limits, err := p.parseGoOptions(args)
	if err != nil {
		p.send("info string %v", err)
		return
	}

	b, c := p.session.Board(), p.session.ToMove()
	p.searching = true
	p.searchDone = make(chan struct{})

	go func() {
		defer close(p.searchDone)

		res, ok, err := p.engine.SearchWithLimits(b, c, limits)
		switch {
		case err != nil:
			p.send("info string %v", err)
			p.send("bestmove none")
		case !ok || res.Move.IsNone():
			p.send("bestmove none")
		default:
			p.send("bestmove %s score %d", res.Move, res.Score)
		}
	}()
}

// sendInfo sends search information.
func (p *Protocol) sendInfo(info engine.SearchInfo) {
	parts := []string{
		fmt.Sprintf("depth %d", info.Depth),
		fmt.Sprintf("algorithm %s", info.Algorithm),
		fmt.Sprintf("score %d", info.Score),
		fmt.Sprintf("nodes %d", info.Nodes),
		fmt.Sprintf("time %d", info.Time.Milliseconds()),
	}
	if info.Time > 0 {
		nps := uint64(float64(info.Nodes) / info.Time.Seconds())
		parts = append(parts, fmt.Sprintf("nps %d", nps))
	}
	if !info.Move.IsNone() {
		parts = append(parts, "pv "+info.Move.String())
	}

	p.send("info %s", strings.Join(parts, " "))
}

func (p *Protocol) handleSetOption(args []string) {
	var name, value string
	readingName := false
	readingValue := false

	for _, arg := range args {
		switch arg {
		case "name":
			readingName = true
			readingValue = false
		case "value":
			readingName = false
			readingValue = true
		default:
			if readingName {
				if name != "" {
					name += " "
				}
				name += arg
			} else if readingValue {
				if value != "" {
					value += " "
				}
				value += arg
			}
		}
	}

	var err error
	switch strings.ToLower(name) {
	case "depth":
		var depth int
		if depth, err = strconv.Atoi(value); err == nil {
			err = p.engine.SetDepth(depth)
		}
	case "algorithm":
		err = p.engine.SetAlgorithm(engine.Algorithm(strings.ToLower(value)))
	case "difficulty":
		var d engine.Difficulty
		if d, err = engine.ParseDifficulty(value); err == nil {
			p.engine.SetDifficulty(d)
		}
	case "cpuprofile":
		p.stopProfile()
		if value != "" && value != "stop" {
			err = p.startProfile(value)
		}
	default:
		err = fmt.Errorf("unknown option: %s", name)
	}

	if err != nil {
		p.send("info string %v", err)
	}
}

func (p *Protocol) startProfile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return fmt.Errorf("start profile: %w", err)
	}
	p.profileFile = f
	p.send("info string CPU profile started: %s", path)
	return nil
}

func (p *Protocol) stopProfile() {
	if p.profileFile == nil {
		return
	}
	pprof.StopCPUProfile()
	p.profileFile.Close()
	p.profileFile = nil
	p.send("info string CPU profile saved")
}

func (p *Protocol) handleDisplay() {
	s := p.session
	p.send("%s", s.Board().String())
	p.send("notation %s", s.Board().Notation())
	p.send("side %s", s.ToMove())
	if s.IsOver() {
		p.send("result %s %s", s.Outcome(), s.Result())
	}
}

// handlePerft runs perft with a per-move breakdown.
func (p *Protocol) handlePerft(args []string) {
	depth := 1
	if len(args) > 0 {
		d, err := strconv.Atoi(args[0])
		if err != nil || d < 1 {
			p.send("info string invalid perft depth: %s", args[0])
			return
		}
		depth = d
	}

	b, c := p.session.Board(), p.session.ToMove()
	var total uint64
	for _, m := range board.AvailableMoves(b, c) {
		n := p.engine.Perft(m.Result, c.Other(), depth-1)
		p.send("%s: %d", m, n)
		total += n
	}
	p.send("nodes %d", total)
}
