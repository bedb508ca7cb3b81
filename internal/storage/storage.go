package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"slices"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/hailam/checkersplay/internal/game"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
	gamePrefix     = "game:"
)

// ErrGameNotFound is returned when no record exists for a game ID.
var ErrGameNotFound = errors.New("game not found")

// Preferences stores the engine settings chosen by the user.
type Preferences struct {
	Algorithm  string    `json:"algorithm"`
	Depth      int       `json:"depth"`
	Difficulty string    `json:"difficulty"`
	LastPlayed time.Time `json:"last_played"`
}

// DefaultPreferences returns default preferences
func DefaultPreferences() *Preferences {
	return &Preferences{
		Algorithm:  "alphabeta",
		Depth:      4,
		Difficulty: "medium",
		LastPlayed: time.Now(),
	}
}

// GameStats stores statistics over all recorded games.
type GameStats struct {
	GamesPlayed   int            `json:"games_played"`
	WhiteWins     int            `json:"white_wins"`
	BlackWins     int            `json:"black_wins"`
	Draws         int            `json:"draws"`
	GamesByAlgo   map[string]int `json:"games_by_algorithm"`
	TotalPlies    int            `json:"total_plies"`
	LongestGame   int            `json:"longest_game"`
	TotalPlayTime time.Duration  `json:"total_play_time"`
}

// NewGameStats returns empty game statistics
func NewGameStats() *GameStats {
	return &GameStats{
		GamesByAlgo: make(map[string]int),
	}
}

// AveragePlies returns the mean game length in plies.
func (s *GameStats) AveragePlies() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.TotalPlies) / float64(s.GamesPlayed)
}

// GameRecord is a finished game.
type GameRecord struct {
	ID         uuid.UUID     `json:"id"`
	Started    time.Time     `json:"started"`
	Duration   time.Duration `json:"duration"`
	StartBoard string        `json:"start_board"`
	StartColor string        `json:"start_color"`
	Moves      []string      `json:"moves"`
	Outcome    string        `json:"outcome"`
	Result     string        `json:"result"`
	Algorithm  string        `json:"algorithm"`
	Depth      int           `json:"depth"`
}

// RecordFromSession builds a record of s played with the given settings.
func RecordFromSession(s *game.Session, algorithm string, depth int) GameRecord {
	return GameRecord{
		ID:         s.ID,
		Started:    s.Started,
		Duration:   time.Since(s.Started),
		StartBoard: s.StartBoard().Notation(),
		StartColor: s.StartColor().String(),
		Moves:      s.MoveTexts(),
		Outcome:    s.Outcome().String(),
		Result:     s.Result(),
		Algorithm:  algorithm,
		Depth:      depth,
	}
}

func gameKey(id uuid.UUID) []byte {
	return []byte(gamePrefix + id.String())
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB

	// statsMu serializes writers of the stats key.
	statsMu sync.Mutex
}

// NewStorage opens the database in the platform data directory.
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// Open opens (or creates) the database in dir.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", dir, err)
	}

	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// getJSON decodes the value at key into v. Missing keys leave v untouched.
func getJSON(txn *badger.Txn, key []byte, v any) (bool, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}

func setJSON(txn *badger.Txn, key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return txn.Set(key, data)
}

// SavePreferences saves user preferences
func (s *Storage) SavePreferences(prefs *Preferences) error {
	prefs.LastPlayed = time.Now()

	return s.db.Update(func(txn *badger.Txn) error {
		return setJSON(txn, []byte(keyPreferences), prefs)
	})
}

// LoadPreferences loads user preferences, returns defaults if not found
func (s *Storage) LoadPreferences() (*Preferences, error) {
	prefs := DefaultPreferences()

	err := s.db.View(func(txn *badger.Txn) error {
		_, err := getJSON(txn, []byte(keyPreferences), prefs)
		return err
	})

	return prefs, err
}

// SaveStats saves game statistics
func (s *Storage) SaveStats(stats *GameStats) error {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()

	return s.db.Update(func(txn *badger.Txn) error {
		return setJSON(txn, []byte(keyStats), stats)
	})
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*GameStats, error) {
	stats := NewGameStats()

	err := s.db.View(func(txn *badger.Txn) error {
		_, err := getJSON(txn, []byte(keyStats), stats)
		return err
	})
	if stats.GamesByAlgo == nil {
		stats.GamesByAlgo = make(map[string]int)
	}

	return stats, err
}

// RecordGame stores a finished game and updates statistics in one transaction.
func (s *Storage) RecordGame(rec GameRecord) error {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()

	err := s.db.Update(func(txn *badger.Txn) error {
		stats := NewGameStats()
		if _, err := getJSON(txn, []byte(keyStats), stats); err != nil {
			return err
		}
		if stats.GamesByAlgo == nil {
			stats.GamesByAlgo = make(map[string]int)
		}

		stats.GamesPlayed++
		stats.TotalPlies += len(rec.Moves)
		stats.TotalPlayTime += rec.Duration
		stats.GamesByAlgo[rec.Algorithm]++
		if len(rec.Moves) > stats.LongestGame {
			stats.LongestGame = len(rec.Moves)
		}

		switch rec.Outcome {
		case game.WhiteWins.String():
			stats.WhiteWins++
		case game.BlackWins.String():
			stats.BlackWins++
		case game.Draw.String():
			stats.Draws++
		}

		if err := setJSON(txn, gameKey(rec.ID), rec); err != nil {
			return err
		}
		return setJSON(txn, []byte(keyStats), stats)
	})
	if err != nil {
		return fmt.Errorf("record game %s: %w", rec.ID, err)
	}

	log.Printf("[STORAGE] Recorded game %s (%s, %d plies)", rec.ID, rec.Outcome, len(rec.Moves))
	return nil
}

// LoadGame loads the record of a game.
func (s *Storage) LoadGame(id uuid.UUID) (GameRecord, error) {
	var rec GameRecord

	err := s.db.View(func(txn *badger.Txn) error {
		found, err := getJSON(txn, gameKey(id), &rec)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%w: %s", ErrGameNotFound, id)
		}
		return nil
	})

	return rec, err
}

// ListGames returns up to limit game records, most recent first. A limit of
// zero or less returns all of them.
func (s *Storage) ListGames(limit int) ([]GameRecord, error) {
	var records []GameRecord

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(gamePrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var rec GameRecord
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				return err
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(records, func(a, b GameRecord) int {
		return b.Started.Compare(a.Started)
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// DeleteGame removes a game record. Statistics are left as they are.
func (s *Storage) DeleteGame(id uuid.UUID) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(gameKey(id)); errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s", ErrGameNotFound, id)
		} else if err != nil {
			return err
		}
		return txn.Delete(gameKey(id))
	})
}
