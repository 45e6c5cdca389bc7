package services

import (
	"math/rand"
	"sync"
	"time"

	"playtest_server/models"
)

// Shuffler permutes n elements in place through swap
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// ShufflerFunc adapts a function to Shuffler
type ShufflerFunc func(n int, swap func(i, j int))

func (f ShufflerFunc) Shuffle(n int, swap func(i, j int)) {
	f(n, swap)
}

// NoShuffle keeps the expansion order. Used by deterministic callers.
var NoShuffle = ShufflerFunc(func(int, func(i, j int)) {})

type randomShuffler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomShuffler returns a uniformly random, time-seeded Shuffler
func NewRandomShuffler() Shuffler {
	return &randomShuffler{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (s *randomShuffler) Shuffle(n int, swap func(i, j int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rng.Shuffle(n, swap)
}

// ExpandDemand turns demand records into the game and player pools. Every
// record contributes TicketsNeeded copies to each side; both pools are then
// shuffled independently.
func ExpandDemand(records []models.DemandRecord, shuffler Shuffler) ([]models.GameSlot, []models.PlayerSlot) {
	total := 0
	for _, r := range records {
		if r.TicketsNeeded > 0 {
			total += r.TicketsNeeded
		}
	}

	games := make([]models.GameSlot, 0, total)
	players := make([]models.PlayerSlot, 0, total)
	for _, r := range records {
		for i := 0; i < r.TicketsNeeded; i++ {
			games = append(games, models.GameSlot{
				GameID:     r.GameID,
				GameName:   r.GameName,
				OwnerID:    r.OwnerID,
				OwnerEmail: r.OwnerEmail,
			})
		}
		// the owner plays as many games as they asked to have played
		for i := 0; i < r.TicketsNeeded; i++ {
			players = append(players, models.PlayerSlot{
				PlayerID:    r.OwnerID,
				PlayerEmail: r.OwnerEmail,
			})
		}
	}

	if shuffler == nil {
		shuffler = NewRandomShuffler()
	}
	shuffler.Shuffle(len(games), func(i, j int) { games[i], games[j] = games[j], games[i] })
	shuffler.Shuffle(len(players), func(i, j int) { players[i], players[j] = players[j], players[i] })

	return games, players
}
