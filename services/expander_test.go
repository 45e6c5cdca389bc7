package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playtest_server/models"
)

func TestExpandDemandRepeatsEachRecord(t *testing.T) {
	games, players := ExpandDemand([]models.DemandRecord{
		demandRecord("A", "U1", 2),
		demandRecord("B", "U2", 0),
		demandRecord("C", "U3", 1),
	}, NoShuffle)

	require.Len(t, games, 3)
	require.Len(t, players, 3)
	assert.Equal(t, []models.GameSlot{gameSlot("A", "U1"), gameSlot("A", "U1"), gameSlot("C", "U3")}, games)
	assert.Equal(t, []models.PlayerSlot{playerSlot("U1"), playerSlot("U1"), playerSlot("U3")}, players)
}

func TestExpandDemandEmpty(t *testing.T) {
	games, players := ExpandDemand(nil, NoShuffle)
	assert.Empty(t, games)
	assert.Empty(t, players)
}

func TestExpandDemandShufflesBothPools(t *testing.T) {
	var sizes []int
	reverse := ShufflerFunc(func(n int, swap func(i, j int)) {
		sizes = append(sizes, n)
		for i := 0; i < n/2; i++ {
			swap(i, n-1-i)
		}
	})

	games, players := ExpandDemand([]models.DemandRecord{
		demandRecord("A", "U1", 1),
		demandRecord("B", "U2", 2),
	}, reverse)

	assert.Equal(t, []int{3, 3}, sizes)
	assert.Equal(t, "B", games[0].GameID)
	assert.Equal(t, "A", games[2].GameID)
	assert.Equal(t, "U2", players[0].PlayerID)
	assert.Equal(t, "U1", players[2].PlayerID)
}

func TestExpandDemandRandomShuffleKeepsMultiset(t *testing.T) {
	demand := []models.DemandRecord{
		demandRecord("A", "U1", 3),
		demandRecord("B", "U2", 5),
		demandRecord("C", "U3", 2),
	}

	games, players := ExpandDemand(demand, NewRandomShuffler())

	gameCounts := map[string]int{}
	for _, g := range games {
		gameCounts[g.GameID]++
	}
	playerCounts := map[string]int{}
	for _, p := range players {
		playerCounts[p.PlayerID]++
	}
	assert.Equal(t, map[string]int{"A": 3, "B": 5, "C": 2}, gameCounts)
	assert.Equal(t, map[string]int{"U1": 3, "U2": 5, "U3": 2}, playerCounts)
}
