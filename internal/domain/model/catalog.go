package model

import "time"

// CommunityEventLength is how long a fresh community event runs.
const CommunityEventLength = 7 * 24 * time.Hour

// Upgrade identifiers of the starting catalog.
const (
	UpgradeJuicer    = "juicer"
	UpgradeExtractor = "extractor"
	UpgradeFactory   = "factory"
)

// NewGameState returns the starting state of a new game at now.
func NewGameState(now time.Time, playerName string) GameState {
	if playerName == "" {
		playerName = "Player"
	}
	return GameState{
		Player: Player{
			Name:           playerName,
			Level:          1,
			Currency:       0,
			ProductionRate: 1,
			LastUpdated:    now,
		},
		Collection: []Collectible{},
		Upgrades: map[string]Upgrade{
			UpgradeJuicer:    {Level: 1, Cost: 10, Effect: 1},
			UpgradeExtractor: {Level: 0, Cost: 50, Effect: 5},
			UpgradeFactory:   {Level: 0, Cost: 200, Effect: 25},
		},
		Expeditions: Expeditions{
			Available: []ExpeditionTemplate{
				{
					ID:              "1",
					Name:            "Forest Expedition",
					DurationSeconds: 300,
					Difficulty:      1,
					Rewards:         ExpeditionRewards{Currency: 100, Experience: 50, ItemChance: 0.3},
				},
				{
					ID:              "2",
					Name:            "Cave Exploration",
					DurationSeconds: 900,
					Difficulty:      2,
					Rewards:         ExpeditionRewards{Currency: 300, Experience: 150, ItemChance: 0.5},
				},
			},
			Active: []ActiveExpedition{},
		},
		CommunityEvent: CommunityEvent{
			Title:       "Meme Festival",
			Description: "Collect ChongJuice to celebrate the latest viral meme!",
			Goal:        10000,
			Current:     0,
			EndTime:     now.Add(CommunityEventLength),
			Rewards:     CommunityRewards{Currency: 1000, RareCollectibleChance: 0.5},
		},
	}
}
