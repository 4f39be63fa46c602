package api

import (
	"time"

	"github.com/okian/chongus/internal/domain/model"
)

// stateView is the GET /state body: the snapshot plus values derived at
// server_time for display.
type stateView struct {
	ServerTime       time.Time                `json:"server_time"`
	CollectiblePrice float64                  `json:"collectible_price"`
	Revision         uint64                   `json:"revision"`
	Player           model.Player             `json:"player"`
	Collection       []collectibleView        `json:"collection"`
	Upgrades         map[string]model.Upgrade `json:"upgrades"`
	Expeditions      expeditionsView          `json:"expeditions"`
	CommunityEvent   communityView            `json:"community_event"`
}

type collectibleView struct {
	model.Collectible
	Power int `json:"power"`
}

type expeditionsView struct {
	Available []model.ExpeditionTemplate `json:"available"`
	Active    []activeExpeditionView     `json:"active"`
}

type activeExpeditionView struct {
	model.ActiveExpedition
	Status           model.ExpeditionStatus `json:"status"`
	RemainingSeconds float64                `json:"remaining_seconds"`
}

type communityView struct {
	model.CommunityEvent
	Progress         float64 `json:"progress"`
	RemainingSeconds float64 `json:"remaining_seconds"`
}

func newStateView(st model.GameState, now time.Time, price float64) stateView {
	v := stateView{
		ServerTime:       now,
		CollectiblePrice: price,
		Revision:         st.Revision,
		Player:           st.Player,
		Collection:       make([]collectibleView, 0, len(st.Collection)),
		Upgrades:         st.Upgrades,
		Expeditions: expeditionsView{
			Available: st.Expeditions.Available,
			Active:    make([]activeExpeditionView, 0, len(st.Expeditions.Active)),
		},
		CommunityEvent: communityView{
			CommunityEvent:   st.CommunityEvent,
			Progress:         st.CommunityEvent.Progress(),
			RemainingSeconds: st.CommunityEvent.Remaining(now).Seconds(),
		},
	}
	for _, c := range st.Collection {
		v.Collection = append(v.Collection, collectibleView{Collectible: c, Power: c.Power()})
	}
	for _, a := range st.Expeditions.Active {
		v.Expeditions.Active = append(v.Expeditions.Active, activeExpeditionView{
			ActiveExpedition: a,
			Status:           a.Status(now),
			RemainingSeconds: a.Remaining(now).Seconds(),
		})
	}
	return v
}
