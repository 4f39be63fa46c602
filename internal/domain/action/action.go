// Package action defines the closed set of player intents the engine accepts.
package action

import (
	"fmt"
	"strings"
)

// Kind names an action on the wire and in metrics.
type Kind string

const (
	KindTick                Kind = "tick"
	KindBuyUpgrade          Kind = "buy_upgrade"
	KindGenerateCollectible Kind = "generate_collectible"
	KindStartExpedition     Kind = "start_expedition"
	KindCompleteExpedition  Kind = "complete_expedition"
	KindContribute          Kind = "contribute"
)

// Kinds lists every action kind.
func Kinds() []Kind {
	return []Kind{
		KindTick,
		KindBuyUpgrade,
		KindGenerateCollectible,
		KindStartExpedition,
		KindCompleteExpedition,
		KindContribute,
	}
}

// Action is one of the variants declared in this package.
type Action interface {
	Kind() Kind
	sealed()
}

// Tick advances idle production to the engine clock.
type Tick struct{}

// BuyUpgrade purchases one level of an upgrade.
type BuyUpgrade struct {
	UpgradeID string
}

// GenerateCollectible pays the collectible price for a random Big Chongus.
type GenerateCollectible struct{}

// StartExpedition sends a team of collectible ids on a template.
type StartExpedition struct {
	TemplateID string
	Team       []string
}

// CompleteExpedition pays out and removes a running expedition.
type CompleteExpedition struct {
	ActiveID string
}

// Contribute moves currency into the community pool.
type Contribute struct {
	Amount float64
}

func (Tick) Kind() Kind                { return KindTick }
func (BuyUpgrade) Kind() Kind          { return KindBuyUpgrade }
func (GenerateCollectible) Kind() Kind { return KindGenerateCollectible }
func (StartExpedition) Kind() Kind     { return KindStartExpedition }
func (CompleteExpedition) Kind() Kind  { return KindCompleteExpedition }
func (Contribute) Kind() Kind          { return KindContribute }

func (Tick) sealed()                {}
func (BuyUpgrade) sealed()          {}
func (GenerateCollectible) sealed() {}
func (StartExpedition) sealed()     {}
func (CompleteExpedition) sealed()  {}
func (Contribute) sealed()          {}

// ParseKind maps a wire name to a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds() {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Params carries the optional fields of every variant, as decoded from a request.
type Params struct {
	UpgradeID  string
	TemplateID string
	Team       []string
	ActiveID   string
	Amount     float64
}

// Build assembles the variant named by kind from p.
func Build(kind string, p Params) (Action, error) {
	k, err := ParseKind(kind)
	if err != nil {
		return nil, err
	}
	switch k {
	case KindTick:
		return Tick{}, nil
	case KindBuyUpgrade:
		if p.UpgradeID == "" {
			return nil, fmt.Errorf("%w: upgrade_id is required", ErrMissingField)
		}
		return BuyUpgrade{UpgradeID: p.UpgradeID}, nil
	case KindGenerateCollectible:
		return GenerateCollectible{}, nil
	case KindStartExpedition:
		if p.TemplateID == "" {
			return nil, fmt.Errorf("%w: template_id is required", ErrMissingField)
		}
		team := make([]string, len(p.Team))
		copy(team, p.Team)
		return StartExpedition{TemplateID: p.TemplateID, Team: team}, nil
	case KindCompleteExpedition:
		if p.ActiveID == "" {
			return nil, fmt.Errorf("%w: active_id is required", ErrMissingField)
		}
		return CompleteExpedition{ActiveID: p.ActiveID}, nil
	case KindContribute:
		return Contribute{Amount: p.Amount}, nil
	default:
		return nil, fmt.Errorf("%w: %q has no builder", ErrUnknownKind, k)
	}
}
