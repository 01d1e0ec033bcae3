package deck

import (
	"github.com/jon4hz/decksmith/internal/card"
	"github.com/jon4hz/decksmith/internal/storage"
	"github.com/samber/lo"
)

// Stage is a step of the commander picker.
type Stage string

const (
	StageClosed     Stage = "closed"
	StageFirst      Stage = "first"
	StagePartner    Stage = "partner"
	StageBackground Stage = "background"
)

// MsgCommandZoneFull is shown whenever a deck can't take another commander.
const MsgCommandZoneFull = "⚠️ Command zone is full. You can only have 2 commanders."

// Valid reports whether s is a known stage.
func (s Stage) Valid() bool {
	switch s {
	case StageClosed, StageFirst, StagePartner, StageBackground:
		return true
	}
	return false
}

// NextStage returns the picker stage for the next commander of d.
func NextStage(d storage.Deck) (Stage, error) {
	switch len(d.Commanders) {
	case 0:
		return StageFirst, nil
	case 1:
		first := d.Commanders[0]
		switch {
		case card.HasPartner(first):
			return StagePartner, nil
		case card.HasBackground(first):
			return StageBackground, nil
		}
	}
	return StageClosed, NewUserError(ErrCapacity, MsgCommandZoneFull)
}

// Eligible reports whether c may be picked at the given stage.
func Eligible(stage Stage, c card.Card) bool {
	switch stage {
	case StageFirst:
		return card.CanLead(c)
	case StagePartner:
		return card.IsPartnerCandidate(c)
	case StageBackground:
		return card.IsBackgroundCandidate(c)
	default:
		return false
	}
}

// Candidates returns the cards eligible at stage that aren't already commanders of d.
func Candidates(cards []card.Card, stage Stage, d storage.Deck) []card.Card {
	return lo.Filter(cards, func(c card.Card, _ int) bool {
		return Eligible(stage, c) && !containsName(d.Commanders, c.Name)
	})
}
