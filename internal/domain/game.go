package domain

import (
	"strings"
	"time"
)

// Game is a single bowler's game on a lane
type Game struct {
	ID        string    `json:"id"`
	Bowler    string    `json:"bowler"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	scorer *Scorer
}

// NewGame creates a new game with the given ID
func NewGame(id, bowler string) (*Game, error) {
	bowler = strings.TrimSpace(bowler)
	if bowler == "" {
		return nil, ErrEmptyBowler
	}

	now := time.Now()
	return &Game{
		ID:        id,
		Bowler:    bowler,
		Status:    StatusInProgress,
		CreatedAt: now,
		UpdatedAt: now,
		scorer:    NewScorer(),
	}, nil
}

// Record records a roll unless the game is already finished
func (g *Game) Record(pins Roll) error {
	if g.Status == StatusFinished {
		return ErrGameFinished
	}

	g.scorer.Record(pins)
	g.UpdatedAt = time.Now()

	return nil
}

// Score returns the game total
func (g *Game) Score() (int, error) {
	return g.scorer.Score()
}

// Rolls returns the recorded rolls
func (g *Game) Rolls() []Roll {
	return g.scorer.Rolls()
}

// RollCount returns the number of recorded rolls
func (g *Game) RollCount() int {
	return g.scorer.Len()
}

// Finish closes the game and returns its final score
func (g *Game) Finish() (int, error) {
	if !g.Status.CanTransitionTo(StatusFinished) {
		if g.Status == StatusFinished {
			return 0, ErrGameFinished
		}
		return 0, ErrInvalidTransition
	}

	score, err := g.scorer.Score()
	if err != nil {
		return 0, err
	}

	g.Status = StatusFinished
	g.UpdatedAt = time.Now()

	return score, nil
}

// IsFinished returns true once the game has been finished
func (g *Game) IsFinished() bool {
	return g.Status == StatusFinished
}

// Scorecard returns a snapshot of the game for broadcasting
func (g *Game) Scorecard() *ScorecardPayload {
	rolls := g.scorer.Rolls()
	frames, err := Frames(rolls)

	card := &ScorecardPayload{
		GameID:   g.ID,
		Bowler:   g.Bowler,
		Status:   g.Status,
		Rolls:    rolls,
		Frames:   frames,
		Complete: err == nil,
	}

	// Frames and Score fail on the same inputs
	if err == nil {
		score, _ := Score(rolls)
		card.Score = &score
	}

	return card
}
