package domain

import "fmt"

const (
	// MaxPins is the number of pins standing at the start of a frame
	MaxPins = 10

	// FramesPerGame is the number of scoring frames in a game
	FramesPerGame = 10
)

// Roll is the pinfall of a single ball
type Roll int

// Scorer accumulates the rolls of one game and computes its total.
// It is not safe for concurrent use; see app.GameSession.
type Scorer struct {
	rolls []Roll
}

// NewScorer creates an empty scorer
func NewScorer() *Scorer {
	return &Scorer{rolls: make([]Roll, 0, 21)}
}

// Record appends a roll to the sequence. Values are not validated.
func (s *Scorer) Record(points Roll) {
	s.rolls = append(s.rolls, points)
}

// Rolls returns a copy of the recorded sequence
func (s *Scorer) Rolls() []Roll {
	out := make([]Roll, len(s.rolls))
	copy(out, s.rolls)
	return out
}

// Len returns the number of recorded rolls
func (s *Scorer) Len() int {
	return len(s.rolls)
}

// Score returns the total of the first ten frames.
// ErrIncompleteGame is returned when a frame needs a roll that was not recorded.
func (s *Scorer) Score() (int, error) {
	return Score(s.rolls)
}

// Score computes the total of the first ten frames of rolls
func Score(rolls []Roll) (int, error) {
	total := 0
	i := 0

	for frame := 1; frame <= FramesPerGame; frame++ {
		switch {
		case isStrike(rolls, i):
			if !has(rolls, i+2) {
				return 0, incomplete(frame)
			}
			total += MaxPins + int(rolls[i+1]) + int(rolls[i+2])
			i++
		case !has(rolls, i+1):
			return 0, incomplete(frame)
		case isSpare(rolls, i):
			if !has(rolls, i+2) {
				return 0, incomplete(frame)
			}
			total += MaxPins + int(rolls[i+2])
			i += 2
		default:
			total += int(rolls[i]) + int(rolls[i+1])
			i += 2
		}
	}

	return total, nil
}

// isStrike must be checked before isSpare at the same cursor
func isStrike(rolls []Roll, i int) bool {
	return has(rolls, i) && rolls[i] == MaxPins
}

func isSpare(rolls []Roll, i int) bool {
	return rolls[i]+rolls[i+1] == MaxPins
}

func has(rolls []Roll, i int) bool {
	return i < len(rolls)
}

func incomplete(frame int) error {
	return fmt.Errorf("frame %d: %w", frame, ErrIncompleteGame)
}
