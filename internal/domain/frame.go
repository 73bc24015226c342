package domain

// FrameKind represents how a frame was resolved
type FrameKind string

const (
	FrameStrike FrameKind = "STRIKE" // All pins with the first ball
	FrameSpare  FrameKind = "SPARE"  // All pins with two balls
	FrameOpen   FrameKind = "OPEN"   // Pins left standing after two balls
)

// String returns the string representation of the frame kind
func (k FrameKind) String() string {
	return string(k)
}

// Frame is one resolved scoring unit of a game
type Frame struct {
	Number int       `json:"number"`
	Kind   FrameKind `json:"kind"`
	First  Roll      `json:"first"`
	Second *Roll     `json:"second,omitempty"` // Absent for strikes
	Bonus  []Roll    `json:"bonus,omitempty"`  // Lookahead rolls counted for strikes and spares
	Points int       `json:"points"`
	Total  int       `json:"total"` // Running total through this frame
}

// points computes the frame score from its kind
func (f *Frame) points() int {
	switch f.Kind {
	case FrameStrike:
		return MaxPins + sumRolls(f.Bonus)
	case FrameSpare:
		return MaxPins + sumRolls(f.Bonus)
	default:
		return int(f.First) + int(*f.Second)
	}
}

// Frames breaks rolls down into the frames that can be resolved.
// When the sequence runs out before the tenth frame is resolved, the frames
// resolved so far are returned together with ErrIncompleteGame.
func Frames(rolls []Roll) ([]Frame, error) {
	frames := make([]Frame, 0, FramesPerGame)
	total := 0
	i := 0

	for number := 1; number <= FramesPerGame; number++ {
		frame, next, ok := resolveFrame(rolls, i)
		if !ok {
			return frames, incomplete(number)
		}

		frame.Number = number
		frame.Points = frame.points()
		total += frame.Points
		frame.Total = total

		frames = append(frames, frame)
		i = next
	}

	return frames, nil
}

// resolveFrame reads the frame starting at cursor i and returns the cursor of the next frame
func resolveFrame(rolls []Roll, i int) (Frame, int, bool) {
	if isStrike(rolls, i) {
		if !has(rolls, i+2) {
			return Frame{}, i, false
		}
		return Frame{
			Kind:  FrameStrike,
			First: rolls[i],
			Bonus: []Roll{rolls[i+1], rolls[i+2]},
		}, i + 1, true
	}

	if !has(rolls, i+1) {
		return Frame{}, i, false
	}

	second := rolls[i+1]
	if isSpare(rolls, i) {
		if !has(rolls, i+2) {
			return Frame{}, i, false
		}
		return Frame{
			Kind:   FrameSpare,
			First:  rolls[i],
			Second: &second,
			Bonus:  []Roll{rolls[i+2]},
		}, i + 2, true
	}

	return Frame{
		Kind:   FrameOpen,
		First:  rolls[i],
		Second: &second,
	}, i + 2, true
}

func sumRolls(rolls []Roll) int {
	sum := 0
	for _, r := range rolls {
		sum += int(r)
	}
	return sum
}
