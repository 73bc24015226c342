package model

import "time"

// Result is an archived, finished game
type Result struct {
	ID         string    `json:"id"`
	GameID     string    `json:"gameId"`
	Bowler     string    `json:"bowler"`
	Rolls      []int     `json:"rolls"`
	Score      int       `json:"score"`
	FinishedAt time.Time `json:"finishedAt"`
}
