package models

import "time"

type Score struct {
	ID        int64     `json:"id"`
	TrainerID int64     `json:"trainerId"`
	StudentID int64     `json:"studentId"`
	Score     int       `json:"score"`
	Date      time.Time `json:"date"`
}

// ScoreboardEntry ranks one user within a training group by points earned
// inside the scoreboard window.
type ScoreboardEntry struct {
	UserID      int64  `json:"userId"`
	Username    string `json:"username"`
	TotalPoints int    `json:"totalPoints"`
}
