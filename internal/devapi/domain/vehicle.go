package domain

import "time"

type Vehicle struct {
	ID             string
	Make           string
	Model          string
	Year           int
	Seats          int
	Transmission   string // "automatic" or "manual"
	Station        string
	DailyRateCents int64
	Available      bool
	CreatedAt      time.Time
}
