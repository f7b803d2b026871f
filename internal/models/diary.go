package models

import "time"

// MealEntry is a single food logged against a calendar day.
type MealEntry struct {
	ID       int64     `json:"id"`
	UserID   int64     `json:"userId"`
	Name     string    `json:"name"`
	Grams    int       `json:"grams"`
	Calories int       `json:"calories"`
	Meal     string    `json:"meal"`
	Date     time.Time `json:"date"`
}

// WorkoutEntry is a single exercise logged against a calendar day.
type WorkoutEntry struct {
	ID     int64     `json:"id"`
	UserID int64     `json:"userId"`
	Name   string    `json:"name"`
	Sets   int       `json:"sets"`
	Reps   int       `json:"reps"`
	Date   time.Time `json:"date"`
}
