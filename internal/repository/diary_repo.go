package repository

import (
	"context"
	"time"

	"github.com/Bagerbudunoglu/Mobile-Fitness-App/internal/models"
)

type DiaryRepository struct {
	db DBTX
}

func NewDiaryRepository(db DBTX) *DiaryRepository {
	return &DiaryRepository{db: db}
}

func (r *DiaryRepository) AddMeal(ctx context.Context, entry *models.MealEntry) error {
	query := `
		INSERT INTO meal_entries (user_id, name, grams, calories, meal, date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	return r.db.QueryRow(ctx, query,
		entry.UserID, entry.Name, entry.Grams, entry.Calories, entry.Meal, entry.Date,
	).Scan(&entry.ID)
}

func (r *DiaryRepository) ListMealsByDay(
	ctx context.Context,
	userID int64,
	day time.Time,
) ([]models.MealEntry, error) {
	start, end := dayBounds(day)
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, name, grams, calories, meal, date
		FROM meal_entries
		WHERE user_id = $1 AND date >= $2 AND date < $3
		ORDER BY date ASC, id ASC
	`, userID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]models.MealEntry, 0)
	for rows.Next() {
		var entry models.MealEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Name,
			&entry.Grams,
			&entry.Calories,
			&entry.Meal,
			&entry.Date,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *DiaryRepository) AddWorkout(ctx context.Context, entry *models.WorkoutEntry) error {
	query := `
		INSERT INTO workout_entries (user_id, name, sets, reps, date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	return r.db.QueryRow(ctx, query,
		entry.UserID, entry.Name, entry.Sets, entry.Reps, entry.Date,
	).Scan(&entry.ID)
}

func (r *DiaryRepository) ListWorkoutsByDay(
	ctx context.Context,
	userID int64,
	day time.Time,
) ([]models.WorkoutEntry, error) {
	start, end := dayBounds(day)
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, name, sets, reps, date
		FROM workout_entries
		WHERE user_id = $1 AND date >= $2 AND date < $3
		ORDER BY date ASC, id ASC
	`, userID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]models.WorkoutEntry, 0)
	for rows.Next() {
		var entry models.WorkoutEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Name,
			&entry.Sets,
			&entry.Reps,
			&entry.Date,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func dayBounds(day time.Time) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.Add(24 * time.Hour)
}
