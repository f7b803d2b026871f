package repository

import (
	"context"
	"time"

	"github.com/Bagerbudunoglu/Mobile-Fitness-App/internal/models"
)

type ScoreRepository struct {
	db DBTX
}

func NewScoreRepository(db DBTX) *ScoreRepository {
	return &ScoreRepository{db: db}
}

func (r *ScoreRepository) Create(
	ctx context.Context,
	trainerID int64,
	studentID int64,
	score int,
) (*models.Score, error) {
	query := `
		INSERT INTO scores (trainer_id, student_id, score)
		VALUES ($1, $2, $3)
		RETURNING id, trainer_id, student_id, score, date
	`

	var entry models.Score
	err := r.db.QueryRow(ctx, query, trainerID, studentID, score).Scan(
		&entry.ID,
		&entry.TrainerID,
		&entry.StudentID,
		&entry.Score,
		&entry.Date,
	)
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

func (r *ScoreRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.Score, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, trainer_id, student_id, score, date
		FROM scores
		WHERE student_id = $1
		ORDER BY date DESC, id DESC
	`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scores := make([]models.Score, 0)
	for rows.Next() {
		var entry models.Score
		if err := rows.Scan(
			&entry.ID,
			&entry.TrainerID,
			&entry.StudentID,
			&entry.Score,
			&entry.Date,
		); err != nil {
			return nil, err
		}
		scores = append(scores, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return scores, nil
}

// TotalsSince returns each listed user's score sum inside the window. Users
// with no scores are absent from the map.
func (r *ScoreRepository) TotalsSince(
	ctx context.Context,
	studentIDs []int64,
	since time.Time,
) (map[int64]int, error) {
	totals := make(map[int64]int, len(studentIDs))
	if len(studentIDs) == 0 {
		return totals, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT student_id, COALESCE(SUM(score), 0)
		FROM scores
		WHERE student_id = ANY($1) AND date >= $2
		GROUP BY student_id
	`, studentIDs, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var studentID int64
		var total int
		if err := rows.Scan(&studentID, &total); err != nil {
			return nil, err
		}
		totals[studentID] = total
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return totals, nil
}
