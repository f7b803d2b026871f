package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Bagerbudunoglu/Mobile-Fitness-App/internal/models"
	"github.com/Bagerbudunoglu/Mobile-Fitness-App/internal/repository"
)

// scoreboardWindow is how far back score totals reach on leaderboards.
const scoreboardWindow = 7 * 24 * time.Hour

type scoreDirectory interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetStudent(ctx context.Context, studentID, trainerID int64) (*models.User, error)
	ListStudents(ctx context.Context, trainerID int64) ([]models.User, error)
}

type scoreStore interface {
	ListByStudent(ctx context.Context, studentID int64) ([]models.Score, error)
	TotalsSince(ctx context.Context, studentIDs []int64, since time.Time) (map[int64]int, error)
}

type ScoreService struct {
	db     *pgxpool.Pool
	users  scoreDirectory
	scores scoreStore
}

func NewScoreService(db *pgxpool.Pool, users scoreDirectory, scores scoreStore) *ScoreService {
	return &ScoreService{db: db, users: users, scores: scores}
}

// AwardScore records a score a trainer gives to one of their own students and
// adds it to the student's running point total in the same transaction.
// Returns the student's new total.
func (s *ScoreService) AwardScore(
	ctx context.Context,
	trainerID int64,
	studentID int64,
	score int,
) (int, error) {
	if score < 0 {
		return 0, ErrInvalidInput
	}

	student, err := s.users.GetStudent(ctx, studentID, trainerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrStudentNotFound
		}
		return 0, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := repository.NewScoreRepository(tx).Create(ctx, trainerID, studentID, score); err != nil {
		return 0, err
	}
	if err := repository.NewUserRepository(tx).AddPoints(ctx, studentID, score); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}

	return student.Points + score, nil
}

// StudentScores returns the full score history of one of the trainer's
// students, newest first.
func (s *ScoreService) StudentScores(
	ctx context.Context,
	trainerID int64,
	studentID int64,
) ([]models.Score, error) {
	if _, err := s.users.GetStudent(ctx, studentID, trainerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return s.scores.ListByStudent(ctx, studentID)
}

// Leaderboard ranks the trainer's students by points earned over the last
// seven days.
func (s *ScoreService) Leaderboard(ctx context.Context, trainerID int64) ([]models.ScoreboardEntry, error) {
	students, err := s.users.ListStudents(ctx, trainerID)
	if err != nil {
		return nil, err
	}
	return s.rank(ctx, students)
}

// Scoreboard ranks the viewer's whole training group: the trainer plus every
// student assigned to that trainer. Members without a trainer have no group.
func (s *ScoreService) Scoreboard(ctx context.Context, viewerID int64) ([]models.ScoreboardEntry, error) {
	viewer, err := s.users.GetByID(ctx, viewerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	trainerID := viewer.ID
	if viewer.Role != models.RoleTrainer {
		if viewer.TrainerID == nil {
			return nil, ErrForbidden
		}
		trainerID = *viewer.TrainerID
	}

	trainer, err := s.users.GetByID(ctx, trainerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTrainerNotFound
		}
		return nil, err
	}

	students, err := s.users.ListStudents(ctx, trainerID)
	if err != nil {
		return nil, err
	}

	group := append([]models.User{*trainer}, students...)
	return s.rank(ctx, group)
}

func (s *ScoreService) rank(ctx context.Context, users []models.User) ([]models.ScoreboardEntry, error) {
	ids := make([]int64, 0, len(users))
	for i := range users {
		ids = append(ids, users[i].ID)
	}

	totals, err := s.scores.TotalsSince(ctx, ids, time.Now().UTC().Add(-scoreboardWindow))
	if err != nil {
		return nil, err
	}

	entries := make([]models.ScoreboardEntry, 0, len(users))
	for i := range users {
		entries = append(entries, models.ScoreboardEntry{
			UserID:      users[i].ID,
			Username:    users[i].Username,
			TotalPoints: totals[users[i].ID],
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TotalPoints > entries[j].TotalPoints
	})

	return entries, nil
}
