package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Bagerbudunoglu/Mobile-Fitness-App/internal/models"
)

type stubScoreDirectory struct {
	users    map[int64]models.User
	students map[int64][]models.User
}

func (s *stubScoreDirectory) GetByID(_ context.Context, id int64) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (s *stubScoreDirectory) GetStudent(_ context.Context, studentID, trainerID int64) (*models.User, error) {
	user, ok := s.users[studentID]
	if !ok || user.TrainerID == nil || *user.TrainerID != trainerID {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (s *stubScoreDirectory) ListStudents(_ context.Context, trainerID int64) ([]models.User, error) {
	return s.students[trainerID], nil
}

type stubScoreStore struct {
	history []models.Score
	totals  map[int64]int
	err     error
}

func (s *stubScoreStore) ListByStudent(_ context.Context, studentID int64) ([]models.Score, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.history, nil
}

func (s *stubScoreStore) TotalsSince(_ context.Context, _ []int64, _ time.Time) (map[int64]int, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.totals, nil
}

func scoreTestDirectory() *stubScoreDirectory {
	trainerID := int64(1)
	students := []models.User{
		{ID: 10, Username: "emre", Role: models.RoleMember, TrainerID: &trainerID},
		{ID: 11, Username: "zeynep", Role: models.RoleMember, TrainerID: &trainerID},
	}
	return &stubScoreDirectory{
		users: map[int64]models.User{
			1:  {ID: 1, Username: "coach_ayse", Role: models.RoleTrainer},
			10: students[0],
			11: students[1],
			30: {ID: 30, Username: "deniz", Role: models.RoleMember},
		},
		students: map[int64][]models.User{1: students},
	}
}

func TestAwardScoreRejectsNegative(t *testing.T) {
	service := NewScoreService(nil, scoreTestDirectory(), &stubScoreStore{})

	_, err := service.AwardScore(context.Background(), 1, 10, -5)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAwardScoreRejectsForeignStudent(t *testing.T) {
	service := NewScoreService(nil, scoreTestDirectory(), &stubScoreStore{})

	_, err := service.AwardScore(context.Background(), 2, 10, 5)
	if !errors.Is(err, ErrStudentNotFound) {
		t.Fatalf("expected ErrStudentNotFound, got %v", err)
	}
}

func TestStudentScoresChecksOwnership(t *testing.T) {
	store := &stubScoreStore{history: []models.Score{
		{ID: 3, TrainerID: 1, StudentID: 10, Score: 20},
		{ID: 2, TrainerID: 1, StudentID: 10, Score: 10},
	}}
	service := NewScoreService(nil, scoreTestDirectory(), store)

	scores, err := service.StudentScores(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("StudentScores: %v", err)
	}
	if len(scores) != 2 || scores[0].Score != 20 {
		t.Fatalf("unexpected scores: %+v", scores)
	}

	if _, err := service.StudentScores(context.Background(), 1, 30); !errors.Is(err, ErrStudentNotFound) {
		t.Fatalf("expected ErrStudentNotFound, got %v", err)
	}
}

func TestLeaderboardRanksStudentsByWindowTotal(t *testing.T) {
	store := &stubScoreStore{totals: map[int64]int{10: 15, 11: 40}}
	service := NewScoreService(nil, scoreTestDirectory(), store)

	entries, err := service.Leaderboard(context.Background(), 1)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].UserID != 11 || entries[0].TotalPoints != 40 {
		t.Fatalf("expected student 11 with 40 points first, got %+v", entries[0])
	}
	if entries[1].UserID != 10 || entries[1].TotalPoints != 15 {
		t.Fatalf("expected student 10 with 15 points second, got %+v", entries[1])
	}
}

func TestScoreboardIncludesTrainerAndStudents(t *testing.T) {
	store := &stubScoreStore{totals: map[int64]int{1: 5, 10: 25}}
	service := NewScoreService(nil, scoreTestDirectory(), store)

	// A member's scoreboard resolves the group through their trainer.
	entries, err := service.Scoreboard(context.Background(), 10)
	if err != nil {
		t.Fatalf("Scoreboard: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected trainer plus 2 students, got %d entries", len(entries))
	}
	if entries[0].UserID != 10 || entries[0].TotalPoints != 25 {
		t.Fatalf("expected student 10 on top, got %+v", entries[0])
	}
	if entries[2].TotalPoints != 0 {
		t.Fatalf("expected zero total for unscored user, got %+v", entries[2])
	}
}

func TestScoreboardRequiresTrainerAssignment(t *testing.T) {
	service := NewScoreService(nil, scoreTestDirectory(), &stubScoreStore{})

	if _, err := service.Scoreboard(context.Background(), 30); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
