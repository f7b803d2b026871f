package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Bagerbudunoglu/Mobile-Fitness-App/internal/models"
)

type diaryStore interface {
	AddMeal(ctx context.Context, entry *models.MealEntry) error
	ListMealsByDay(ctx context.Context, userID int64, day time.Time) ([]models.MealEntry, error)
	AddWorkout(ctx context.Context, entry *models.WorkoutEntry) error
	ListWorkoutsByDay(ctx context.Context, userID int64, day time.Time) ([]models.WorkoutEntry, error)
}

type diaryDirectory interface {
	GetStudent(ctx context.Context, studentID, trainerID int64) (*models.User, error)
}

// DiaryService covers the daily meal and workout logs members keep and
// trainers review.
type DiaryService struct {
	users   diaryDirectory
	entries diaryStore
	now     func() time.Time
}

func NewDiaryService(users diaryDirectory, entries diaryStore) *DiaryService {
	return &DiaryService{users: users, entries: entries, now: time.Now}
}

type MealInput struct {
	Name     string `json:"name"`
	Grams    int    `json:"grams"`
	Calories int    `json:"calories"`
	Meal     string `json:"meal"`
}

type WorkoutInput struct {
	Name string `json:"name"`
	Sets int    `json:"sets"`
	Reps int    `json:"reps"`
}

func (s *DiaryService) AddMeal(ctx context.Context, userID int64, input MealInput) (*models.MealEntry, error) {
	name := strings.TrimSpace(input.Name)
	meal := strings.TrimSpace(input.Meal)
	if name == "" || meal == "" || input.Grams <= 0 || input.Calories < 0 {
		return nil, ErrInvalidInput
	}

	entry := &models.MealEntry{
		UserID:   userID,
		Name:     name,
		Grams:    input.Grams,
		Calories: input.Calories,
		Meal:     meal,
		Date:     s.now().UTC(),
	}
	if err := s.entries.AddMeal(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *DiaryService) TodayMeals(ctx context.Context, userID int64) ([]models.MealEntry, error) {
	return s.entries.ListMealsByDay(ctx, userID, s.now().UTC())
}

func (s *DiaryService) AddWorkout(ctx context.Context, userID int64, input WorkoutInput) (*models.WorkoutEntry, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || input.Sets <= 0 || input.Reps <= 0 {
		return nil, ErrInvalidInput
	}

	entry := &models.WorkoutEntry{
		UserID: userID,
		Name:   name,
		Sets:   input.Sets,
		Reps:   input.Reps,
		Date:   s.now().UTC(),
	}
	if err := s.entries.AddWorkout(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *DiaryService) TodayWorkouts(ctx context.Context, userID int64) ([]models.WorkoutEntry, error) {
	return s.entries.ListWorkoutsByDay(ctx, userID, s.now().UTC())
}

// StudentTodayMeals lets a trainer read today's meal log of one of their own
// students.
func (s *DiaryService) StudentTodayMeals(
	ctx context.Context,
	trainerID int64,
	studentID int64,
) ([]models.MealEntry, error) {
	if err := s.checkOwnership(ctx, trainerID, studentID); err != nil {
		return nil, err
	}
	return s.entries.ListMealsByDay(ctx, studentID, s.now().UTC())
}

func (s *DiaryService) StudentTodayWorkouts(
	ctx context.Context,
	trainerID int64,
	studentID int64,
) ([]models.WorkoutEntry, error) {
	if err := s.checkOwnership(ctx, trainerID, studentID); err != nil {
		return nil, err
	}
	return s.entries.ListWorkoutsByDay(ctx, studentID, s.now().UTC())
}

func (s *DiaryService) checkOwnership(ctx context.Context, trainerID, studentID int64) error {
	if _, err := s.users.GetStudent(ctx, studentID, trainerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrStudentNotFound
		}
		return err
	}
	return nil
}
