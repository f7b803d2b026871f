package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/Bagerbudunoglu/Mobile-Fitness-App/internal/models"
	"github.com/Bagerbudunoglu/Mobile-Fitness-App/internal/services"
)

type studentDirectory interface {
	ListStudents(ctx context.Context, trainerID int64) ([]models.User, error)
}

type scoreApplicationService interface {
	AwardScore(ctx context.Context, trainerID, studentID int64, score int) (int, error)
	StudentScores(ctx context.Context, trainerID, studentID int64) ([]models.Score, error)
	Leaderboard(ctx context.Context, trainerID int64) ([]models.ScoreboardEntry, error)
}

type studentDiaryService interface {
	StudentTodayMeals(ctx context.Context, trainerID, studentID int64) ([]models.MealEntry, error)
	StudentTodayWorkouts(ctx context.Context, trainerID, studentID int64) ([]models.WorkoutEntry, error)
}

// TrainerHandler serves the trainer-only routes: student roster, scoring and
// daily diary review. Every route assumes the trainer-role middleware ran.
type TrainerHandler struct {
	students studentDirectory
	scores   scoreApplicationService
	diary    studentDiaryService
}

func NewTrainerHandler(
	students studentDirectory,
	scores scoreApplicationService,
	diary studentDiaryService,
) *TrainerHandler {
	return &TrainerHandler{students: students, scores: scores, diary: diary}
}

func (h *TrainerHandler) ListStudents(c *fiber.Ctx) error {
	trainerID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	students, err := h.students.ListStudents(c.Context(), trainerID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to load students"})
	}

	return c.JSON(students)
}

type awardScoreRequest struct {
	Score *int `json:"score"`
}

func (h *TrainerHandler) AwardScore(c *fiber.Ctx) error {
	trainerID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	studentID, err := parseStudentID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid student id"})
	}

	var req awardScoreRequest
	if err := c.BodyParser(&req); err != nil || req.Score == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Score is required"})
	}

	total, err := h.scores.AwardScore(c.Context(), trainerID, studentID, *req.Score)
	if err != nil {
		return mapTrainerError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":     "Score awarded",
		"totalPoints": total,
	})
}

func (h *TrainerHandler) StudentScores(c *fiber.Ctx) error {
	trainerID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	studentID, err := parseStudentID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid student id"})
	}

	scores, err := h.scores.StudentScores(c.Context(), trainerID, studentID)
	if err != nil {
		return mapTrainerError(c, err)
	}

	return c.JSON(scores)
}

func (h *TrainerHandler) Leaderboard(c *fiber.Ctx) error {
	trainerID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	entries, err := h.scores.Leaderboard(c.Context(), trainerID)
	if err != nil {
		return mapTrainerError(c, err)
	}

	return c.JSON(entries)
}

func (h *TrainerHandler) StudentTodayMeals(c *fiber.Ctx) error {
	trainerID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	studentID, err := parseStudentID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid student id"})
	}

	entries, err := h.diary.StudentTodayMeals(c.Context(), trainerID, studentID)
	if err != nil {
		return mapTrainerError(c, err)
	}

	return c.JSON(entries)
}

func (h *TrainerHandler) StudentTodayWorkouts(c *fiber.Ctx) error {
	trainerID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	studentID, err := parseStudentID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid student id"})
	}

	entries, err := h.diary.StudentTodayWorkouts(c.Context(), trainerID, studentID)
	if err != nil {
		return mapTrainerError(c, err)
	}

	return c.JSON(entries)
}

func parseStudentID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("studentId"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid student id")
	}
	return id, nil
}

func mapTrainerError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrStudentNotFound):
		return c.Status(fiber.StatusNotFound).
			JSON(fiber.Map{"error": "Student not found or not yours"})
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	default:
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to process trainer request"})
	}
}
