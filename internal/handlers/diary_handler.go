package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Bagerbudunoglu/Mobile-Fitness-App/internal/models"
	"github.com/Bagerbudunoglu/Mobile-Fitness-App/internal/services"
)

type diaryApplicationService interface {
	AddMeal(ctx context.Context, userID int64, input services.MealInput) (*models.MealEntry, error)
	TodayMeals(ctx context.Context, userID int64) ([]models.MealEntry, error)
	AddWorkout(ctx context.Context, userID int64, input services.WorkoutInput) (*models.WorkoutEntry, error)
	TodayWorkouts(ctx context.Context, userID int64) ([]models.WorkoutEntry, error)
}

type DiaryHandler struct {
	diary diaryApplicationService
}

func NewDiaryHandler(diary diaryApplicationService) *DiaryHandler {
	return &DiaryHandler{diary: diary}
}

func (h *DiaryHandler) AddMeal(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var input services.MealInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	entry, err := h.diary.AddMeal(c.Context(), userID, input)
	if err != nil {
		return mapDiaryError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(entry)
}

func (h *DiaryHandler) TodayMeals(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	entries, err := h.diary.TodayMeals(c.Context(), userID)
	if err != nil {
		return mapDiaryError(c, err)
	}

	return c.JSON(entries)
}

func (h *DiaryHandler) AddWorkout(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var input services.WorkoutInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	entry, err := h.diary.AddWorkout(c.Context(), userID, input)
	if err != nil {
		return mapDiaryError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(entry)
}

func (h *DiaryHandler) TodayWorkouts(c *fiber.Ctx) error {
	userID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	entries, err := h.diary.TodayWorkouts(c.Context(), userID)
	if err != nil {
		return mapDiaryError(c, err)
	}

	return c.JSON(entries)
}

func mapDiaryError(c *fiber.Ctx, err error) error {
	if errors.Is(err, services.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "All fields are required"})
	}
	return c.Status(fiber.StatusInternalServerError).
		JSON(fiber.Map{"error": "Failed to process diary request"})
}
