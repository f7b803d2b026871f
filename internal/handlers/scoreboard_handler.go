package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Bagerbudunoglu/Mobile-Fitness-App/internal/models"
	"github.com/Bagerbudunoglu/Mobile-Fitness-App/internal/services"
)

type scoreboardService interface {
	Scoreboard(ctx context.Context, viewerID int64) ([]models.ScoreboardEntry, error)
}

type ScoreboardHandler struct {
	scores scoreboardService
}

func NewScoreboardHandler(scores scoreboardService) *ScoreboardHandler {
	return &ScoreboardHandler{scores: scores}
}

// GetScoreboard ranks the viewer's training group over the scoring window.
// Members resolve the group through their trainer assignment.
func (h *ScoreboardHandler) GetScoreboard(c *fiber.Ctx) error {
	viewerID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	entries, err := h.scores.Scoreboard(c.Context(), viewerID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrForbidden):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "No trainer assigned"})
		case errors.Is(err, services.ErrUserNotFound), errors.Is(err, services.ErrTrainerNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		default:
			return c.Status(fiber.StatusInternalServerError).
				JSON(fiber.Map{"error": "Failed to load scoreboard"})
		}
	}

	return c.JSON(entries)
}
