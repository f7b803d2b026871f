package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/Bagerbudunoglu/Mobile-Fitness-App/internal/models"
	"github.com/Bagerbudunoglu/Mobile-Fitness-App/internal/services"
	chatws "github.com/Bagerbudunoglu/Mobile-Fitness-App/internal/websocket"
	"github.com/Bagerbudunoglu/Mobile-Fitness-App/pkg/utils"
)

type chatApplicationService interface {
	ListConversations(ctx context.Context, viewerID int64) ([]models.ConversationSummary, error)
	ListMessages(ctx context.Context, viewerID, otherID int64) ([]models.DirectMessage, error)
	ListAvailablePeers(ctx context.Context, viewerID int64) ([]models.PublicUser, error)
	SendMessage(ctx context.Context, senderID, receiverID int64, text string) (*services.SendResult, error)
}

type ChatHandler struct {
	service   chatApplicationService
	hub       *chatws.Hub
	jwtSecret string
}

func NewChatHandler(service chatApplicationService, hub *chatws.Hub, jwtSecret string) *ChatHandler {
	return &ChatHandler{
		service:   service,
		hub:       hub,
		jwtSecret: jwtSecret,
	}
}

func (h *ChatHandler) ListConversations(c *fiber.Ctx) error {
	viewerID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	conversations, err := h.service.ListConversations(c.Context(), viewerID)
	if err != nil {
		return mapChatError(c, err)
	}

	return c.JSON(conversations)
}

func (h *ChatHandler) ListAvailableUsers(c *fiber.Ctx) error {
	viewerID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	peers, err := h.service.ListAvailablePeers(c.Context(), viewerID)
	if err != nil {
		return mapChatError(c, err)
	}

	return c.JSON(peers)
}

// GetMessages returns the chronological exchange with one peer and, as a side
// effect, marks everything that peer sent to the viewer as read.
func (h *ChatHandler) GetMessages(c *fiber.Ctx) error {
	viewerID, err := actorID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	otherID, err := strconv.ParseInt(c.Params("otherUserId"), 10, 64)
	if err != nil || otherID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
	}

	messages, err := h.service.ListMessages(c.Context(), viewerID, otherID)
	if err != nil {
		return mapChatError(c, err)
	}

	return c.JSON(messages)
}

func (h *ChatHandler) WebSocketAuth(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return c.Status(fiber.StatusUpgradeRequired).JSON(fiber.Map{"error": "WebSocket upgrade required"})
	}

	claims, err := h.parseWSClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
	}

	c.Locals("user_id", claims.UserID)
	c.Locals("role", claims.Role)
	return c.Next()
}

func (h *ChatHandler) HandleWebSocket(conn *websocket.Conn) {
	userID, _ := conn.Locals("user_id").(string)
	client := chatws.NewClient(h.hub, conn, userID)

	go client.WritePump()
	client.ReadPump(h.service)
}

func (h *ChatHandler) parseWSClaims(c *fiber.Ctx) (*utils.Claims, error) {
	tokenString := strings.TrimSpace(c.Query("token"))
	if tokenString == "" {
		authHeader := strings.TrimSpace(c.Get("Authorization"))
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}
	}

	if tokenString == "" {
		return nil, errors.New("missing token")
	}

	return utils.ValidateToken(tokenString, h.jwtSecret)
}

func mapChatError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process chat request"})
	}
}
