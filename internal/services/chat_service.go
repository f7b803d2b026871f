package services

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/Bagerbudunoglu/Mobile-Fitness-App/internal/models"
)

type userDirectory interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByIDs(ctx context.Context, ids []int64) ([]models.User, error)
	ListStudents(ctx context.Context, trainerID int64) ([]models.User, error)
}

type messageStore interface {
	Create(ctx context.Context, senderID, receiverID int64, text string) (*models.DirectMessage, error)
	ListForUser(ctx context.Context, userID int64) ([]models.DirectMessage, error)
	ListBetween(ctx context.Context, userID, otherID int64) ([]models.DirectMessage, error)
	MarkRead(ctx context.Context, senderID, readerID int64) error
}

type ChatService struct {
	users    userDirectory
	messages messageStore
}

func NewChatService(users userDirectory, messages messageStore) *ChatService {
	return &ChatService{users: users, messages: messages}
}

// SendStatus classifies the outcome of a send attempt. Denied and NotFound
// produce no observable effect on the realtime channel; callers translate
// them to silence at the wire boundary.
type SendStatus int

const (
	SendDelivered SendStatus = iota
	SendDenied
	SendNotFound
)

type SendResult struct {
	Status  SendStatus
	Message *models.DirectMessage
}

// SendMessage resolves both parties, applies the relationship gate and, only
// when authorized, appends the message to the store. The message is persisted
// unread with a server-assigned timestamp. Storage failures are returned as
// errors; callers must not push anything in that case.
func (s *ChatService) SendMessage(
	ctx context.Context,
	senderID int64,
	receiverID int64,
	text string,
) (*SendResult, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return &SendResult{Status: SendDenied}, nil
	}

	sender, receiver, err := s.resolvePair(ctx, senderID, receiverID)
	if err != nil {
		return nil, err
	}
	if sender == nil || receiver == nil {
		return &SendResult{Status: SendNotFound}, nil
	}

	if !relationshipAllows(sender, receiver) {
		return &SendResult{Status: SendDenied}, nil
	}

	message, err := s.messages.Create(ctx, sender.ID, receiver.ID, trimmed)
	if err != nil {
		return nil, err
	}

	return &SendResult{Status: SendDelivered, Message: message}, nil
}

// CanMessage reports whether senderID is currently allowed to message
// receiverID. Both identities are re-resolved on every call; trainer
// assignment may have changed since the connection was established.
func (s *ChatService) CanMessage(ctx context.Context, senderID, receiverID int64) (bool, error) {
	sender, receiver, err := s.resolvePair(ctx, senderID, receiverID)
	if err != nil {
		return false, err
	}
	if sender == nil || receiver == nil {
		return false, nil
	}
	return relationshipAllows(sender, receiver), nil
}

// relationshipAllows encodes the only authorized pairs: a member and their
// assigned trainer, in either direction.
func relationshipAllows(sender, receiver *models.User) bool {
	switch sender.Role {
	case models.RoleMember:
		return sender.TrainerID != nil && *sender.TrainerID == receiver.ID
	case models.RoleTrainer:
		return receiver.Role == models.RoleMember &&
			receiver.TrainerID != nil &&
			*receiver.TrainerID == sender.ID
	default:
		return false
	}
}

func (s *ChatService) resolvePair(
	ctx context.Context,
	senderID int64,
	receiverID int64,
) (*models.User, *models.User, error) {
	sender, err := s.users.GetByID(ctx, senderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	receiver, err := s.users.GetByID(ctx, receiverID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	return sender, receiver, nil
}

// ListConversations rebuilds the viewer's conversation list from the message
// log: one entry per peer, carrying the newest message and the count of
// unread messages from that peer, newest conversation first.
func (s *ChatService) ListConversations(
	ctx context.Context,
	viewerID int64,
) ([]models.ConversationSummary, error) {
	messages, err := s.messages.ListForUser(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	type group struct {
		lastMessage models.DirectMessage
		unread      int
	}
	groups := make(map[int64]*group)
	order := make([]int64, 0)

	for _, message := range messages {
		otherID := message.SenderID
		if otherID == viewerID {
			otherID = message.ReceiverID
		}

		g, ok := groups[otherID]
		if !ok {
			// Messages arrive newest first, so the first one seen per
			// peer is the conversation's last message.
			g = &group{lastMessage: message}
			groups[otherID] = g
			order = append(order, otherID)
		}
		if message.ReceiverID == viewerID && !message.Read {
			g.unread++
		}
	}

	if len(order) == 0 {
		return []models.ConversationSummary{}, nil
	}

	peers, err := s.users.GetByIDs(ctx, order)
	if err != nil {
		return nil, err
	}
	usernames := make(map[int64]string, len(peers))
	for _, peer := range peers {
		usernames[peer.ID] = peer.Username
	}

	summaries := make([]models.ConversationSummary, 0, len(order))
	for _, otherID := range order {
		username, ok := usernames[otherID]
		if !ok {
			// Dangling reference; skip rather than fail the whole list.
			continue
		}
		g := groups[otherID]
		summaries = append(summaries, models.ConversationSummary{
			UserID:      otherID,
			Username:    username,
			LastMessage: g.lastMessage.Text,
			LastDate:    g.lastMessage.CreatedAt,
			UnreadCount: g.unread,
		})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].LastDate.After(summaries[j].LastDate)
	})

	return summaries, nil
}

// ListMessages returns the full exchange between viewer and other in
// chronological order and marks every message from other to viewer as read.
// Re-reading an already-read exchange changes nothing.
func (s *ChatService) ListMessages(
	ctx context.Context,
	viewerID int64,
	otherID int64,
) ([]models.DirectMessage, error) {
	messages, err := s.messages.ListBetween(ctx, viewerID, otherID)
	if err != nil {
		return nil, err
	}

	if err := s.messages.MarkRead(ctx, otherID, viewerID); err != nil {
		return nil, err
	}

	for i := range messages {
		if messages[i].ReceiverID == viewerID {
			messages[i].Read = true
		}
	}

	return messages, nil
}

// ListAvailablePeers returns the identities the viewer is authorized to
// message: a member's assigned trainer, or all of a trainer's students. The
// set derives from the same relationship data the send gate checks.
func (s *ChatService) ListAvailablePeers(
	ctx context.Context,
	viewerID int64,
) ([]models.PublicUser, error) {
	viewer, err := s.users.GetByID(ctx, viewerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	peers := make([]models.PublicUser, 0)

	switch viewer.Role {
	case models.RoleMember:
		if viewer.TrainerID == nil {
			return peers, nil
		}
		trainer, err := s.users.GetByID(ctx, *viewer.TrainerID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return peers, nil
			}
			return nil, err
		}
		peers = append(peers, trainer.Public())
	case models.RoleTrainer:
		students, err := s.users.ListStudents(ctx, viewer.ID)
		if err != nil {
			return nil, err
		}
		for i := range students {
			peers = append(peers, students[i].Public())
		}
	}

	return peers, nil
}
