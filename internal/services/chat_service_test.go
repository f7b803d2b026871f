package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bagerbudunoglu/Mobile-Fitness-App/internal/models"
)

type fakeDirectory struct {
	users map[int64]models.User
}

func (f *fakeDirectory) GetByID(_ context.Context, id int64) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (f *fakeDirectory) GetByIDs(_ context.Context, ids []int64) ([]models.User, error) {
	found := make([]models.User, 0, len(ids))
	for _, id := range ids {
		if user, ok := f.users[id]; ok {
			found = append(found, user)
		}
	}
	return found, nil
}

func (f *fakeDirectory) ListStudents(_ context.Context, trainerID int64) ([]models.User, error) {
	students := make([]models.User, 0)
	for _, user := range f.users {
		if user.Role == models.RoleMember && user.TrainerID != nil && *user.TrainerID == trainerID {
			students = append(students, user)
		}
	}
	return students, nil
}

type fakeMessageStore struct {
	messages  []models.DirectMessage
	nextID    int64
	clock     time.Time
	createErr error
	markCalls int
}

func newFakeMessageStore() *fakeMessageStore {
	return &fakeMessageStore{
		nextID: 1,
		clock:  time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (f *fakeMessageStore) Create(_ context.Context, senderID, receiverID int64, text string) (*models.DirectMessage, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.clock = f.clock.Add(time.Second)
	message := models.DirectMessage{
		ID:         f.nextID,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       text,
		Read:       false,
		CreatedAt:  f.clock,
	}
	f.nextID++
	f.messages = append(f.messages, message)
	return &message, nil
}

func (f *fakeMessageStore) ListForUser(_ context.Context, userID int64) ([]models.DirectMessage, error) {
	result := make([]models.DirectMessage, 0)
	for i := len(f.messages) - 1; i >= 0; i-- {
		if f.messages[i].SenderID == userID || f.messages[i].ReceiverID == userID {
			result = append(result, f.messages[i])
		}
	}
	return result, nil
}

func (f *fakeMessageStore) ListBetween(_ context.Context, userID, otherID int64) ([]models.DirectMessage, error) {
	result := make([]models.DirectMessage, 0)
	for _, message := range f.messages {
		if (message.SenderID == userID && message.ReceiverID == otherID) ||
			(message.SenderID == otherID && message.ReceiverID == userID) {
			result = append(result, message)
		}
	}
	return result, nil
}

func (f *fakeMessageStore) MarkRead(_ context.Context, senderID, readerID int64) error {
	f.markCalls++
	for i := range f.messages {
		if f.messages[i].SenderID == senderID && f.messages[i].ReceiverID == readerID {
			f.messages[i].Read = true
		}
	}
	return nil
}

func int64Ptr(v int64) *int64 { return &v }

// trainer 1 coaches members 10 and 11; trainer 2 coaches member 20;
// member 30 has no trainer.
func testDirectory() *fakeDirectory {
	return &fakeDirectory{users: map[int64]models.User{
		1:  {ID: 1, Username: "coach_ayse", Role: models.RoleTrainer},
		2:  {ID: 2, Username: "coach_mehmet", Role: models.RoleTrainer},
		10: {ID: 10, Username: "emre", Role: models.RoleMember, TrainerID: int64Ptr(1)},
		11: {ID: 11, Username: "zeynep", Role: models.RoleMember, TrainerID: int64Ptr(1)},
		20: {ID: 20, Username: "can", Role: models.RoleMember, TrainerID: int64Ptr(2)},
		30: {ID: 30, Username: "deniz", Role: models.RoleMember},
	}}
}

func TestCanMessageRelationshipMatrix(t *testing.T) {
	service := NewChatService(testDirectory(), newFakeMessageStore())
	ctx := context.Background()

	cases := []struct {
		name     string
		sender   int64
		receiver int64
		want     bool
	}{
		{"member to own trainer", 10, 1, true},
		{"trainer to own student", 1, 10, true},
		{"member to another trainer", 10, 2, false},
		{"trainer to foreign student", 1, 20, false},
		{"member to member", 10, 11, false},
		{"trainer to trainer", 1, 2, false},
		{"unassigned member to trainer", 30, 1, false},
		{"missing sender", 99, 1, false},
		{"missing receiver", 10, 99, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := service.CanMessage(ctx, tc.sender, tc.receiver)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSendMessageDeliversBetweenMemberAndTrainer(t *testing.T) {
	store := newFakeMessageStore()
	service := NewChatService(testDirectory(), store)
	ctx := context.Background()

	result, err := service.SendMessage(ctx, 10, 1, "Merhaba")
	require.NoError(t, err)
	require.Equal(t, SendDelivered, result.Status)
	require.NotNil(t, result.Message)
	assert.Equal(t, int64(10), result.Message.SenderID)
	assert.Equal(t, int64(1), result.Message.ReceiverID)
	assert.Equal(t, "Merhaba", result.Message.Text)
	assert.False(t, result.Message.Read)
	assert.False(t, result.Message.CreatedAt.IsZero())

	// Visible from both sides, in order.
	fromSender, err := service.ListMessages(ctx, 10, 1)
	require.NoError(t, err)
	fromReceiver, err := service.ListMessages(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, fromSender, 1)
	require.Len(t, fromReceiver, 1)
	assert.Equal(t, "Merhaba", fromSender[0].Text)
	assert.Equal(t, "Merhaba", fromReceiver[0].Text)
}

func TestSendMessageDeniedPairsPersistNothing(t *testing.T) {
	store := newFakeMessageStore()
	service := NewChatService(testDirectory(), store)
	ctx := context.Background()

	for _, pair := range [][2]int64{{10, 11}, {10, 2}, {1, 20}, {1, 2}, {30, 1}} {
		result, err := service.SendMessage(ctx, pair[0], pair[1], "hey")
		require.NoError(t, err)
		assert.Equal(t, SendDenied, result.Status)
	}

	assert.Empty(t, store.messages)

	messages, err := service.ListMessages(ctx, 10, 11)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestSendMessageMissingIdentityIsNotFound(t *testing.T) {
	store := newFakeMessageStore()
	service := NewChatService(testDirectory(), store)
	ctx := context.Background()

	result, err := service.SendMessage(ctx, 99, 1, "hi")
	require.NoError(t, err)
	assert.Equal(t, SendNotFound, result.Status)

	result, err = service.SendMessage(ctx, 10, 99, "hi")
	require.NoError(t, err)
	assert.Equal(t, SendNotFound, result.Status)

	assert.Empty(t, store.messages)
}

func TestSendMessageRejectsBlankText(t *testing.T) {
	store := newFakeMessageStore()
	service := NewChatService(testDirectory(), store)

	result, err := service.SendMessage(context.Background(), 10, 1, "   ")
	require.NoError(t, err)
	assert.Equal(t, SendDenied, result.Status)
	assert.Empty(t, store.messages)
}

func TestSendMessagePropagatesStorageFailure(t *testing.T) {
	store := newFakeMessageStore()
	store.createErr = errors.New("connection refused")
	service := NewChatService(testDirectory(), store)

	result, err := service.SendMessage(context.Background(), 10, 1, "hi")
	require.Error(t, err)
	assert.Nil(t, result)
}

func TestListConversationsGroupsAndCountsUnread(t *testing.T) {
	store := newFakeMessageStore()
	service := NewChatService(testDirectory(), store)
	ctx := context.Background()

	// Trainer 1 exchanges with both students; student 10 writes last.
	mustSend(t, service, 1, 11, "program hazır")
	mustSend(t, service, 10, 1, "Merhaba")
	mustSend(t, service, 10, 1, "müsait misiniz?")

	conversations, err := service.ListConversations(ctx, 1)
	require.NoError(t, err)
	require.Len(t, conversations, 2)

	// Newest conversation first.
	assert.Equal(t, int64(10), conversations[0].UserID)
	assert.Equal(t, "emre", conversations[0].Username)
	assert.Equal(t, "müsait misiniz?", conversations[0].LastMessage)
	assert.Equal(t, 2, conversations[0].UnreadCount)

	assert.Equal(t, int64(11), conversations[1].UserID)
	assert.Equal(t, "program hazır", conversations[1].LastMessage)
	assert.Equal(t, 0, conversations[1].UnreadCount)

	// The student's own view counts nothing unread for messages they sent.
	studentView, err := service.ListConversations(ctx, 10)
	require.NoError(t, err)
	require.Len(t, studentView, 1)
	assert.Equal(t, int64(1), studentView[0].UserID)
	assert.Equal(t, 0, studentView[0].UnreadCount)
}

func TestListConversationsEmptyLog(t *testing.T) {
	service := NewChatService(testDirectory(), newFakeMessageStore())

	conversations, err := service.ListConversations(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, conversations)
}

func TestListConversationsDropsDanglingPeers(t *testing.T) {
	directory := testDirectory()
	store := newFakeMessageStore()
	service := NewChatService(directory, store)
	ctx := context.Background()

	mustSend(t, service, 10, 1, "Merhaba")
	delete(directory.users, 10)

	conversations, err := service.ListConversations(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, conversations)
}

func TestListMessagesMarksReadIdempotently(t *testing.T) {
	store := newFakeMessageStore()
	service := NewChatService(testDirectory(), store)
	ctx := context.Background()

	mustSend(t, service, 10, 1, "Merhaba")

	before, err := service.ListConversations(ctx, 1)
	require.NoError(t, err)
	require.Len(t, before, 1)
	assert.Equal(t, 1, before[0].UnreadCount)

	messages, err := service.ListMessages(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.True(t, messages[0].Read)

	after, err := service.ListConversations(ctx, 1)
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, 0, after[0].UnreadCount)

	// A repeat read changes nothing.
	_, err = service.ListMessages(ctx, 1, 10)
	require.NoError(t, err)
	again, err := service.ListConversations(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, again[0].UnreadCount)
}

func TestListMessagesChronologicalOrder(t *testing.T) {
	store := newFakeMessageStore()
	service := NewChatService(testDirectory(), store)
	ctx := context.Background()

	mustSend(t, service, 10, 1, "one")
	mustSend(t, service, 1, 10, "two")
	mustSend(t, service, 10, 1, "three")

	messages, err := service.ListMessages(ctx, 10, 1)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "one", messages[0].Text)
	assert.Equal(t, "two", messages[1].Text)
	assert.Equal(t, "three", messages[2].Text)
	assert.True(t, messages[0].CreatedAt.Before(messages[2].CreatedAt))
}

func TestListAvailablePeers(t *testing.T) {
	service := NewChatService(testDirectory(), newFakeMessageStore())
	ctx := context.Background()

	memberPeers, err := service.ListAvailablePeers(ctx, 10)
	require.NoError(t, err)
	require.Len(t, memberPeers, 1)
	assert.Equal(t, int64(1), memberPeers[0].ID)

	trainerPeers, err := service.ListAvailablePeers(ctx, 1)
	require.NoError(t, err)
	require.Len(t, trainerPeers, 2)

	unassigned, err := service.ListAvailablePeers(ctx, 30)
	require.NoError(t, err)
	assert.Empty(t, unassigned)

	_, err = service.ListAvailablePeers(ctx, 99)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func mustSend(t *testing.T, service *ChatService, senderID, receiverID int64, text string) {
	t.Helper()
	result, err := service.SendMessage(context.Background(), senderID, receiverID, text)
	require.NoError(t, err)
	require.Equal(t, SendDelivered, result.Status)
}
