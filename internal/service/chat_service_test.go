package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/ClinkedIn/Backend-sub001/internal/entity"
	"github.com/ClinkedIn/Backend-sub001/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChatService(repo *repository.Repository) *ChatService {
	return NewChatService(repo, NewValidationService(repo), nil)
}

func TestGetDirectChatMarksConversationRead(t *testing.T) {
	users := newFakeUserRepo(
		&entity.User{ID: "alice", FirstName: "Alice"},
		&entity.User{ID: "bob", FirstName: "Bob", Chats: []entity.ChatRef{
			{ChatID: "chat1", ChatType: entity.ChatTypeDirect, UnreadCount: 2},
		}},
	)
	direct := newFakeDirectChatRepo(&entity.DirectChat{
		ID:         "chat1",
		FirstUser:  "alice",
		SecondUser: "bob",
		Messages:   []string{"m1", "m2"},
	})
	messages := newFakeMessageRepo(
		&entity.Message{
			ID: "m1", Sender: "alice", ChatID: "chat1",
			Type: entity.MessageTypeDirect, MessageText: "first",
			CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		},
		&entity.Message{
			ID: "m2", Sender: "alice", ChatID: "chat1",
			Type: entity.MessageTypeDirect, MessageText: "second",
			CreatedAt: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		},
	)
	repo := newFakeRepository(users, direct, nil, messages)
	svc := newChatService(repo)

	resp, err := svc.GetDirectChat(context.Background(), "bob", "chat1")
	require.NoError(t, err)

	require.Len(t, resp.Messages, 2)
	assert.Equal(t, "first", resp.Messages[0].MessageText)
	assert.Equal(t, "second", resp.Messages[1].MessageText)

	// Two calendar days, each with one message.
	require.Len(t, resp.ConversationHistory, 2)
	assert.Equal(t, "2026-03-01", resp.ConversationHistory[0].Date)
	assert.Equal(t, "2026-03-02", resp.ConversationHistory[1].Date)

	for _, id := range []string{"m1", "m2"} {
		msg, _ := messages.GetByID(context.Background(), id)
		assert.Contains(t, msg.ReadBy, "bob")
	}

	bob, _ := users.GetByID(context.Background(), "bob")
	assert.Equal(t, 0, bob.ChatRefFor("chat1", entity.ChatTypeDirect).UnreadCount)
	assert.NotNil(t, bob.ChatRefFor("chat1", entity.ChatTypeDirect).LastReadAt)
}

func TestGetDirectChatNonMember(t *testing.T) {
	users := newFakeUserRepo(&entity.User{ID: "mallory"})
	direct := newFakeDirectChatRepo(&entity.DirectChat{
		ID: "chat1", FirstUser: "alice", SecondUser: "bob",
	})
	repo := newFakeRepository(users, direct, nil, nil)
	svc := newChatService(repo)

	_, err := svc.GetDirectChat(context.Background(), "mallory", "chat1")
	assert.Equal(t, http.StatusForbidden, appErrorCode(t, err))
}

func TestGetGroupChatReturnsNameAndParticipants(t *testing.T) {
	users := newFakeUserRepo(
		&entity.User{ID: "alice", FirstName: "Alice"},
		&entity.User{ID: "bob", FirstName: "Bob"},
		&entity.User{ID: "carol", FirstName: "Carol"},
	)
	groups := newFakeChatGroupRepo(&entity.ChatGroup{
		ID:       "group1",
		Name:     "Design Team",
		Members:  []string{"alice", "bob", "carol"},
		IsActive: true,
	})
	repo := newFakeRepository(users, nil, groups, nil)
	svc := newChatService(repo)

	resp, err := svc.GetGroupChat(context.Background(), "alice", "group1")
	require.NoError(t, err)
	assert.Equal(t, "Design Team", resp.Name)
	assert.Len(t, resp.Participants, 3)
	assert.Empty(t, resp.Messages)
}

func TestGetAllChatsSortedByActivity(t *testing.T) {
	older := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	users := newFakeUserRepo(
		&entity.User{ID: "alice", FirstName: "Alice", Chats: []entity.ChatRef{
			{ChatID: "chat1", ChatType: entity.ChatTypeDirect, UnreadCount: 2},
			{ChatID: "group1", ChatType: entity.ChatTypeGroup, UnreadCount: 1},
		}},
		&entity.User{ID: "bob", FirstName: "Bob", LastName: "Jones"},
	)
	direct := newFakeDirectChatRepo(&entity.DirectChat{
		ID: "chat1", FirstUser: "alice", SecondUser: "bob",
		Messages: []string{"m1"},
	})
	groups := newFakeChatGroupRepo(&entity.ChatGroup{
		ID: "group1", Name: "Team", Members: []string{"alice", "bob"},
		Messages: []string{"m2"}, IsActive: true,
	})
	messages := newFakeMessageRepo(
		&entity.Message{
			ID: "m1", Sender: "bob", ChatID: "chat1",
			Type: entity.MessageTypeDirect, MessageText: "old",
			CreatedAt: older,
		},
		&entity.Message{
			ID: "m2", Sender: "bob", ChatID: "group1",
			Type: entity.MessageTypeGroup, MessageText: "new",
			CreatedAt: newer,
		},
	)
	repo := newFakeRepository(users, direct, groups, messages)
	svc := newChatService(repo)

	resp, err := svc.GetAllChats(context.Background(), "alice")
	require.NoError(t, err)

	assert.Equal(t, 2, resp.TotalChats)
	assert.Equal(t, 3, resp.TotalUnread)

	require.Len(t, resp.Chats, 2)
	assert.Equal(t, "group1", resp.Chats[0].ChatID)
	assert.Equal(t, "chat1", resp.Chats[1].ChatID)

	directItem := resp.Chats[1]
	require.NotNil(t, directItem.OtherUser)
	assert.Equal(t, "bob", directItem.OtherUser.ID)
	assert.Equal(t, "Bob Jones", directItem.Name)
	require.NotNil(t, directItem.LastMessage)
	assert.Equal(t, "old", directItem.LastMessage.MessageText)
	assert.Equal(t, 2, directItem.UnreadCount)
}

func TestMarkChatAsReadAlreadyZero(t *testing.T) {
	users := newFakeUserRepo(&entity.User{ID: "alice", Chats: []entity.ChatRef{
		{ChatID: "chat1", ChatType: entity.ChatTypeDirect, UnreadCount: 0},
	}})
	repo := newFakeRepository(users, nil, nil, nil)
	svc := newChatService(repo)

	resp, err := svc.MarkChatAsRead(context.Background(), "alice", "chat1")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Message)

	alice, _ := users.GetByID(context.Background(), "alice")
	assert.Equal(t, 0, alice.ChatRefFor("chat1", entity.ChatTypeDirect).UnreadCount)
}

func TestMarkChatAsUnreadSetsCounter(t *testing.T) {
	users := newFakeUserRepo(&entity.User{ID: "alice", Chats: []entity.ChatRef{
		{ChatID: "group1", ChatType: entity.ChatTypeGroup, UnreadCount: 0},
	}})
	repo := newFakeRepository(users, nil, nil, nil)
	svc := newChatService(repo)

	_, err := svc.MarkChatAsUnread(context.Background(), "alice", "group1")
	require.NoError(t, err)

	alice, _ := users.GetByID(context.Background(), "alice")
	assert.Equal(t, 1, alice.ChatRefFor("group1", entity.ChatTypeGroup).UnreadCount)
}

func TestMarkChatWithoutMembership(t *testing.T) {
	users := newFakeUserRepo(&entity.User{ID: "alice"})
	repo := newFakeRepository(users, nil, nil, nil)
	svc := newChatService(repo)

	_, err := svc.MarkChatAsRead(context.Background(), "alice", "chat-they-never-joined")
	assert.Equal(t, http.StatusNotFound, appErrorCode(t, err))
}
