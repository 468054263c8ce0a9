package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/ClinkedIn/Backend-sub001/internal/config"
	"github.com/ClinkedIn/Backend-sub001/internal/entity"
	"github.com/ClinkedIn/Backend-sub001/internal/helper"
	"github.com/ClinkedIn/Backend-sub001/internal/model"
	"github.com/ClinkedIn/Backend-sub001/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMessageService(repo *repository.Repository) *MessageService {
	validate := config.NewValidator()
	validation := NewValidationService(repo)
	directChat := NewDirectChatService(repo, validate, validation, nil)
	return NewMessageService(repo, validate, validation, nil, nil, directChat)
}

func appErrorCode(t *testing.T, err error) int {
	t.Helper()
	require.Error(t, err)
	appErr, ok := err.(*helper.AppError)
	require.True(t, ok, "expected *helper.AppError, got %T", err)
	return appErr.Code
}

func TestSendMessageEmptyContent(t *testing.T) {
	repo := newFakeRepository(
		newFakeUserRepo(
			&entity.User{ID: "alice"},
			&entity.User{ID: "bob"},
		),
		nil, nil, nil,
	)
	svc := newMessageService(repo)

	_, err := svc.SendMessage(context.Background(), "alice", model.SendMessageRequest{
		Type:       "direct",
		ReceiverID: "bob",
	}, nil)

	assert.Equal(t, http.StatusBadRequest, appErrorCode(t, err))
}

func TestSendMessageInvalidType(t *testing.T) {
	repo := newFakeRepository(newFakeUserRepo(&entity.User{ID: "alice"}), nil, nil, nil)
	svc := newMessageService(repo)

	_, err := svc.SendMessage(context.Background(), "alice", model.SendMessageRequest{
		Type:        "broadcast",
		MessageText: "hi",
	}, nil)

	assert.Equal(t, http.StatusBadRequest, appErrorCode(t, err))
}

func TestSendDirectMessageCreatesChatAndIncrementsUnread(t *testing.T) {
	users := newFakeUserRepo(
		&entity.User{ID: "alice"},
		&entity.User{ID: "bob"},
	)
	repo := newFakeRepository(users, nil, nil, nil)
	svc := newMessageService(repo)

	resp, err := svc.SendMessage(context.Background(), "alice", model.SendMessageRequest{
		Type:        "direct",
		ReceiverID:  "bob",
		MessageText: "hello",
	}, nil)
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, "hello", resp.Message.MessageText)
	assert.NotEmpty(t, resp.Chat["id"])

	chatID := resp.Message.ChatID

	bob, _ := users.GetByID(context.Background(), "bob")
	ref := bob.ChatRefFor(chatID, entity.ChatTypeDirect)
	require.NotNil(t, ref)
	assert.Equal(t, 1, ref.UnreadCount)

	alice, _ := users.GetByID(context.Background(), "alice")
	aliceRef := alice.ChatRefFor(chatID, entity.ChatTypeDirect)
	require.NotNil(t, aliceRef)
	assert.Equal(t, 0, aliceRef.UnreadCount)

	chat, err := repo.DirectChat.GetByID(context.Background(), chatID)
	require.NoError(t, err)
	assert.Len(t, chat.Messages, 1)
}

func TestSendDirectMessageBlockedByExistingChatPeer(t *testing.T) {
	users := newFakeUserRepo(
		&entity.User{ID: "alice"},
		&entity.User{ID: "bob", BlockedUsers: []string{"alice"}},
	)
	direct := newFakeDirectChatRepo(&entity.DirectChat{
		ID:         "chat1",
		FirstUser:  "alice",
		SecondUser: "bob",
	})
	repo := newFakeRepository(users, direct, nil, nil)
	svc := newMessageService(repo)

	_, err := svc.SendMessage(context.Background(), "alice", model.SendMessageRequest{
		Type:        "direct",
		ChatID:      "chat1",
		MessageText: "hello",
	}, nil)

	assert.Equal(t, http.StatusForbidden, appErrorCode(t, err))
}

func TestSendGroupMessageIncrementsEveryoneElse(t *testing.T) {
	users := newFakeUserRepo(
		&entity.User{ID: "alice"},
		&entity.User{ID: "bob"},
		&entity.User{ID: "carol"},
	)
	groups := newFakeChatGroupRepo(&entity.ChatGroup{
		ID:       "group1",
		Name:     "Team",
		Members:  []string{"alice", "bob", "carol"},
		IsActive: true,
	})
	repo := newFakeRepository(users, nil, groups, nil)
	svc := newMessageService(repo)

	_, err := svc.SendMessage(context.Background(), "alice", model.SendMessageRequest{
		Type:        "group",
		ChatID:      "group1",
		MessageText: "standup in 5",
	}, nil)
	require.NoError(t, err)

	for id, want := range map[string]int{"alice": 0, "bob": 1, "carol": 1} {
		u, _ := users.GetByID(context.Background(), id)
		got := 0
		if ref := u.ChatRefFor("group1", entity.ChatTypeGroup); ref != nil {
			got = ref.UnreadCount
		}
		assert.Equal(t, want, got, "unread for %s", id)
	}
}

func TestSendGroupMessageNonMember(t *testing.T) {
	users := newFakeUserRepo(
		&entity.User{ID: "alice"},
		&entity.User{ID: "mallory"},
	)
	groups := newFakeChatGroupRepo(&entity.ChatGroup{
		ID:       "group1",
		Name:     "Team",
		Members:  []string{"alice"},
		IsActive: true,
	})
	repo := newFakeRepository(users, nil, groups, nil)
	svc := newMessageService(repo)

	_, err := svc.SendMessage(context.Background(), "mallory", model.SendMessageRequest{
		Type:        "group",
		ChatID:      "group1",
		MessageText: "let me in",
	}, nil)

	assert.Equal(t, http.StatusForbidden, appErrorCode(t, err))
}

func TestSendMessageReplyDifferentChat(t *testing.T) {
	users := newFakeUserRepo(
		&entity.User{ID: "alice"},
		&entity.User{ID: "bob"},
	)
	direct := newFakeDirectChatRepo(&entity.DirectChat{
		ID: "chat1", FirstUser: "alice", SecondUser: "bob",
	})
	messages := newFakeMessageRepo(&entity.Message{
		ID:          "msg-other",
		Sender:      "bob",
		ChatID:      "some-other-chat",
		Type:        entity.MessageTypeDirect,
		MessageText: "elsewhere",
	})
	repo := newFakeRepository(users, direct, nil, messages)
	svc := newMessageService(repo)

	_, err := svc.SendMessage(context.Background(), "alice", model.SendMessageRequest{
		Type:        "direct",
		ChatID:      "chat1",
		MessageText: "re: that",
		ReplyTo:     "msg-other",
	}, nil)

	assert.Equal(t, http.StatusBadRequest, appErrorCode(t, err))
}

func TestEditMessageNotSender(t *testing.T) {
	users := newFakeUserRepo(
		&entity.User{ID: "alice"},
		&entity.User{ID: "bob"},
	)
	messages := newFakeMessageRepo(&entity.Message{
		ID:          "msg1",
		Sender:      "alice",
		ChatID:      "chat1",
		Type:        entity.MessageTypeDirect,
		MessageText: "original",
	})
	repo := newFakeRepository(users, nil, nil, messages)
	svc := newMessageService(repo)

	_, err := svc.EditMessage(context.Background(), "bob", "msg1", model.EditMessageRequest{MessageText: "hijacked"})
	assert.Equal(t, http.StatusForbidden, appErrorCode(t, err))

	msg, _ := messages.GetByID(context.Background(), "msg1")
	assert.Equal(t, "original", msg.MessageText)
}

func TestDeleteMessageNotSender(t *testing.T) {
	messages := newFakeMessageRepo(&entity.Message{
		ID:     "msg1",
		Sender: "alice",
		ChatID: "chat1",
		Type:   entity.MessageTypeDirect,
	})
	repo := newFakeRepository(newFakeUserRepo(), nil, nil, messages)
	svc := newMessageService(repo)

	err := svc.DeleteMessage(context.Background(), "bob", "msg1")
	assert.Equal(t, http.StatusForbidden, appErrorCode(t, err))
}

func TestDeleteMessageSoftDeleteKeepsRecord(t *testing.T) {
	users := newFakeUserRepo(&entity.User{ID: "alice", Chats: []entity.ChatRef{
		{ChatID: "chat1", ChatType: entity.ChatTypeDirect, UnreadCount: 3},
	}})
	direct := newFakeDirectChatRepo(&entity.DirectChat{
		ID: "chat1", FirstUser: "alice", SecondUser: "bob",
	})
	messages := newFakeMessageRepo(&entity.Message{
		ID:          "msg1",
		Sender:      "alice",
		ChatID:      "chat1",
		Type:        entity.MessageTypeDirect,
		MessageText: "oops",
	})
	repo := newFakeRepository(users, direct, nil, messages)
	svc := newMessageService(repo)

	require.NoError(t, svc.DeleteMessage(context.Background(), "alice", "msg1"))

	msg, err := messages.GetByID(context.Background(), "msg1")
	require.NoError(t, err)
	assert.True(t, msg.IsDeleted)
	assert.Equal(t, "oops", msg.MessageText)

	// Deleting never rewinds unread bookkeeping.
	alice, _ := users.GetByID(context.Background(), "alice")
	assert.Equal(t, 3, alice.ChatRefFor("chat1", entity.ChatTypeDirect).UnreadCount)

	// A second delete reports the message gone.
	err = svc.DeleteMessage(context.Background(), "alice", "msg1")
	assert.Equal(t, http.StatusNotFound, appErrorCode(t, err))
}

func TestMarkMessageReadIdempotent(t *testing.T) {
	users := newFakeUserRepo(
		&entity.User{ID: "alice"},
		&entity.User{ID: "bob", Chats: []entity.ChatRef{
			{ChatID: "chat1", ChatType: entity.ChatTypeDirect, UnreadCount: 1},
		}},
	)
	direct := newFakeDirectChatRepo(&entity.DirectChat{
		ID: "chat1", FirstUser: "alice", SecondUser: "bob",
	})
	messages := newFakeMessageRepo(&entity.Message{
		ID:          "msg1",
		Sender:      "alice",
		ChatID:      "chat1",
		Type:        entity.MessageTypeDirect,
		MessageText: "hello",
	})
	repo := newFakeRepository(users, direct, nil, messages)
	svc := newMessageService(repo)

	for i := 0; i < 2; i++ {
		resp, err := svc.MarkMessageRead(context.Background(), "bob", "msg1")
		require.NoError(t, err)
		assert.Contains(t, resp.ReadBy, "bob")
	}

	msg, _ := messages.GetByID(context.Background(), "msg1")
	assert.Equal(t, []string{"bob"}, msg.ReadBy)

	bob, _ := users.GetByID(context.Background(), "bob")
	assert.Equal(t, 0, bob.ChatRefFor("chat1", entity.ChatTypeDirect).UnreadCount)
}

func TestMarkMessageReadZeroCounterStampsLastReadAt(t *testing.T) {
	users := newFakeUserRepo(
		&entity.User{ID: "alice"},
		&entity.User{ID: "bob", Chats: []entity.ChatRef{
			{ChatID: "chat1", ChatType: entity.ChatTypeDirect, UnreadCount: 0},
		}},
	)
	direct := newFakeDirectChatRepo(&entity.DirectChat{
		ID: "chat1", FirstUser: "alice", SecondUser: "bob",
	})
	messages := newFakeMessageRepo(&entity.Message{
		ID:          "msg1",
		Sender:      "alice",
		ChatID:      "chat1",
		Type:        entity.MessageTypeDirect,
		MessageText: "hello",
	})
	repo := newFakeRepository(users, direct, nil, messages)
	svc := newMessageService(repo)

	_, err := svc.MarkMessageRead(context.Background(), "bob", "msg1")
	require.NoError(t, err)

	// A receipt on an already-read chat keeps the counter at its floor but
	// still records when the read happened.
	bob, _ := users.GetByID(context.Background(), "bob")
	ref := bob.ChatRefFor("chat1", entity.ChatTypeDirect)
	assert.Equal(t, 0, ref.UnreadCount)
	require.NotNil(t, ref.LastReadAt)
	assert.False(t, ref.LastReadAt.IsZero())
}

func TestMarkMessageReadNonMember(t *testing.T) {
	users := newFakeUserRepo(
		&entity.User{ID: "alice"},
		&entity.User{ID: "mallory"},
	)
	direct := newFakeDirectChatRepo(&entity.DirectChat{
		ID: "chat1", FirstUser: "alice", SecondUser: "bob",
	})
	messages := newFakeMessageRepo(&entity.Message{
		ID:     "msg1",
		Sender: "alice",
		ChatID: "chat1",
		Type:   entity.MessageTypeDirect,
	})
	repo := newFakeRepository(users, direct, nil, messages)
	svc := newMessageService(repo)

	_, err := svc.MarkMessageRead(context.Background(), "mallory", "msg1")
	assert.Equal(t, http.StatusForbidden, appErrorCode(t, err))
}

func TestBlockUserTwice(t *testing.T) {
	users := newFakeUserRepo(
		&entity.User{ID: "alice"},
		&entity.User{ID: "bob"},
	)
	repo := newFakeRepository(users, nil, nil, nil)
	svc := newMessageService(repo)

	_, err := svc.BlockUser(context.Background(), "alice", "bob")
	require.NoError(t, err)

	_, err = svc.BlockUser(context.Background(), "alice", "bob")
	assert.Equal(t, http.StatusConflict, appErrorCode(t, err))
}

func TestBlockYourself(t *testing.T) {
	repo := newFakeRepository(newFakeUserRepo(&entity.User{ID: "alice"}), nil, nil, nil)
	svc := newMessageService(repo)

	_, err := svc.BlockUser(context.Background(), "alice", "alice")
	assert.Equal(t, http.StatusBadRequest, appErrorCode(t, err))
}

func TestUnblockNotBlocked(t *testing.T) {
	users := newFakeUserRepo(
		&entity.User{ID: "alice"},
		&entity.User{ID: "bob"},
	)
	repo := newFakeRepository(users, nil, nil, nil)
	svc := newMessageService(repo)

	_, err := svc.UnblockUser(context.Background(), "alice", "bob")
	assert.Equal(t, http.StatusBadRequest, appErrorCode(t, err))
}

func TestGetTotalUnreadCount(t *testing.T) {
	users := newFakeUserRepo(&entity.User{ID: "alice", Chats: []entity.ChatRef{
		{ChatID: "c1", ChatType: entity.ChatTypeDirect, UnreadCount: 2},
		{ChatID: "g1", ChatType: entity.ChatTypeGroup, UnreadCount: 5},
	}})
	repo := newFakeRepository(users, nil, nil, nil)
	svc := newMessageService(repo)

	resp, err := svc.GetTotalUnreadCount(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, 7, resp.TotalUnread)
}
