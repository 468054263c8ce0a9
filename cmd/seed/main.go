package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ClinkedIn/Backend-sub001/internal/config"
	"github.com/ClinkedIn/Backend-sub001/internal/entity"
	"github.com/ClinkedIn/Backend-sub001/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Seeds a development database with a handful of users, chats and messages.
// Every run builds fresh collections; nothing here is shared state, so the
// seeder can run repeatedly against an empty database.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.LoadAppConfig()
	db := config.NewMongoDatabase(cfg)
	defer func() {
		if err := db.Client().Disconnect(context.Background()); err != nil {
			slog.Error("Error closing database connection", "error", err)
		}
	}()

	ctx := context.Background()

	if err := repository.EnsureIndexes(ctx, db); err != nil {
		slog.Error("Failed to ensure indexes", "error", err)
		os.Exit(1)
	}

	repo := repository.NewRepository(db)

	users := buildUsers()
	chats, messages := buildConversations(users)

	for _, u := range users {
		if err := repo.User.Create(ctx, u); err != nil {
			slog.Error("Failed to seed user", "email", u.Email, "error", err)
			os.Exit(1)
		}
	}

	for _, c := range chats {
		if err := repo.DirectChat.Create(ctx, c); err != nil {
			slog.Error("Failed to seed direct chat", "chatID", c.ID, "error", err)
			os.Exit(1)
		}
		ref := entity.ChatRef{ChatID: c.ID, ChatType: entity.ChatTypeDirect}
		for _, memberID := range []string{c.FirstUser, c.SecondUser} {
			if err := repo.User.AddChatRef(ctx, memberID, ref); err != nil {
				slog.Error("Failed to attach chat reference", "userID", memberID, "error", err)
				os.Exit(1)
			}
		}
	}

	for _, m := range messages {
		if err := repo.Message.Create(ctx, m); err != nil {
			slog.Error("Failed to seed message", "messageID", m.ID, "error", err)
			os.Exit(1)
		}
		if err := repo.DirectChat.AppendMessage(ctx, m.ChatID, m.ID); err != nil {
			slog.Error("Failed to append message", "messageID", m.ID, "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Seed completed", "users", len(users), "chats", len(chats), "messages", len(messages))
}

func buildUsers() []*entity.User {
	profiles := []struct {
		first, last, headline string
	}{
		{"Amira", "Hassan", "Backend Engineer"},
		{"Omar", "Khaled", "Product Designer"},
		{"Lina", "Farouk", "Data Analyst"},
		{"Youssef", "Adel", "Engineering Manager"},
	}

	users := make([]*entity.User, 0, len(profiles))
	for i, p := range profiles {
		email := fmt.Sprintf("%s.%s@example.com", p.first, p.last)
		users = append(users, &entity.User{
			ID:           uuid.New().String(),
			FirstName:    p.first,
			LastName:     p.last,
			Email:        email,
			PasswordHash: mustHash(fmt.Sprintf("password%d", i+1)),
			Headline:     p.headline,
			Chats:        []entity.ChatRef{},
			BlockedUsers: []string{},
		})
	}
	return users
}

func buildConversations(users []*entity.User) ([]*entity.DirectChat, []*entity.Message) {
	if len(users) < 2 {
		return nil, nil
	}

	chat := &entity.DirectChat{
		ID:         uuid.New().String(),
		FirstUser:  users[0].ID,
		SecondUser: users[1].ID,
		Messages:   []string{},
	}

	lines := []struct {
		sender string
		text   string
	}{
		{users[0].ID, "Hey, did you see the new design review?"},
		{users[1].ID, "Yes! Leaving comments now."},
		{users[0].ID, "Great, let's sync tomorrow morning."},
	}

	messages := make([]*entity.Message, 0, len(lines))
	base := time.Now().UTC().Add(-1 * time.Hour)
	for i, line := range lines {
		messages = append(messages, &entity.Message{
			ID:          uuid.New().String(),
			Sender:      line.sender,
			ChatID:      chat.ID,
			Type:        entity.MessageTypeDirect,
			MessageText: line.text,
			ReadBy:      []string{},
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		})
	}

	return []*entity.DirectChat{chat}, messages
}

func mustHash(password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("Failed to hash password", "error", err)
		os.Exit(1)
	}
	return string(hash)
}
