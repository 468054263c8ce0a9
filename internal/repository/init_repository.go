package repository

import (
	"context"
	"errors"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

const (
	collectionUsers       = "users"
	collectionDirectChats = "direct_chats"
	collectionChatGroups  = "chat_groups"
	collectionMessages    = "messages"
)

type Repository struct {
	User       UserRepository
	DirectChat DirectChatRepository
	ChatGroup  ChatGroupRepository
	Message    MessageRepository
}

func NewRepository(db *mongo.Database) *Repository {
	return &Repository{
		User:       NewMongoUserRepository(db.Collection(collectionUsers)),
		DirectChat: NewMongoDirectChatRepository(db.Collection(collectionDirectChats)),
		ChatGroup:  NewMongoChatGroupRepository(db.Collection(collectionChatGroups)),
		Message:    NewMongoMessageRepository(db.Collection(collectionMessages)),
	}
}

// EnsureIndexes creates the indexes the chat subsystem relies on. The unique
// pairKey index is what makes direct-chat find-or-create converge under
// concurrent creates.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(collectionDirectChats).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "pairKey", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("pair_key_unique"),
	})
	if err != nil {
		return err
	}

	_, err = db.Collection(collectionChatGroups).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetName("group_name_idx"),
	})
	if err != nil {
		return err
	}

	_, err = db.Collection(collectionMessages).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "chatId", Value: 1}, {Key: "createdAt", Value: 1}},
		Options: options.Index().SetName("chat_created_idx"),
	})
	if err != nil {
		return err
	}

	slog.Info("Database indexes ensured")
	return nil
}
