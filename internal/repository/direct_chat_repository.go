package repository

import (
	"context"
	"time"

	"github.com/ClinkedIn/Backend-sub001/internal/entity"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type DirectChatRepository interface {
	GetByID(ctx context.Context, id string) (*entity.DirectChat, error)
	GetByIDs(ctx context.Context, ids []string) ([]*entity.DirectChat, error)
	FindByPair(ctx context.Context, userA, userB string) (*entity.DirectChat, error)
	Create(ctx context.Context, chat *entity.DirectChat) error
	AppendMessage(ctx context.Context, chatID, messageID string) error
}

type MongoDirectChatRepository struct {
	coll *mongo.Collection
}

func NewMongoDirectChatRepository(coll *mongo.Collection) *MongoDirectChatRepository {
	return &MongoDirectChatRepository{coll: coll}
}

func (r *MongoDirectChatRepository) GetByID(ctx context.Context, id string) (*entity.DirectChat, error) {
	var chat entity.DirectChat
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&chat); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &chat, nil
}

func (r *MongoDirectChatRepository) GetByIDs(ctx context.Context, ids []string) ([]*entity.DirectChat, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cursor, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var chats []*entity.DirectChat
	for cursor.Next(ctx) {
		var chat entity.DirectChat
		if err := cursor.Decode(&chat); err != nil {
			return nil, err
		}
		chats = append(chats, &chat)
	}
	return chats, cursor.Err()
}

func (r *MongoDirectChatRepository) FindByPair(ctx context.Context, userA, userB string) (*entity.DirectChat, error) {
	var chat entity.DirectChat
	err := r.coll.FindOne(ctx, bson.M{"pairKey": entity.PairKey(userA, userB)}).Decode(&chat)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &chat, nil
}

func (r *MongoDirectChatRepository) Create(ctx context.Context, chat *entity.DirectChat) error {
	now := time.Now().UTC()
	chat.CreatedAt = now
	chat.UpdatedAt = now
	chat.PairKey = entity.PairKey(chat.FirstUser, chat.SecondUser)
	if chat.Messages == nil {
		chat.Messages = []string{}
	}

	_, err := r.coll.InsertOne(ctx, chat)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (r *MongoDirectChatRepository) AppendMessage(ctx context.Context, chatID, messageID string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": chatID},
		bson.M{
			"$push": bson.M{"messages": messageID},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
