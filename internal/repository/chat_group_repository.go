package repository

import (
	"context"
	"time"

	"github.com/ClinkedIn/Backend-sub001/internal/entity"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type ChatGroupRepository interface {
	GetByID(ctx context.Context, id string) (*entity.ChatGroup, error)
	GetByIDs(ctx context.Context, ids []string) ([]*entity.ChatGroup, error)
	FindActiveByName(ctx context.Context, name string) (*entity.ChatGroup, error)
	Create(ctx context.Context, group *entity.ChatGroup) error
	AppendMessage(ctx context.Context, groupID, messageID string) error
}

type MongoChatGroupRepository struct {
	coll *mongo.Collection
}

func NewMongoChatGroupRepository(coll *mongo.Collection) *MongoChatGroupRepository {
	return &MongoChatGroupRepository{coll: coll}
}

func (r *MongoChatGroupRepository) GetByID(ctx context.Context, id string) (*entity.ChatGroup, error) {
	var group entity.ChatGroup
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&group); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &group, nil
}

func (r *MongoChatGroupRepository) GetByIDs(ctx context.Context, ids []string) ([]*entity.ChatGroup, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cursor, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var groups []*entity.ChatGroup
	for cursor.Next(ctx) {
		var group entity.ChatGroup
		if err := cursor.Decode(&group); err != nil {
			return nil, err
		}
		groups = append(groups, &group)
	}
	return groups, cursor.Err()
}

func (r *MongoChatGroupRepository) FindActiveByName(ctx context.Context, name string) (*entity.ChatGroup, error) {
	var group entity.ChatGroup
	err := r.coll.FindOne(ctx, bson.M{"name": name, "isActive": true}).Decode(&group)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &group, nil
}

func (r *MongoChatGroupRepository) Create(ctx context.Context, group *entity.ChatGroup) error {
	now := time.Now().UTC()
	group.CreatedAt = now
	group.UpdatedAt = now
	if group.Messages == nil {
		group.Messages = []string{}
	}

	_, err := r.coll.InsertOne(ctx, group)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (r *MongoChatGroupRepository) AppendMessage(ctx context.Context, groupID, messageID string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": groupID},
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
