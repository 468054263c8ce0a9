package repository

import (
	"context"
	"time"

	"github.com/ClinkedIn/Backend-sub001/internal/entity"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]*entity.User, error)
	Create(ctx context.Context, user *entity.User) error
	AddChatRef(ctx context.Context, userID string, ref entity.ChatRef) error
	IncrementUnread(ctx context.Context, userID, chatID string, chatType entity.ChatType) error
	DecrementUnread(ctx context.Context, userID, chatID string, chatType entity.ChatType, lastReadAt time.Time) error
	SetUnread(ctx context.Context, userID, chatID string, chatType entity.ChatType, value int, lastReadAt *time.Time) error
	TotalUnread(ctx context.Context, userID string) (int, error)
	AllUnreadTotals(ctx context.Context) (map[string]int, error)
	Block(ctx context.Context, userID, targetID string) error
	Unblock(ctx context.Context, userID, targetID string) error
}

type MongoUserRepository struct {
	coll *mongo.Collection
}

func NewMongoUserRepository(coll *mongo.Collection) *MongoUserRepository {
	return &MongoUserRepository{coll: coll}
}

func (r *MongoUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var user entity.User
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *MongoUserRepository) GetByIDs(ctx context.Context, ids []string) ([]*entity.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cursor, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []*entity.User
	for cursor.Next(ctx) {
		var user entity.User
		if err := cursor.Decode(&user); err != nil {
			return nil, err
		}
		users = append(users, &user)
	}
	return users, cursor.Err()
}

func (r *MongoUserRepository) Create(ctx context.Context, user *entity.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Chats == nil {
		user.Chats = []entity.ChatRef{}
	}
	if user.BlockedUsers == nil {
		user.BlockedUsers = []string{}
	}

	_, err := r.coll.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

// AddChatRef appends a bookkeeping entry unless one already exists for the
// (chatId, chatType) pair, in which case this is a no-op.
func (r *MongoUserRepository) AddChatRef(ctx context.Context, userID string, ref entity.ChatRef) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{
			"_id": userID,
			"chats": bson.M{"$not": bson.M{"$elemMatch": bson.M{
				"chatId":   ref.ChatID,
				"chatType": ref.ChatType,
			}}},
		},
		bson.M{
			"$push": bson.M{"chats": ref},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	return err
}

func (r *MongoUserRepository) IncrementUnread(ctx context.Context, userID, chatID string, chatType entity.ChatType) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{
			"_id":   userID,
			"chats": bson.M{"$elemMatch": bson.M{"chatId": chatID, "chatType": chatType}},
		},
		bson.M{"$inc": bson.M{"chats.$.unreadCount": 1}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}

	return r.AddChatRef(ctx, userID, entity.ChatRef{
		ChatID:      chatID,
		ChatType:    chatType,
		UnreadCount: 1,
	})
}

func (r *MongoUserRepository) DecrementUnread(ctx context.Context, userID, chatID string, chatType entity.ChatType, lastReadAt time.Time) error {
	// Floor at zero: only entries with a positive counter are decremented.
	res, err := r.coll.UpdateOne(ctx,
		bson.M{
			"_id": userID,
			"chats": bson.M{"$elemMatch": bson.M{
				"chatId":      chatID,
				"chatType":    chatType,
				"unreadCount": bson.M{"$gt": 0},
			}},
		},
		bson.M{
			"$inc": bson.M{"chats.$.unreadCount": -1},
			"$set": bson.M{"chats.$.lastReadAt": lastReadAt},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}

	// The counter was already zero. The read still happened, so the
	// timestamp is stamped regardless.
	_, err = r.coll.UpdateOne(ctx,
		bson.M{
			"_id":   userID,
			"chats": bson.M{"$elemMatch": bson.M{"chatId": chatID, "chatType": chatType}},
		},
		bson.M{"$set": bson.M{"chats.$.lastReadAt": lastReadAt}},
	)
	return err
}

func (r *MongoUserRepository) SetUnread(ctx context.Context, userID, chatID string, chatType entity.ChatType, value int, lastReadAt *time.Time) error {
	set := bson.M{"chats.$.unreadCount": value}
	if lastReadAt != nil {
		set["chats.$.lastReadAt"] = *lastReadAt
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{
			"_id":   userID,
			"chats": bson.M{"$elemMatch": bson.M{"chatId": chatID, "chatType": chatType}},
		},
		bson.M{"$set": set},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoUserRepository) TotalUnread(ctx context.Context, userID string) (int, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"_id": userID}}},
		bson.D{{Key: "$unwind", Value: "$chats"}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$chats.unreadCount"},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var result struct {
		Total int `bson:"total"`
	}
	if cursor.Next(ctx) {
		if err := cursor.Decode(&result); err != nil {
			return 0, err
		}
	}
	return result.Total, cursor.Err()
}

func (r *MongoUserRepository) AllUnreadTotals(ctx context.Context) (map[string]int, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$unwind", Value: "$chats"}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   "$_id",
			"total": bson.M{"$sum": "$chats.unreadCount"},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline, options.Aggregate())
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	totals := make(map[string]int)
	for cursor.Next(ctx) {
		var row struct {
			ID    string `bson:"_id"`
			Total int    `bson:"total"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		totals[row.ID] = row.Total
	}
	return totals, cursor.Err()
}

func (r *MongoUserRepository) Block(ctx context.Context, userID, targetID string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$addToSet": bson.M{"blockedUsers": targetID},
			"$set":      bson.M{"updatedAt": time.Now().UTC()},
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

func (r *MongoUserRepository) Unblock(ctx context.Context, userID, targetID string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$pull": bson.M{"blockedUsers": targetID},
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
