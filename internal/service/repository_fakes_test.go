package service

import (
	"context"
	"time"

	"github.com/ClinkedIn/Backend-sub001/internal/entity"
	"github.com/ClinkedIn/Backend-sub001/internal/repository"
)

// In-memory repository implementations backing the service tests. They keep
// the same error contract as the Mongo implementations: ErrNotFound for
// missing documents, ErrDuplicate for unique index violations.

type fakeUserRepo struct {
	users map[string]*entity.User
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[string]*entity.User{}}
	for _, u := range users {
		if u.Chats == nil {
			u.Chats = []entity.ChatRef{}
		}
		if u.BlockedUsers == nil {
			u.BlockedUsers = []string{}
		}
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByIDs(ctx context.Context, ids []string) ([]*entity.User, error) {
	var out []*entity.User
	seen := map[string]bool{}
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if u, ok := r.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	if _, ok := r.users[user.ID]; ok {
		return repository.ErrDuplicate
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) AddChatRef(ctx context.Context, userID string, ref entity.ChatRef) error {
	u, ok := r.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	if u.ChatRefFor(ref.ChatID, ref.ChatType) != nil {
		return nil
	}
	u.Chats = append(u.Chats, ref)
	return nil
}

func (r *fakeUserRepo) IncrementUnread(ctx context.Context, userID, chatID string, chatType entity.ChatType) error {
	u, ok := r.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	if ref := u.ChatRefFor(chatID, chatType); ref != nil {
		ref.UnreadCount++
		return nil
	}
	u.Chats = append(u.Chats, entity.ChatRef{ChatID: chatID, ChatType: chatType, UnreadCount: 1})
	return nil
}

func (r *fakeUserRepo) DecrementUnread(ctx context.Context, userID, chatID string, chatType entity.ChatType, lastReadAt time.Time) error {
	u, ok := r.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	if ref := u.ChatRefFor(chatID, chatType); ref != nil {
		if ref.UnreadCount > 0 {
			ref.UnreadCount--
		}
		t := lastReadAt
		ref.LastReadAt = &t
	}
	return nil
}

func (r *fakeUserRepo) SetUnread(ctx context.Context, userID, chatID string, chatType entity.ChatType, value int, lastReadAt *time.Time) error {
	u, ok := r.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	ref := u.ChatRefFor(chatID, chatType)
	if ref == nil {
		return repository.ErrNotFound
	}
	ref.UnreadCount = value
	if lastReadAt != nil {
		t := *lastReadAt
		ref.LastReadAt = &t
	}
	return nil
}

func (r *fakeUserRepo) TotalUnread(ctx context.Context, userID string) (int, error) {
	u, ok := r.users[userID]
	if !ok {
		return 0, repository.ErrNotFound
	}
	return u.TotalUnread(), nil
}

func (r *fakeUserRepo) AllUnreadTotals(ctx context.Context) (map[string]int, error) {
	out := map[string]int{}
	for id, u := range r.users {
		out[id] = u.TotalUnread()
	}
	return out, nil
}

func (r *fakeUserRepo) Block(ctx context.Context, userID, targetID string) error {
	u, ok := r.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	if !u.HasBlocked(targetID) {
		u.BlockedUsers = append(u.BlockedUsers, targetID)
	}
	return nil
}

func (r *fakeUserRepo) Unblock(ctx context.Context, userID, targetID string) error {
	u, ok := r.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	out := u.BlockedUsers[:0]
	for _, id := range u.BlockedUsers {
		if id != targetID {
			out = append(out, id)
		}
	}
	u.BlockedUsers = out
	return nil
}

type fakeDirectChatRepo struct {
	chats map[string]*entity.DirectChat
}

func newFakeDirectChatRepo(chats ...*entity.DirectChat) *fakeDirectChatRepo {
	r := &fakeDirectChatRepo{chats: map[string]*entity.DirectChat{}}
	for _, c := range chats {
		if c.PairKey == "" {
			c.PairKey = entity.PairKey(c.FirstUser, c.SecondUser)
		}
		if c.Messages == nil {
			c.Messages = []string{}
		}
		r.chats[c.ID] = c
	}
	return r
}

func (r *fakeDirectChatRepo) GetByID(ctx context.Context, id string) (*entity.DirectChat, error) {
	c, ok := r.chats[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return c, nil
}

func (r *fakeDirectChatRepo) GetByIDs(ctx context.Context, ids []string) ([]*entity.DirectChat, error) {
	var out []*entity.DirectChat
	for _, id := range ids {
		if c, ok := r.chats[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeDirectChatRepo) FindByPair(ctx context.Context, userA, userB string) (*entity.DirectChat, error) {
	key := entity.PairKey(userA, userB)
	for _, c := range r.chats {
		if c.PairKey == key {
			return c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeDirectChatRepo) Create(ctx context.Context, chat *entity.DirectChat) error {
	chat.PairKey = entity.PairKey(chat.FirstUser, chat.SecondUser)
	for _, c := range r.chats {
		if c.PairKey == chat.PairKey {
			return repository.ErrDuplicate
		}
	}
	now := time.Now().UTC()
	chat.CreatedAt = now
	chat.UpdatedAt = now
	r.chats[chat.ID] = chat
	return nil
}

func (r *fakeDirectChatRepo) AppendMessage(ctx context.Context, chatID, messageID string) error {
	c, ok := r.chats[chatID]
	if !ok {
		return repository.ErrNotFound
	}
	c.Messages = append(c.Messages, messageID)
	c.UpdatedAt = time.Now().UTC()
	return nil
}

type fakeChatGroupRepo struct {
	groups map[string]*entity.ChatGroup
}

func newFakeChatGroupRepo(groups ...*entity.ChatGroup) *fakeChatGroupRepo {
	r := &fakeChatGroupRepo{groups: map[string]*entity.ChatGroup{}}
	for _, g := range groups {
		if g.Messages == nil {
			g.Messages = []string{}
		}
		r.groups[g.ID] = g
	}
	return r
}

func (r *fakeChatGroupRepo) GetByID(ctx context.Context, id string) (*entity.ChatGroup, error) {
	g, ok := r.groups[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return g, nil
}

func (r *fakeChatGroupRepo) GetByIDs(ctx context.Context, ids []string) ([]*entity.ChatGroup, error) {
	var out []*entity.ChatGroup
	for _, id := range ids {
		if g, ok := r.groups[id]; ok {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *fakeChatGroupRepo) FindActiveByName(ctx context.Context, name string) (*entity.ChatGroup, error) {
	for _, g := range r.groups {
		if g.Name == name && g.IsActive {
			return g, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeChatGroupRepo) Create(ctx context.Context, group *entity.ChatGroup) error {
	if _, ok := r.groups[group.ID]; ok {
		return repository.ErrDuplicate
	}
	now := time.Now().UTC()
	group.CreatedAt = now
	group.UpdatedAt = now
	r.groups[group.ID] = group
	return nil
}

func (r *fakeChatGroupRepo) AppendMessage(ctx context.Context, groupID, messageID string) error {
	g, ok := r.groups[groupID]
	if !ok {
		return repository.ErrNotFound
	}
	g.Messages = append(g.Messages, messageID)
	g.UpdatedAt = time.Now().UTC()
	return nil
}

type fakeMessageRepo struct {
	messages map[string]*entity.Message
}

func newFakeMessageRepo(messages ...*entity.Message) *fakeMessageRepo {
	r := &fakeMessageRepo{messages: map[string]*entity.Message{}}
	for _, m := range messages {
		if m.ReadBy == nil {
			m.ReadBy = []string{}
		}
		r.messages[m.ID] = m
	}
	return r
}

func (r *fakeMessageRepo) GetByID(ctx context.Context, id string) (*entity.Message, error) {
	m, ok := r.messages[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return m, nil
}

func (r *fakeMessageRepo) GetByIDs(ctx context.Context, ids []string) ([]*entity.Message, error) {
	var out []*entity.Message
	for _, id := range ids {
		if m, ok := r.messages[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) Create(ctx context.Context, message *entity.Message) error {
	if _, ok := r.messages[message.ID]; ok {
		return repository.ErrDuplicate
	}
	now := time.Now().UTC()
	if message.CreatedAt.IsZero() {
		message.CreatedAt = now
	}
	message.UpdatedAt = now
	if message.ReadBy == nil {
		message.ReadBy = []string{}
	}
	r.messages[message.ID] = message
	return nil
}

func (r *fakeMessageRepo) UpdateText(ctx context.Context, id, text string) error {
	m, ok := r.messages[id]
	if !ok {
		return repository.ErrNotFound
	}
	m.MessageText = text
	m.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *fakeMessageRepo) SoftDelete(ctx context.Context, id string) error {
	m, ok := r.messages[id]
	if !ok {
		return repository.ErrNotFound
	}
	m.IsDeleted = true
	m.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *fakeMessageRepo) AddReadBy(ctx context.Context, id, userID string) error {
	m, ok := r.messages[id]
	if !ok {
		return repository.ErrNotFound
	}
	if !m.ReadByUser(userID) {
		m.ReadBy = append(m.ReadBy, userID)
	}
	return nil
}

func (r *fakeMessageRepo) MarkManyRead(ctx context.Context, ids []string, userID string) error {
	for _, id := range ids {
		if m, ok := r.messages[id]; ok && !m.ReadByUser(userID) {
			m.ReadBy = append(m.ReadBy, userID)
		}
	}
	return nil
}

func newFakeRepository(users *fakeUserRepo, direct *fakeDirectChatRepo, groups *fakeChatGroupRepo, messages *fakeMessageRepo) *repository.Repository {
	if users == nil {
		users = newFakeUserRepo()
	}
	if direct == nil {
		direct = newFakeDirectChatRepo()
	}
	if groups == nil {
		groups = newFakeChatGroupRepo()
	}
	if messages == nil {
		messages = newFakeMessageRepo()
	}
	return &repository.Repository{
		User:       users,
		DirectChat: direct,
		ChatGroup:  groups,
		Message:    messages,
	}
}
