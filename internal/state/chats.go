package state

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"telesim/pkg/botapi"
)

// ChatStore owns every chat and its message log, pinned set, forum topics,
// boosts, and per-sender slow-mode tracking. Chats are created on first
// reference and live for the process lifetime.
type ChatStore struct {
	mu        sync.Mutex
	clock     *Clock
	seq       *Sequence
	chats     map[int64]*chatRecord
	usernames map[string]int64
}

type chatRecord struct {
	chat     botapi.Chat
	messages map[int64]*botapi.Message
	order    []int64
	pinned   []int64
	topics   map[int64]*botapi.ForumTopic
	lastSend map[int64]time.Time
	boosts   map[string]*botapi.ChatBoost
}

// NewChatStore creates an empty chat store bound to the shared clock and
// sequencer.
func NewChatStore(clock *Clock, seq *Sequence) *ChatStore {
	return &ChatStore{
		clock:     clock,
		seq:       seq,
		chats:     make(map[int64]*chatRecord),
		usernames: make(map[string]int64),
	}
}

// GetOrCreate returns the chat with template.ID, creating it from the
// template on first reference.
func (s *ChatStore) GetOrCreate(template botapi.Chat) botapi.Chat {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := s.getOrCreateLocked(template)

	return record.chat
}

func (s *ChatStore) getOrCreateLocked(template botapi.Chat) *chatRecord {
	if record, exists := s.chats[template.ID]; exists {
		return record
	}

	if template.Type == "" {
		template.Type = botapi.ChatTypePrivate
	}
	if template.Permissions == nil && template.Type != botapi.ChatTypePrivate {
		permissions := botapi.DefaultChatPermissions()
		template.Permissions = &permissions
	}
	record := &chatRecord{
		chat:     template,
		messages: make(map[int64]*botapi.Message),
		topics:   make(map[int64]*botapi.ForumTopic),
		lastSend: make(map[int64]time.Time),
		boosts:   make(map[string]*botapi.ChatBoost),
	}
	if template.IsForum {
		record.topics[generalTopicID] = &botapi.ForumTopic{
			MessageThreadID: generalTopicID,
			Name:            "General",
			IsGeneral:       true,
		}
	}
	s.chats[template.ID] = record
	if template.Username != "" {
		s.usernames[strings.ToLower(template.Username)] = template.ID
	}

	return record
}

// Get returns a copy of the chat when it exists.
func (s *ChatStore) Get(chatID int64) (botapi.Chat, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.chats[chatID]
	if !exists {
		return botapi.Chat{}, false
	}

	return record.chat, true
}

// Resolve maps a wire chat reference (numeric or @username) to the chat.
func (s *ChatStore) Resolve(ref botapi.ChatID) (botapi.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if username, ok := ref.Username(); ok {
		chatID, found := s.usernames[strings.ToLower(strings.TrimPrefix(username, "@"))]
		if !found {
			return botapi.Chat{}, ErrChatNotFound
		}
		return s.chats[chatID].chat, nil
	}
	numeric, _ := ref.Numeric()
	record, exists := s.chats[numeric]
	if !exists {
		return botapi.Chat{}, ErrChatNotFound
	}

	return record.chat, nil
}

// Mutate applies fn to the chat under the store lock.
func (s *ChatStore) Mutate(chatID int64, fn func(*botapi.Chat)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.chats[chatID]
	if !exists {
		return ErrChatNotFound
	}
	fn(&record.chat)
	if record.chat.Username != "" {
		s.usernames[strings.ToLower(record.chat.Username)] = chatID
	}

	return nil
}

// StoreMessage assigns the next message id and appends the message to the
// chat log, recording the send instant for slow-mode accounting.
func (s *ChatStore) StoreMessage(chatID int64, message botapi.Message) (botapi.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.chats[chatID]
	if !exists {
		return botapi.Message{}, ErrChatNotFound
	}

	message.MessageID = s.seq.NextMessageID()
	message.Date = s.clock.Unix()
	stored := message
	record.messages[message.MessageID] = &stored
	record.order = append(record.order, message.MessageID)
	if message.From != nil {
		record.lastSend[message.From.ID] = s.clock.Now()
	}

	return message, nil
}

// Message returns a copy of one logged message.
func (s *ChatStore) Message(chatID, messageID int64) (botapi.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.chats[chatID]
	if !exists {
		return botapi.Message{}, ErrChatNotFound
	}
	message, found := record.messages[messageID]
	if !found {
		return botapi.Message{}, ErrMessageNotFound
	}

	return *message, nil
}

// Messages returns the chat log in send order.
func (s *ChatStore) Messages(chatID int64) []botapi.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.chats[chatID]
	if !exists {
		return nil
	}
	log := make([]botapi.Message, 0, len(record.order))
	for _, messageID := range record.order {
		if message, found := record.messages[messageID]; found {
			log = append(log, *message)
		}
	}

	return log
}

// UpdateMessage applies fn to a logged message and stamps the edit date.
func (s *ChatStore) UpdateMessage(chatID, messageID int64, fn func(*botapi.Message)) (botapi.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.chats[chatID]
	if !exists {
		return botapi.Message{}, ErrChatNotFound
	}
	message, found := record.messages[messageID]
	if !found {
		return botapi.Message{}, ErrMessageNotFound
	}
	fn(message)
	message.EditDate = s.clock.Unix()

	return *message, nil
}

// DeleteMessage removes a message from the log and the pinned set.
func (s *ChatStore) DeleteMessage(chatID, messageID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.chats[chatID]
	if !exists {
		return ErrChatNotFound
	}
	if _, found := record.messages[messageID]; !found {
		return ErrMessageNotFound
	}
	delete(record.messages, messageID)
	record.pinned = removeID(record.pinned, messageID)

	return nil
}

// Pin adds a message to the chat's pinned set; pinning is idempotent.
func (s *ChatStore) Pin(chatID, messageID int64) (botapi.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.chats[chatID]
	if !exists {
		return botapi.Message{}, ErrChatNotFound
	}
	message, found := record.messages[messageID]
	if !found {
		return botapi.Message{}, ErrMessageNotFound
	}
	for _, pinned := range record.pinned {
		if pinned == messageID {
			return *message, nil
		}
	}
	record.pinned = append(record.pinned, messageID)

	return *message, nil
}

// Unpin removes messageID from the pinned set. A zero messageID unpins the
// most recently pinned message, matching the wire semantics.
func (s *ChatStore) Unpin(chatID, messageID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.chats[chatID]
	if !exists {
		return ErrChatNotFound
	}
	if messageID == 0 {
		if len(record.pinned) == 0 {
			return nil
		}
		record.pinned = record.pinned[:len(record.pinned)-1]
		return nil
	}
	record.pinned = removeID(record.pinned, messageID)

	return nil
}

// UnpinAll clears the pinned set.
func (s *ChatStore) UnpinAll(chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.chats[chatID]
	if !exists {
		return ErrChatNotFound
	}
	record.pinned = nil

	return nil
}

// Pinned returns pinned messages, oldest pin first.
func (s *ChatStore) Pinned(chatID int64) []botapi.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.chats[chatID]
	if !exists {
		return nil
	}
	pinned := make([]botapi.Message, 0, len(record.pinned))
	for _, messageID := range record.pinned {
		if message, found := record.messages[messageID]; found {
			pinned = append(pinned, *message)
		}
	}

	return pinned
}

// SlowModeWait reports how long the sender must still wait before the chat's
// slow-mode delay permits another send. Exempt senders never wait.
func (s *ChatStore) SlowModeWait(chatID, senderID int64, exempt bool) (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.chats[chatID]
	if !exists || exempt || record.chat.SlowModeDelay <= 0 {
		return 0, false
	}
	last, sent := record.lastSend[senderID]
	if !sent {
		return 0, false
	}
	elapsed := s.clock.Now().Sub(last)
	delay := time.Duration(record.chat.SlowModeDelay) * time.Second
	if elapsed >= delay {
		return 0, false
	}

	return delay - elapsed, true
}

const generalTopicID int64 = 1

// CreateTopic opens a new forum topic in a forum chat.
func (s *ChatStore) CreateTopic(chatID int64, name string, iconColor int, iconEmojiID string) (botapi.ForumTopic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.chats[chatID]
	if !exists {
		return botapi.ForumTopic{}, ErrChatNotFound
	}
	topic := &botapi.ForumTopic{
		MessageThreadID:   s.seq.NextTopicID() + generalTopicID,
		Name:              name,
		IconColor:         iconColor,
		IconCustomEmojiID: iconEmojiID,
	}
	record.topics[topic.MessageThreadID] = topic

	return *topic, nil
}

// MutateTopic applies fn to one forum topic under the store lock.
func (s *ChatStore) MutateTopic(chatID, threadID int64, fn func(*botapi.ForumTopic)) (botapi.ForumTopic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.chats[chatID]
	if !exists {
		return botapi.ForumTopic{}, ErrChatNotFound
	}
	topic, found := record.topics[threadID]
	if !found {
		return botapi.ForumTopic{}, ErrTopicNotFound
	}
	fn(topic)

	return *topic, nil
}

// Topic returns a copy of one forum topic.
func (s *ChatStore) Topic(chatID, threadID int64) (botapi.ForumTopic, error) {
	return s.MutateTopic(chatID, threadID, func(*botapi.ForumTopic) {})
}

// DeleteTopic removes a topic together with every message in its thread.
func (s *ChatStore) DeleteTopic(chatID, threadID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.chats[chatID]
	if !exists {
		return ErrChatNotFound
	}
	if _, found := record.topics[threadID]; !found {
		return ErrTopicNotFound
	}
	delete(record.topics, threadID)
	for messageID, message := range record.messages {
		if message.MessageThreadID == threadID {
			delete(record.messages, messageID)
			record.pinned = removeID(record.pinned, messageID)
		}
	}

	return nil
}

// AddBoost registers a boost and returns it.
func (s *ChatStore) AddBoost(chatID int64, source botapi.User, duration time.Duration) (botapi.ChatBoost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.chats[chatID]
	if !exists {
		return botapi.ChatBoost{}, ErrChatNotFound
	}
	now := s.clock.Now()
	boost := &botapi.ChatBoost{
		BoostID:        uuid.NewString(),
		AddDate:        now.Unix(),
		ExpirationDate: now.Add(duration).Unix(),
		SourceUser:     &source,
	}
	record.boosts[boost.BoostID] = boost

	return *boost, nil
}

// RemoveBoost drops a boost by id, reporting whether it existed.
func (s *ChatStore) RemoveBoost(chatID int64, boostID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.chats[chatID]
	if !exists {
		return false
	}
	if _, found := record.boosts[boostID]; !found {
		return false
	}
	delete(record.boosts, boostID)

	return true
}

// Boosts returns active boosts ordered by add date.
func (s *ChatStore) Boosts(chatID int64) []botapi.ChatBoost {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.chats[chatID]
	if !exists {
		return nil
	}
	boosts := make([]botapi.ChatBoost, 0, len(record.boosts))
	for _, boost := range record.boosts {
		boosts = append(boosts, *boost)
	}
	sort.Slice(boosts, func(i, j int) bool { return boosts[i].AddDate < boosts[j].AddDate })

	return boosts
}

func removeID(ids []int64, target int64) []int64 {
	out := ids[:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}

	return out
}
