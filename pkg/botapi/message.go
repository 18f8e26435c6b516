package botapi

// EntityType identifies one formatting/semantic annotation class.
type EntityType string

const (
	// EntityTypeBold marks bold text.
	EntityTypeBold EntityType = "bold"
	// EntityTypeItalic marks italic text.
	EntityTypeItalic EntityType = "italic"
	// EntityTypeUnderline marks underlined text.
	EntityTypeUnderline EntityType = "underline"
	// EntityTypeStrikethrough marks struck-through text.
	EntityTypeStrikethrough EntityType = "strikethrough"
	// EntityTypeSpoiler marks spoiler-hidden text.
	EntityTypeSpoiler EntityType = "spoiler"
	// EntityTypeCode marks inline monospace text.
	EntityTypeCode EntityType = "code"
	// EntityTypePre marks a monospace block, optionally with a language tag.
	EntityTypePre EntityType = "pre"
	// EntityTypeTextLink marks text that links to a URL.
	EntityTypeTextLink EntityType = "text_link"
	// EntityTypeTextMention marks text that mentions a user without username.
	EntityTypeTextMention EntityType = "text_mention"
	// EntityTypeMention marks an @username mention.
	EntityTypeMention EntityType = "mention"
	// EntityTypeCustomEmoji marks a custom emoji placeholder.
	EntityTypeCustomEmoji EntityType = "custom_emoji"
	// EntityTypeBlockquote marks a block quotation.
	EntityTypeBlockquote EntityType = "blockquote"
)

// MessageEntity is a span over plain text in UTF-16 code units.
type MessageEntity struct {
	Type          EntityType `json:"type"`
	Offset        int        `json:"offset"`
	Length        int        `json:"length"`
	URL           string     `json:"url,omitempty"`
	User          *User      `json:"user,omitempty"`
	Language      string     `json:"language,omitempty"`
	CustomEmojiID string     `json:"custom_emoji_id,omitempty"`
}

// Message mirrors the platform message object. The id/date/from/chat core is
// immutable after creation; text, caption, markup, and pin state are overlay
// fields the simulation mutates in place.
type Message struct {
	MessageID       int64           `json:"message_id"`
	MessageThreadID int64           `json:"message_thread_id,omitempty"`
	From            *User           `json:"from,omitempty"`
	SenderChat      *Chat           `json:"sender_chat,omitempty"`
	Date            int64           `json:"date"`
	Chat            *Chat           `json:"chat"`
	ForwardOrigin   *MessageOrigin  `json:"forward_origin,omitempty"`
	ReplyToMessage  *Message        `json:"reply_to_message,omitempty"`
	EditDate        int64           `json:"edit_date,omitempty"`
	BusinessConnectionID string     `json:"business_connection_id,omitempty"`
	Text            string          `json:"text,omitempty"`
	Entities        []MessageEntity `json:"entities,omitempty"`
	Caption         string          `json:"caption,omitempty"`
	CaptionEntities []MessageEntity `json:"caption_entities,omitempty"`
	Photo           []PhotoSize     `json:"photo,omitempty"`
	Document        *Document       `json:"document,omitempty"`
	Audio           *Audio          `json:"audio,omitempty"`
	Video           *Video          `json:"video,omitempty"`
	Voice           *Voice          `json:"voice,omitempty"`
	Animation       *Animation      `json:"animation,omitempty"`
	Sticker         *Sticker        `json:"sticker,omitempty"`
	Location        *Location       `json:"location,omitempty"`
	Venue           *Venue          `json:"venue,omitempty"`
	Contact         *Contact        `json:"contact,omitempty"`
	Dice            *Dice           `json:"dice,omitempty"`
	Poll            *Poll           `json:"poll,omitempty"`
	Invoice         *Invoice        `json:"invoice,omitempty"`
	SuccessfulPayment *SuccessfulPayment `json:"successful_payment,omitempty"`
	PassportData    *PassportData   `json:"passport_data,omitempty"`
	NewChatMembers  []User          `json:"new_chat_members,omitempty"`
	LeftChatMember  *User           `json:"left_chat_member,omitempty"`
	PinnedMessage   *Message        `json:"pinned_message,omitempty"`
	ReplyMarkup     *InlineKeyboardMarkup `json:"reply_markup,omitempty"`
	IsTopicMessage  bool            `json:"is_topic_message,omitempty"`
	HasProtectedContent bool        `json:"has_protected_content,omitempty"`
}

// MessageOrigin records where a forwarded message came from.
type MessageOrigin struct {
	Type            string `json:"type"`
	Date            int64  `json:"date"`
	SenderUser      *User  `json:"sender_user,omitempty"`
	SenderChat      *Chat  `json:"sender_chat,omitempty"`
	MessageID       int64  `json:"message_id,omitempty"`
}

// MessageID is the bare identifier envelope copyMessage returns.
type MessageID struct {
	MessageID int64 `json:"message_id"`
}

// InlineKeyboardMarkup is an inline keyboard attached to a message.
type InlineKeyboardMarkup struct {
	InlineKeyboard [][]InlineKeyboardButton `json:"inline_keyboard"`
}

// InlineKeyboardButton is one inline keyboard button.
type InlineKeyboardButton struct {
	Text         string `json:"text"`
	URL          string `json:"url,omitempty"`
	CallbackData string `json:"callback_data,omitempty"`
	Pay          bool   `json:"pay,omitempty"`
}

// ReactionType identifies one reaction token.
type ReactionType struct {
	Type          string `json:"type"`
	Emoji         string `json:"emoji,omitempty"`
	CustomEmojiID string `json:"custom_emoji_id,omitempty"`
}

// MessageReactionUpdated is the message_reaction update payload.
type MessageReactionUpdated struct {
	Chat        *Chat          `json:"chat"`
	MessageID   int64          `json:"message_id"`
	User        *User          `json:"user,omitempty"`
	Date        int64          `json:"date"`
	OldReaction []ReactionType `json:"old_reaction"`
	NewReaction []ReactionType `json:"new_reaction"`
}

// Location is a point on the map.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Venue is a named location.
type Venue struct {
	Location *Location `json:"location"`
	Title    string    `json:"title"`
	Address  string    `json:"address"`
}

// Contact is a shared phone contact.
type Contact struct {
	PhoneNumber string `json:"phone_number"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name,omitempty"`
	UserID      int64  `json:"user_id,omitempty"`
}

// Dice is an animated die result.
type Dice struct {
	Emoji string `json:"emoji"`
	Value int    `json:"value"`
}
