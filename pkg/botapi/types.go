package botapi

// ChatType identifies chat scope.
type ChatType string

const (
	// ChatTypePrivate is a direct conversation with one user.
	ChatTypePrivate ChatType = "private"
	// ChatTypeGroup is a basic group.
	ChatTypeGroup ChatType = "group"
	// ChatTypeSupergroup is a large group with extended management features.
	ChatTypeSupergroup ChatType = "supergroup"
	// ChatTypeChannel is a broadcast channel.
	ChatTypeChannel ChatType = "channel"
)

// IsGroupLike reports whether the type has shared membership semantics.
func (t ChatType) IsGroupLike() bool {
	return t == ChatTypeGroup || t == ChatTypeSupergroup
}

// User mirrors the platform user object.
type User struct {
	ID                      int64  `json:"id"`
	IsBot                   bool   `json:"is_bot"`
	FirstName               string `json:"first_name"`
	LastName                string `json:"last_name,omitempty"`
	Username                string `json:"username,omitempty"`
	LanguageCode            string `json:"language_code,omitempty"`
	IsPremium               bool   `json:"is_premium,omitempty"`
	CanJoinGroups           bool   `json:"can_join_groups,omitempty"`
	CanReadAllGroupMessages bool   `json:"can_read_all_group_messages,omitempty"`
	SupportsInlineQueries   bool   `json:"supports_inline_queries,omitempty"`
}

// Chat mirrors the platform chat object, including full-info fields the
// simulation returns from getChat.
type Chat struct {
	ID                int64            `json:"id"`
	Type              ChatType         `json:"type"`
	Title             string           `json:"title,omitempty"`
	Username          string           `json:"username,omitempty"`
	FirstName         string           `json:"first_name,omitempty"`
	LastName          string           `json:"last_name,omitempty"`
	IsForum           bool             `json:"is_forum,omitempty"`
	Description       string           `json:"description,omitempty"`
	InviteLink        string           `json:"invite_link,omitempty"`
	PinnedMessage     *Message         `json:"pinned_message,omitempty"`
	Permissions       *ChatPermissions `json:"permissions,omitempty"`
	SlowModeDelay     int              `json:"slow_mode_delay,omitempty"`
	HasProtectedContent bool           `json:"has_protected_content,omitempty"`
	HasPhoto          bool             `json:"-"`
}

// ChatPermissions is the member permission bitset for non-admin members.
type ChatPermissions struct {
	CanSendMessages       bool `json:"can_send_messages,omitempty"`
	CanSendAudios         bool `json:"can_send_audios,omitempty"`
	CanSendDocuments      bool `json:"can_send_documents,omitempty"`
	CanSendPhotos         bool `json:"can_send_photos,omitempty"`
	CanSendVideos         bool `json:"can_send_videos,omitempty"`
	CanSendVideoNotes     bool `json:"can_send_video_notes,omitempty"`
	CanSendVoiceNotes     bool `json:"can_send_voice_notes,omitempty"`
	CanSendPolls          bool `json:"can_send_polls,omitempty"`
	CanSendOtherMessages  bool `json:"can_send_other_messages,omitempty"`
	CanAddWebPagePreviews bool `json:"can_add_web_page_previews,omitempty"`
	CanChangeInfo         bool `json:"can_change_info,omitempty"`
	CanInviteUsers        bool `json:"can_invite_users,omitempty"`
	CanPinMessages        bool `json:"can_pin_messages,omitempty"`
	CanManageTopics       bool `json:"can_manage_topics,omitempty"`
}

// DefaultChatPermissions returns the open defaults new simulated chats use.
func DefaultChatPermissions() ChatPermissions {
	return ChatPermissions{
		CanSendMessages:       true,
		CanSendAudios:         true,
		CanSendDocuments:      true,
		CanSendPhotos:         true,
		CanSendVideos:         true,
		CanSendVideoNotes:     true,
		CanSendVoiceNotes:     true,
		CanSendPolls:          true,
		CanSendOtherMessages:  true,
		CanAddWebPagePreviews: true,
		CanChangeInfo:         true,
		CanInviteUsers:        true,
		CanPinMessages:        true,
		CanManageTopics:       true,
	}
}

// ChatAdministratorRights is the administrator rights bitset.
type ChatAdministratorRights struct {
	IsAnonymous         bool `json:"is_anonymous"`
	CanManageChat       bool `json:"can_manage_chat"`
	CanDeleteMessages   bool `json:"can_delete_messages"`
	CanManageVideoChats bool `json:"can_manage_video_chats"`
	CanRestrictMembers  bool `json:"can_restrict_members"`
	CanPromoteMembers   bool `json:"can_promote_members"`
	CanChangeInfo       bool `json:"can_change_info"`
	CanInviteUsers      bool `json:"can_invite_users"`
	CanPostMessages     bool `json:"can_post_messages,omitempty"`
	CanEditMessages     bool `json:"can_edit_messages,omitempty"`
	CanPinMessages      bool `json:"can_pin_messages,omitempty"`
	CanManageTopics     bool `json:"can_manage_topics,omitempty"`
	CanPostStories      bool `json:"can_post_stories,omitempty"`
	CanEditStories      bool `json:"can_edit_stories,omitempty"`
	CanDeleteStories    bool `json:"can_delete_stories,omitempty"`
}

// MemberStatus identifies membership state.
type MemberStatus string

const (
	// MemberStatusCreator is the chat owner.
	MemberStatusCreator MemberStatus = "creator"
	// MemberStatusAdministrator is a promoted member with a rights bitset.
	MemberStatusAdministrator MemberStatus = "administrator"
	// MemberStatusMember is a plain member.
	MemberStatusMember MemberStatus = "member"
	// MemberStatusRestricted is a member under a permission override.
	MemberStatusRestricted MemberStatus = "restricted"
	// MemberStatusLeft is a former member.
	MemberStatusLeft MemberStatus = "left"
	// MemberStatusKicked is a banned user.
	MemberStatusKicked MemberStatus = "kicked"
)

// ChatMember is the flattened membership record the platform returns.
type ChatMember struct {
	Status      MemberStatus             `json:"status"`
	User        *User                    `json:"user"`
	CustomTitle string                   `json:"custom_title,omitempty"`
	IsMember    bool                     `json:"is_member,omitempty"`
	UntilDate   int64                    `json:"until_date,omitempty"`
	Rights      *ChatAdministratorRights `json:"-"`
	Permissions *ChatPermissions         `json:"-"`
}

// ChatMemberUpdated is the chat_member update payload.
type ChatMemberUpdated struct {
	Chat          *Chat           `json:"chat"`
	From          *User           `json:"from"`
	Date          int64           `json:"date"`
	OldChatMember *ChatMember     `json:"old_chat_member"`
	NewChatMember *ChatMember     `json:"new_chat_member"`
	InviteLink    *ChatInviteLink `json:"invite_link,omitempty"`
}

// ForumTopic mirrors the platform forum topic object.
type ForumTopic struct {
	MessageThreadID   int64  `json:"message_thread_id"`
	Name              string `json:"name"`
	IconColor         int    `json:"icon_color"`
	IconCustomEmojiID string `json:"icon_custom_emoji_id,omitempty"`
	IsClosed          bool   `json:"-"`
	IsHidden          bool   `json:"-"`
	IsGeneral         bool   `json:"-"`
}

// BotCommand is one command listing entry.
type BotCommand struct {
	Command     string `json:"command"`
	Description string `json:"description"`
}

// BotCommandScope selects which chats a command list applies to.
type BotCommandScope struct {
	Type   string `json:"type"`
	ChatID ChatID `json:"chat_id,omitempty"`
	UserID int64  `json:"user_id,omitempty"`
}

// MenuButton is the chat menu button configuration.
type MenuButton struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
	URL  string `json:"url,omitempty"`
}

// ChatBoost describes one active boost on a chat.
type ChatBoost struct {
	BoostID        string `json:"boost_id"`
	AddDate        int64  `json:"add_date"`
	ExpirationDate int64  `json:"expiration_date"`
	SourceUser     *User  `json:"-"`
}

// ChatBoostUpdated is the chat_boost update payload.
type ChatBoostUpdated struct {
	Chat  *Chat      `json:"chat"`
	Boost *ChatBoost `json:"boost"`
}

// ChatBoostRemoved is the removed_chat_boost update payload.
type ChatBoostRemoved struct {
	Chat       *Chat  `json:"chat"`
	BoostID    string `json:"boost_id"`
	RemoveDate int64  `json:"remove_date"`
}
