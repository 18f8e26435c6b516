package botapi

// Validation limits mirrored from the real platform. All numeric boundaries
// are inclusive: a value equal to the limit is accepted.
const (
	// MaxTextLength is the maximum message text length in characters.
	MaxTextLength = 4096
	// MaxCaptionLength is the maximum media caption length in characters.
	MaxCaptionLength = 1024
	// MaxPollQuestionLength is the maximum poll question length.
	MaxPollQuestionLength = 300
	// MaxPollOptionLength is the maximum length of a single poll option.
	MaxPollOptionLength = 100
	// MinPollOptions is the minimum number of poll options.
	MinPollOptions = 2
	// MaxPollOptions is the maximum number of poll options.
	MaxPollOptions = 10
	// MaxPollExplanationLength is the maximum quiz explanation length.
	MaxPollExplanationLength = 200
	// MaxPollOpenPeriod is the maximum poll open period in seconds.
	MaxPollOpenPeriod = 600
	// MinPollOpenPeriod is the minimum poll open period in seconds.
	MinPollOpenPeriod = 5
	// MaxBotNameLength is the maximum bot display name length.
	MaxBotNameLength = 64
	// MaxBotDescriptionLength is the maximum bot description length.
	MaxBotDescriptionLength = 512
	// MaxBotShortDescriptionLength is the maximum bot short description length.
	MaxBotShortDescriptionLength = 120
	// MaxPhotoSizeBytes is the maximum accepted photo upload size.
	MaxPhotoSizeBytes = 10 << 20
	// MaxMediaSizeBytes is the maximum accepted non-photo media upload size.
	MaxMediaSizeBytes = 50 << 20
	// MaxStickerSizeBytes is the maximum accepted sticker upload size.
	MaxStickerSizeBytes = 512 << 10
	// MaxCallbackAnswerTextLength is the maximum callback answer text length.
	MaxCallbackAnswerTextLength = 200
	// MaxInviteLinkNameLength is the maximum invite link name length.
	MaxInviteLinkNameLength = 32
	// MinInviteMemberLimit is the minimum invite link member limit.
	MinInviteMemberLimit = 1
	// MaxInviteMemberLimit is the maximum invite link member limit.
	MaxInviteMemberLimit = 99999
	// MaxTopicNameLength is the maximum forum topic name length.
	MaxTopicNameLength = 128
	// MaxChatTitleLength is the maximum chat title length.
	MaxChatTitleLength = 128
	// MaxChatDescriptionLength is the maximum chat description length.
	MaxChatDescriptionLength = 255
)

// DeleteGraceWindowSeconds is how long a bot may delete another party's
// message in group-like chats without the delete-messages right: 48 hours.
const DeleteGraceWindowSeconds = 48 * 60 * 60
