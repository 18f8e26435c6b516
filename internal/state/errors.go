package state

import "errors"

var (
	// ErrChatNotFound indicates a referenced chat does not exist.
	ErrChatNotFound = errors.New("telesim: chat not found")
	// ErrMessageNotFound indicates a referenced message does not exist.
	ErrMessageNotFound = errors.New("telesim: message not found")
	// ErrMemberNotFound indicates no membership record exists.
	ErrMemberNotFound = errors.New("telesim: member not found")
	// ErrTopicNotFound indicates a referenced forum topic does not exist.
	ErrTopicNotFound = errors.New("telesim: topic not found")
	// ErrPollNotFound indicates a referenced poll does not exist.
	ErrPollNotFound = errors.New("telesim: poll not found")
	// ErrFileNotFound indicates a referenced stored file does not exist.
	ErrFileNotFound = errors.New("telesim: file not found")
	// ErrLinkNotFound indicates a referenced invite link does not exist.
	ErrLinkNotFound = errors.New("telesim: invite link not found")
	// ErrLinkRevoked indicates the invite link was revoked.
	ErrLinkRevoked = errors.New("telesim: invite link revoked")
	// ErrLinkExpired indicates the invite link expiry passed.
	ErrLinkExpired = errors.New("telesim: invite link expired")
	// ErrLinkLimitReached indicates the invite link member limit is exhausted.
	ErrLinkLimitReached = errors.New("telesim: invite link member limit reached")
	// ErrJoinRequestNotFound indicates no pending join request exists.
	ErrJoinRequestNotFound = errors.New("telesim: join request not found")
	// ErrStickerSetNotFound indicates a referenced sticker set does not exist.
	ErrStickerSetNotFound = errors.New("telesim: sticker set not found")
	// ErrStickerNotFound indicates a referenced sticker does not exist.
	ErrStickerNotFound = errors.New("telesim: sticker not found")
	// ErrConnectionNotFound indicates a business connection does not exist.
	ErrConnectionNotFound = errors.New("telesim: business connection not found")
	// ErrQueryNotFound indicates a pending query does not exist.
	ErrQueryNotFound = errors.New("telesim: query not found")
	// ErrQueryAnswered indicates a query was already answered.
	ErrQueryAnswered = errors.New("telesim: query already answered")
	// ErrChargeNotFound indicates a payment charge does not exist.
	ErrChargeNotFound = errors.New("telesim: charge not found")
	// ErrChargeRefunded indicates a payment charge was already refunded.
	ErrChargeRefunded = errors.New("telesim: charge already refunded")
	// ErrInvalidTransition indicates a membership transition the state
	// machine forbids.
	ErrInvalidTransition = errors.New("telesim: invalid member status transition")
)
