package engine

import (
	"context"
	"encoding/json"

	"telesim/internal/state"
	"telesim/pkg/botapi"
)

const subscriptionPeriodSeconds = 30 * 24 * 60 * 60

// requireInviteRight resolves the chat and gates invite link management.
func (e *Engine) requireInviteRight(ref botapi.ChatID) (botapi.Chat, error) {
	chat, err := e.requireChat(ref)
	if err != nil {
		return botapi.Chat{}, err
	}
	if chat.Type == botapi.ChatTypePrivate {
		return botapi.Chat{}, botapi.NewValidationError("there are no invite links in private chats")
	}
	if err := e.requireAdminRight(chat, e.bot.ID, "manage invite links", func(r botapi.ChatAdministratorRights) bool {
		return r.CanInviteUsers
	}); err != nil {
		return botapi.Chat{}, err
	}

	return chat, nil
}

func (e *Engine) exportChatInviteLink(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[chatRequest](payload)
	if err != nil {
		return nil, err
	}
	chat, err := e.requireInviteRight(req.ChatID)
	if err != nil {
		return nil, err
	}
	url := e.invites.ExportPrimary(chat.ID, e.bot)
	if err := e.chats.Mutate(chat.ID, func(c *botapi.Chat) {
		c.InviteLink = url
	}); err != nil {
		return nil, err
	}

	return url, nil
}

type inviteLinkRequest struct {
	ChatID             botapi.ChatID `json:"chat_id"`
	InviteLink         string        `json:"invite_link,omitempty"`
	Name               string        `json:"name,omitempty"`
	ExpireDate         int64         `json:"expire_date,omitempty"`
	MemberLimit        int           `json:"member_limit,omitempty"`
	CreatesJoinRequest bool          `json:"creates_join_request,omitempty"`
}

func (req inviteLinkRequest) validate() error {
	if err := checkLength("invite link name", req.Name, botapi.MaxInviteLinkNameLength); err != nil {
		return err
	}
	if req.MemberLimit != 0 {
		if err := checkRange("member_limit", req.MemberLimit, botapi.MinInviteMemberLimit, botapi.MaxInviteMemberLimit); err != nil {
			return err
		}
		if req.CreatesJoinRequest {
			return botapi.NewValidationError("member_limit can't be used together with creates_join_request")
		}
	}

	return nil
}

func (e *Engine) createChatInviteLink(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[inviteLinkRequest](payload)
	if err != nil {
		return nil, err
	}
	if err := req.validate(); err != nil {
		return nil, err
	}
	chat, err := e.requireInviteRight(req.ChatID)
	if err != nil {
		return nil, err
	}

	return e.invites.Create(chat.ID, e.bot, state.LinkParams{
		Name:               req.Name,
		ExpireDate:         req.ExpireDate,
		MemberLimit:        req.MemberLimit,
		CreatesJoinRequest: req.CreatesJoinRequest,
	}), nil
}

func (e *Engine) editChatInviteLink(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[inviteLinkRequest](payload)
	if err != nil {
		return nil, err
	}
	if err := req.validate(); err != nil {
		return nil, err
	}
	if _, err := e.requireInviteRight(req.ChatID); err != nil {
		return nil, err
	}

	return e.invites.Edit(req.InviteLink, state.LinkParams{
		Name:               req.Name,
		ExpireDate:         req.ExpireDate,
		MemberLimit:        req.MemberLimit,
		CreatesJoinRequest: req.CreatesJoinRequest,
	})
}

func (e *Engine) revokeChatInviteLink(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[inviteLinkRequest](payload)
	if err != nil {
		return nil, err
	}
	if _, err := e.requireInviteRight(req.ChatID); err != nil {
		return nil, err
	}

	return e.invites.Revoke(req.InviteLink)
}

type subscriptionLinkRequest struct {
	ChatID             botapi.ChatID `json:"chat_id"`
	InviteLink         string        `json:"invite_link,omitempty"`
	Name               string        `json:"name,omitempty"`
	SubscriptionPeriod int           `json:"subscription_period,omitempty"`
	SubscriptionPrice  int           `json:"subscription_price,omitempty"`
}

func (e *Engine) createChatSubscriptionInviteLink(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[subscriptionLinkRequest](payload)
	if err != nil {
		return nil, err
	}
	if err := checkLength("invite link name", req.Name, botapi.MaxInviteLinkNameLength); err != nil {
		return nil, err
	}
	if req.SubscriptionPeriod != subscriptionPeriodSeconds {
		return nil, botapi.NewValidationError("subscription_period must be %d seconds", subscriptionPeriodSeconds)
	}
	if err := checkRange("subscription_price", req.SubscriptionPrice, 1, 10000); err != nil {
		return nil, err
	}
	chat, err := e.requireInviteRight(req.ChatID)
	if err != nil {
		return nil, err
	}
	if chat.Type != botapi.ChatTypeChannel {
		return nil, botapi.NewValidationError("subscription invite links are available only for channel chats")
	}

	return e.invites.Create(chat.ID, e.bot, state.LinkParams{
		Name:               req.Name,
		SubscriptionPeriod: req.SubscriptionPeriod,
		SubscriptionPrice:  req.SubscriptionPrice,
	}), nil
}

func (e *Engine) editChatSubscriptionInviteLink(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[subscriptionLinkRequest](payload)
	if err != nil {
		return nil, err
	}
	if err := checkLength("invite link name", req.Name, botapi.MaxInviteLinkNameLength); err != nil {
		return nil, err
	}
	if _, err := e.requireInviteRight(req.ChatID); err != nil {
		return nil, err
	}
	link, _, err := e.invites.Get(req.InviteLink)
	if err != nil {
		return nil, err
	}
	if link.SubscriptionPeriod == 0 {
		return nil, botapi.NewValidationError("invite link is not a subscription link")
	}

	// Only the name of a subscription link is editable.
	return e.invites.Edit(req.InviteLink, state.LinkParams{
		Name:               req.Name,
		SubscriptionPeriod: link.SubscriptionPeriod,
		SubscriptionPrice:  link.SubscriptionPrice,
	})
}
