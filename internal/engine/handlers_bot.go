package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"telesim/pkg/botapi"
)

func (e *Engine) getMe(_ context.Context, _ *Invocation, _ json.RawMessage) (any, error) {
	return e.bot, nil
}

type setMyNameRequest struct {
	Name         string `json:"name,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
}

func (e *Engine) setMyName(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[setMyNameRequest](payload)
	if err != nil {
		return nil, err
	}
	if err := checkLength("bot name", req.Name, botapi.MaxBotNameLength); err != nil {
		return nil, err
	}
	if req.Name != "" {
		e.profile.name = req.Name
	}

	return true, nil
}

func (e *Engine) getMyName(_ context.Context, _ *Invocation, _ json.RawMessage) (any, error) {
	return map[string]string{"name": e.profile.name}, nil
}

type setMyDescriptionRequest struct {
	Description  string `json:"description,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
}

func (e *Engine) setMyDescription(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[setMyDescriptionRequest](payload)
	if err != nil {
		return nil, err
	}
	if err := checkLength("bot description", req.Description, botapi.MaxBotDescriptionLength); err != nil {
		return nil, err
	}
	e.profile.description = req.Description

	return true, nil
}

func (e *Engine) getMyDescription(_ context.Context, _ *Invocation, _ json.RawMessage) (any, error) {
	return map[string]string{"description": e.profile.description}, nil
}

type setMyShortDescriptionRequest struct {
	ShortDescription string `json:"short_description,omitempty"`
	LanguageCode     string `json:"language_code,omitempty"`
}

func (e *Engine) setMyShortDescription(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[setMyShortDescriptionRequest](payload)
	if err != nil {
		return nil, err
	}
	if err := checkLength("bot short description", req.ShortDescription, botapi.MaxBotShortDescriptionLength); err != nil {
		return nil, err
	}
	e.profile.shortDescription = req.ShortDescription

	return true, nil
}

func (e *Engine) getMyShortDescription(_ context.Context, _ *Invocation, _ json.RawMessage) (any, error) {
	return map[string]string{"short_description": e.profile.shortDescription}, nil
}

const (
	maxCommandLength            = 32
	maxCommandDescriptionLength = 256
	maxCommandCount             = 100
)

type myCommandsRequest struct {
	Commands     []botapi.BotCommand     `json:"commands,omitempty"`
	Scope        *botapi.BotCommandScope `json:"scope,omitempty"`
	LanguageCode string                  `json:"language_code,omitempty"`
}

// commandScopeKey folds scope and language into one profile map key.
func commandScopeKey(scope *botapi.BotCommandScope, languageCode string) string {
	scopeType := "default"
	var chatID, userID string
	if scope != nil && scope.Type != "" {
		scopeType = scope.Type
		chatID = scope.ChatID.String()
		userID = fmt.Sprintf("%d", scope.UserID)
	}

	return scopeType + "/" + chatID + "/" + userID + "/" + languageCode
}

func (e *Engine) setMyCommands(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[myCommandsRequest](payload)
	if err != nil {
		return nil, err
	}
	if len(req.Commands) > maxCommandCount {
		return nil, botapi.NewValidationError("too many commands: limit is %d", maxCommandCount)
	}
	for _, command := range req.Commands {
		name := strings.TrimPrefix(command.Command, "/")
		if name == "" || len(name) > maxCommandLength {
			return nil, botapi.NewValidationError("wrong command name %q", command.Command)
		}
		for _, r := range name {
			if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '_') {
				return nil, botapi.NewValidationError("wrong command name %q", command.Command)
			}
		}
		if command.Description == "" || len(command.Description) > maxCommandDescriptionLength {
			return nil, botapi.NewValidationError("wrong command description for %q", command.Command)
		}
	}
	commands := make([]botapi.BotCommand, len(req.Commands))
	copy(commands, req.Commands)
	e.profile.commands[commandScopeKey(req.Scope, req.LanguageCode)] = commands

	return true, nil
}

func (e *Engine) getMyCommands(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[myCommandsRequest](payload)
	if err != nil {
		return nil, err
	}
	commands := e.profile.commands[commandScopeKey(req.Scope, req.LanguageCode)]
	if commands == nil {
		return []botapi.BotCommand{}, nil
	}
	out := make([]botapi.BotCommand, len(commands))
	copy(out, commands)

	return out, nil
}

func (e *Engine) deleteMyCommands(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[myCommandsRequest](payload)
	if err != nil {
		return nil, err
	}
	delete(e.profile.commands, commandScopeKey(req.Scope, req.LanguageCode))

	return true, nil
}

type setWebhookRequest struct {
	URL            string   `json:"url"`
	MaxConnections int      `json:"max_connections,omitempty"`
	AllowedUpdates []string `json:"allowed_updates,omitempty"`
}

// setWebhook records the configuration; the simulation never performs
// network delivery.
func (e *Engine) setWebhook(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[setWebhookRequest](payload)
	if err != nil {
		return nil, err
	}
	if err := checkNotEmpty("webhook url", req.URL); err != nil {
		return nil, err
	}
	if !strings.HasPrefix(req.URL, "https://") {
		return nil, botapi.NewValidationError("bad webhook: HTTPS url must be provided for webhook")
	}
	e.webhook = botapi.WebhookInfo{
		URL:            req.URL,
		MaxConnections: req.MaxConnections,
		AllowedUpdates: req.AllowedUpdates,
	}

	return true, nil
}

func (e *Engine) deleteWebhook(_ context.Context, _ *Invocation, _ json.RawMessage) (any, error) {
	e.webhook = botapi.WebhookInfo{}

	return true, nil
}

func (e *Engine) getWebhookInfo(_ context.Context, _ *Invocation, _ json.RawMessage) (any, error) {
	info := e.webhook
	info.PendingUpdateCount = e.queue.size()

	return info, nil
}

type getUpdatesRequest struct {
	Offset         int64    `json:"offset,omitempty"`
	Limit          int      `json:"limit,omitempty"`
	Timeout        int      `json:"timeout,omitempty"`
	AllowedUpdates []string `json:"allowed_updates,omitempty"`
}

// getUpdates long-polls the update queue. It runs outside the engine mutex;
// cancellation of ctx resolves with an empty batch.
func (e *Engine) getUpdates(ctx context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[getUpdatesRequest](payload)
	if err != nil {
		return nil, err
	}
	if req.Limit < 0 {
		return nil, botapi.NewValidationError("limit must be non-negative")
	}

	return e.queue.fetch(ctx, req.Offset, req.Limit), nil
}
