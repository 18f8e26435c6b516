package engine

import (
	"context"
	"encoding/json"

	"telesim/internal/state"
	"telesim/pkg/botapi"
)

type sendPollRequest struct {
	sendCommon
	Question              string                 `json:"question"`
	Options               []string               `json:"options"`
	IsAnonymous           *bool                  `json:"is_anonymous,omitempty"`
	Type                  string                 `json:"type,omitempty"`
	AllowsMultipleAnswers bool                   `json:"allows_multiple_answers,omitempty"`
	CorrectOptionID       *int                   `json:"correct_option_id,omitempty"`
	Explanation           string                 `json:"explanation,omitempty"`
	ExplanationParseMode  string                 `json:"explanation_parse_mode,omitempty"`
	ExplanationEntities   []botapi.MessageEntity `json:"explanation_entities,omitempty"`
	OpenPeriod            int                    `json:"open_period,omitempty"`
	CloseDate             int64                  `json:"close_date,omitempty"`
	IsClosed              bool                   `json:"is_closed,omitempty"`
}

func (e *Engine) sendPoll(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[sendPollRequest](payload)
	if err != nil {
		return nil, err
	}
	params, err := e.validatePoll(req)
	if err != nil {
		return nil, err
	}
	chat, err := e.prepareSend(req.sendCommon, "polls", func(p botapi.ChatPermissions) bool {
		return p.CanSendPolls
	})
	if err != nil {
		return nil, err
	}

	poll := e.polls.Create(params)
	stored, err := e.finishSend(chat, req.sendCommon, func(m *botapi.Message) {
		snapshot := poll
		m.Poll = &snapshot
	})
	if err != nil {
		return nil, err
	}

	e.pollMu.Lock()
	ref := messageRef{chat.ID, stored.MessageID}
	e.pollMessages[poll.ID] = ref
	e.messagePolls[ref] = poll.ID
	e.pollMu.Unlock()

	return stored, nil
}

func (e *Engine) validatePoll(req sendPollRequest) (state.PollParams, error) {
	var zero state.PollParams
	if err := checkNotEmpty("poll question", req.Question); err != nil {
		return zero, err
	}
	if err := checkLength("poll question", req.Question, botapi.MaxPollQuestionLength); err != nil {
		return zero, err
	}
	if len(req.Options) < botapi.MinPollOptions || len(req.Options) > botapi.MaxPollOptions {
		return zero, botapi.NewValidationError("poll must have %d-%d options", botapi.MinPollOptions, botapi.MaxPollOptions)
	}
	for _, option := range req.Options {
		if err := checkNotEmpty("poll option", option); err != nil {
			return zero, err
		}
		if err := checkLength("poll option", option, botapi.MaxPollOptionLength); err != nil {
			return zero, err
		}
	}

	pollType := botapi.PollTypeRegular
	switch req.Type {
	case "", string(botapi.PollTypeRegular):
	case string(botapi.PollTypeQuiz):
		pollType = botapi.PollTypeQuiz
	default:
		return zero, botapi.NewValidationError("wrong parameter type in request")
	}

	if pollType == botapi.PollTypeQuiz {
		if req.CorrectOptionID == nil {
			return zero, botapi.NewValidationError("quiz poll requires correct_option_id")
		}
		if *req.CorrectOptionID < 0 || *req.CorrectOptionID >= len(req.Options) {
			return zero, botapi.NewValidationError("correct_option_id is out of range")
		}
		if req.AllowsMultipleAnswers {
			return zero, botapi.NewValidationError("quiz poll can't allow multiple answers")
		}
	} else {
		if req.CorrectOptionID != nil {
			return zero, botapi.NewValidationError("correct_option_id is only allowed for quiz polls")
		}
		if req.Explanation != "" {
			return zero, botapi.NewValidationError("explanation is only allowed for quiz polls")
		}
	}

	explanation, explanationEntities, err := parseText(req.Explanation, req.ExplanationParseMode, req.ExplanationEntities)
	if err != nil {
		return zero, err
	}
	if err := checkLength("poll explanation", explanation, botapi.MaxPollExplanationLength); err != nil {
		return zero, err
	}

	if req.OpenPeriod != 0 && req.CloseDate != 0 {
		return zero, botapi.NewValidationError("open_period and close_date can't be used together")
	}
	if req.OpenPeriod != 0 {
		if err := checkRange("open_period", req.OpenPeriod, botapi.MinPollOpenPeriod, botapi.MaxPollOpenPeriod); err != nil {
			return zero, err
		}
	}
	if req.CloseDate != 0 && req.CloseDate <= e.clock.Unix() {
		return zero, botapi.NewValidationError("close_date must be in the future")
	}

	anonymous := true
	if req.IsAnonymous != nil {
		anonymous = *req.IsAnonymous
	}

	return state.PollParams{
		Question:              req.Question,
		Options:               req.Options,
		IsAnonymous:           anonymous,
		Type:                  pollType,
		AllowsMultipleAnswers: req.AllowsMultipleAnswers,
		CorrectOptionID:       req.CorrectOptionID,
		Explanation:           explanation,
		ExplanationEntities:   explanationEntities,
		OpenPeriod:            req.OpenPeriod,
		CloseDate:             req.CloseDate,
		IsClosed:              req.IsClosed,
	}, nil
}

type stopPollRequest struct {
	ChatID    botapi.ChatID `json:"chat_id"`
	MessageID int64         `json:"message_id"`
}

func (e *Engine) stopPoll(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[stopPollRequest](payload)
	if err != nil {
		return nil, err
	}
	chat, err := e.requireChat(req.ChatID)
	if err != nil {
		return nil, err
	}
	message, err := e.chats.Message(chat.ID, req.MessageID)
	if err != nil {
		return nil, err
	}
	own := message.From != nil && message.From.ID == e.bot.ID
	if !own {
		if err := e.requireAdminRight(chat, e.bot.ID, "stop the poll", func(r botapi.ChatAdministratorRights) bool {
			return r.CanPostMessages || r.CanManageChat
		}); err != nil {
			return nil, err
		}
	}

	e.pollMu.Lock()
	pollID, found := e.messagePolls[messageRef{chat.ID, req.MessageID}]
	e.pollMu.Unlock()
	if !found {
		return nil, botapi.NewValidationError("message with poll to stop not found")
	}

	poll, err := e.polls.Stop(pollID)
	if err != nil {
		return nil, err
	}
	if _, err := e.chats.UpdateMessage(chat.ID, req.MessageID, func(m *botapi.Message) {
		snapshot := poll
		m.Poll = &snapshot
	}); err != nil {
		return nil, err
	}

	return poll, nil
}
