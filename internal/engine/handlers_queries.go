package engine

import (
	"context"
	"encoding/json"

	"telesim/internal/state"
	"telesim/pkg/botapi"
)

// CallbackAnswer records one answerCallbackQuery response for inspection.
type CallbackAnswer struct {
	Text      string
	ShowAlert bool
	URL       string
	CacheTime int
}

// InlineAnswer records one answerInlineQuery response for inspection.
type InlineAnswer struct {
	Results    []json.RawMessage
	CacheTime  int
	IsPersonal bool
	NextOffset string
}

// ShippingAnswer records one answerShippingQuery response for inspection.
type ShippingAnswer struct {
	OK              bool
	ShippingOptions []botapi.ShippingOption
	ErrorMessage    string
}

// PreCheckoutAnswer records one answerPreCheckoutQuery response.
type PreCheckoutAnswer struct {
	OK           bool
	ErrorMessage string
}

type answerCallbackQueryRequest struct {
	CallbackQueryID string `json:"callback_query_id"`
	Text            string `json:"text,omitempty"`
	ShowAlert       bool   `json:"show_alert,omitempty"`
	URL             string `json:"url,omitempty"`
	CacheTime       int    `json:"cache_time,omitempty"`
}

func (e *Engine) answerCallbackQuery(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[answerCallbackQueryRequest](payload)
	if err != nil {
		return nil, err
	}
	if err := checkNotEmpty("callback_query_id", req.CallbackQueryID); err != nil {
		return nil, err
	}
	if err := checkLength("answer text", req.Text, botapi.MaxCallbackAnswerTextLength); err != nil {
		return nil, err
	}
	if err := e.queries.Answer(state.QueryKindCallback, req.CallbackQueryID, CallbackAnswer{
		Text:      req.Text,
		ShowAlert: req.ShowAlert,
		URL:       req.URL,
		CacheTime: req.CacheTime,
	}); err != nil {
		return nil, err
	}

	return true, nil
}

const maxInlineResults = 50

type answerInlineQueryRequest struct {
	InlineQueryID string            `json:"inline_query_id"`
	Results       []json.RawMessage `json:"results"`
	CacheTime     int               `json:"cache_time,omitempty"`
	IsPersonal    bool              `json:"is_personal,omitempty"`
	NextOffset    string            `json:"next_offset,omitempty"`
}

func (e *Engine) answerInlineQuery(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[answerInlineQueryRequest](payload)
	if err != nil {
		return nil, err
	}
	if err := checkNotEmpty("inline_query_id", req.InlineQueryID); err != nil {
		return nil, err
	}
	if len(req.Results) > maxInlineResults {
		return nil, botapi.NewValidationError("too many inline query results: limit is %d", maxInlineResults)
	}
	if err := e.queries.Answer(state.QueryKindInline, req.InlineQueryID, InlineAnswer{
		Results:    req.Results,
		CacheTime:  req.CacheTime,
		IsPersonal: req.IsPersonal,
		NextOffset: req.NextOffset,
	}); err != nil {
		return nil, err
	}

	return true, nil
}

type answerShippingQueryRequest struct {
	ShippingQueryID string                  `json:"shipping_query_id"`
	OK              bool                    `json:"ok"`
	ShippingOptions []botapi.ShippingOption `json:"shipping_options,omitempty"`
	ErrorMessage    string                  `json:"error_message,omitempty"`
}

func (e *Engine) answerShippingQuery(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[answerShippingQueryRequest](payload)
	if err != nil {
		return nil, err
	}
	if err := checkNotEmpty("shipping_query_id", req.ShippingQueryID); err != nil {
		return nil, err
	}
	if req.OK && len(req.ShippingOptions) == 0 {
		return nil, botapi.NewValidationError("shipping_options are required when ok is true")
	}
	if !req.OK && req.ErrorMessage == "" {
		return nil, botapi.NewValidationError("error_message is required when ok is false")
	}
	if err := e.queries.Answer(state.QueryKindShipping, req.ShippingQueryID, ShippingAnswer{
		OK:              req.OK,
		ShippingOptions: req.ShippingOptions,
		ErrorMessage:    req.ErrorMessage,
	}); err != nil {
		return nil, err
	}

	return true, nil
}

type answerPreCheckoutQueryRequest struct {
	PreCheckoutQueryID string `json:"pre_checkout_query_id"`
	OK                 bool   `json:"ok"`
	ErrorMessage       string `json:"error_message,omitempty"`
}

func (e *Engine) answerPreCheckoutQuery(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[answerPreCheckoutQueryRequest](payload)
	if err != nil {
		return nil, err
	}
	if err := checkNotEmpty("pre_checkout_query_id", req.PreCheckoutQueryID); err != nil {
		return nil, err
	}
	if !req.OK && req.ErrorMessage == "" {
		return nil, botapi.NewValidationError("error_message is required when ok is false")
	}
	pending, known := e.queries.Payload(state.QueryKindPreCheckout, req.PreCheckoutQueryID)
	if err := e.queries.Answer(state.QueryKindPreCheckout, req.PreCheckoutQueryID, PreCheckoutAnswer{
		OK:           req.OK,
		ErrorMessage: req.ErrorMessage,
	}); err != nil {
		return nil, err
	}
	if req.OK && known {
		if query, ok := pending.(botapi.PreCheckoutQuery); ok {
			e.settlePayment(query)
		}
	}

	return true, nil
}

// settlePayment completes a confirmed checkout: it charges the buyer's star
// balance and delivers the successful-payment message update.
func (e *Engine) settlePayment(query botapi.PreCheckoutQuery) {
	if query.From == nil {
		return
	}
	chargeID := e.payments.Charge(query.From.ID, query.TotalAmount)
	chat := e.chats.GetOrCreate(botapi.Chat{
		ID:        query.From.ID,
		Type:      botapi.ChatTypePrivate,
		FirstName: query.From.FirstName,
		LastName:  query.From.LastName,
		Username:  query.From.Username,
	})
	message := botapi.Message{
		From: query.From,
		Chat: &chat,
		SuccessfulPayment: &botapi.SuccessfulPayment{
			Currency:                query.Currency,
			TotalAmount:             query.TotalAmount,
			InvoicePayload:          query.InvoicePayload,
			ShippingOptionID:        query.ShippingOptionID,
			TelegramPaymentChargeID: chargeID,
			ProviderPaymentChargeID: chargeID,
		},
	}
	stored, err := e.chats.StoreMessage(chat.ID, message)
	if err != nil {
		return
	}
	e.queue.push(botapi.Update{UpdateID: e.seq.NextUpdateID(), Message: &stored})
}
