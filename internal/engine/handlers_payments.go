package engine

import (
	"context"
	"encoding/json"

	"telesim/pkg/botapi"
)

type sendInvoiceRequest struct {
	sendCommon
	Title          string                `json:"title"`
	Description    string                `json:"description"`
	Payload        string                `json:"payload"`
	ProviderToken  string                `json:"provider_token,omitempty"`
	Currency       string                `json:"currency"`
	Prices         []botapi.LabeledPrice `json:"prices"`
	StartParameter string                `json:"start_parameter,omitempty"`
}

func (e *Engine) sendInvoice(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[sendInvoiceRequest](payload)
	if err != nil {
		return nil, err
	}
	if err := checkNotEmpty("invoice title", req.Title); err != nil {
		return nil, err
	}
	if err := checkNotEmpty("invoice description", req.Description); err != nil {
		return nil, err
	}
	if err := checkNotEmpty("invoice payload", req.Payload); err != nil {
		return nil, err
	}
	if err := checkNotEmpty("currency", req.Currency); err != nil {
		return nil, err
	}
	if len(req.Prices) == 0 {
		return nil, botapi.NewValidationError("prices are empty")
	}
	total := 0
	for _, price := range req.Prices {
		if price.Amount <= 0 {
			return nil, botapi.NewValidationError("price amount must be positive")
		}
		total += price.Amount
	}
	chat, err := e.prepareSend(req.sendCommon, "invoices", func(p botapi.ChatPermissions) bool {
		return p.CanSendMessages
	})
	if err != nil {
		return nil, err
	}

	return e.finishSend(chat, req.sendCommon, func(m *botapi.Message) {
		m.Invoice = &botapi.Invoice{
			Title:          req.Title,
			Description:    req.Description,
			StartParameter: req.StartParameter,
			Currency:       req.Currency,
			TotalAmount:    total,
		}
	})
}

type refundStarPaymentRequest struct {
	UserID                  int64  `json:"user_id"`
	TelegramPaymentChargeID string `json:"telegram_payment_charge_id"`
}

func (e *Engine) refundStarPayment(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[refundStarPaymentRequest](payload)
	if err != nil {
		return nil, err
	}
	if err := checkNotEmpty("telegram_payment_charge_id", req.TelegramPaymentChargeID); err != nil {
		return nil, err
	}
	if req.UserID == 0 {
		return nil, botapi.NewValidationError("user_id is empty")
	}
	if err := e.payments.Refund(req.UserID, req.TelegramPaymentChargeID); err != nil {
		return nil, err
	}

	return true, nil
}

type getStarTransactionsRequest struct {
	Offset int `json:"offset,omitempty"`
	Limit  int `json:"limit,omitempty"`
}

func (e *Engine) getStarTransactions(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[getStarTransactionsRequest](payload)
	if err != nil {
		return nil, err
	}
	if req.Offset < 0 {
		return nil, botapi.NewValidationError("offset must be non-negative")
	}

	return botapi.StarTransactions{Transactions: e.payments.Transactions(req.Offset, req.Limit)}, nil
}

type getBusinessConnectionRequest struct {
	BusinessConnectionID string `json:"business_connection_id"`
}

func (e *Engine) getBusinessConnection(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[getBusinessConnectionRequest](payload)
	if err != nil {
		return nil, err
	}
	if err := checkNotEmpty("business_connection_id", req.BusinessConnectionID); err != nil {
		return nil, err
	}

	return e.business.Get(req.BusinessConnectionID)
}

type setPassportDataErrorsRequest struct {
	UserID int64                         `json:"user_id"`
	Errors []botapi.PassportElementError `json:"errors"`
}

func (e *Engine) setPassportDataErrors(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[setPassportDataErrorsRequest](payload)
	if err != nil {
		return nil, err
	}
	if req.UserID == 0 {
		return nil, botapi.NewValidationError("user_id is empty")
	}
	if len(req.Errors) == 0 {
		return nil, botapi.NewValidationError("errors are empty")
	}
	for _, elementError := range req.Errors {
		if elementError.Source == "" || elementError.Type == "" || elementError.Message == "" {
			return nil, botapi.NewValidationError("passport element error is missing source, type, or message")
		}
	}
	if err := e.passport.SetErrors(req.UserID, req.Errors); err != nil {
		return nil, err
	}

	return true, nil
}
