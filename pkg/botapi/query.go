package botapi

// CallbackQuery is the callback_query update payload.
type CallbackQuery struct {
	ID              string   `json:"id"`
	From            *User    `json:"from"`
	Message         *Message `json:"message,omitempty"`
	InlineMessageID string   `json:"inline_message_id,omitempty"`
	ChatInstance    string   `json:"chat_instance,omitempty"`
	Data            string   `json:"data,omitempty"`
	GameShortName   string   `json:"game_short_name,omitempty"`
}

// InlineQuery is the inline_query update payload.
type InlineQuery struct {
	ID       string `json:"id"`
	From     *User  `json:"from"`
	Query    string `json:"query"`
	Offset   string `json:"offset"`
	ChatType string `json:"chat_type,omitempty"`
}

// ChosenInlineResult is the chosen_inline_result update payload.
type ChosenInlineResult struct {
	ResultID        string `json:"result_id"`
	From            *User  `json:"from"`
	InlineMessageID string `json:"inline_message_id,omitempty"`
	Query           string `json:"query"`
}

// Invoice is the invoice attachment of an invoice message.
type Invoice struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	StartParameter string `json:"start_parameter"`
	Currency       string `json:"currency"`
	TotalAmount    int    `json:"total_amount"`
}

// LabeledPrice is one price component of an invoice.
type LabeledPrice struct {
	Label  string `json:"label"`
	Amount int    `json:"amount"`
}

// ShippingAddress is a buyer-provided shipping destination.
type ShippingAddress struct {
	CountryCode string `json:"country_code"`
	State       string `json:"state"`
	City        string `json:"city"`
	StreetLine1 string `json:"street_line1"`
	StreetLine2 string `json:"street_line2"`
	PostCode    string `json:"post_code"`
}

// ShippingOption is one selectable shipping option.
type ShippingOption struct {
	ID     string         `json:"id"`
	Title  string         `json:"title"`
	Prices []LabeledPrice `json:"prices"`
}

// ShippingQuery is the shipping_query update payload.
type ShippingQuery struct {
	ID              string           `json:"id"`
	From            *User            `json:"from"`
	InvoicePayload  string           `json:"invoice_payload"`
	ShippingAddress *ShippingAddress `json:"shipping_address"`
}

// PreCheckoutQuery is the pre_checkout_query update payload.
type PreCheckoutQuery struct {
	ID               string `json:"id"`
	From             *User  `json:"from"`
	Currency         string `json:"currency"`
	TotalAmount      int    `json:"total_amount"`
	InvoicePayload   string `json:"invoice_payload"`
	ShippingOptionID string `json:"shipping_option_id,omitempty"`
}

// SuccessfulPayment records a completed checkout on a message.
type SuccessfulPayment struct {
	Currency                string `json:"currency"`
	TotalAmount             int    `json:"total_amount"`
	InvoicePayload          string `json:"invoice_payload"`
	ShippingOptionID        string `json:"shipping_option_id,omitempty"`
	TelegramPaymentChargeID string `json:"telegram_payment_charge_id"`
	ProviderPaymentChargeID string `json:"provider_payment_charge_id"`
}

// StarTransaction is one entry of the bot's star transaction log.
type StarTransaction struct {
	ID       string `json:"id"`
	Amount   int    `json:"amount"`
	Date     int64  `json:"date"`
	Refunded bool   `json:"-"`
	UserID   int64  `json:"-"`
}

// StarTransactions is the getStarTransactions result envelope.
type StarTransactions struct {
	Transactions []StarTransaction `json:"transactions"`
}

// BusinessConnection is the business_connection update payload and the
// getBusinessConnection result.
type BusinessConnection struct {
	ID         string `json:"id"`
	User       *User  `json:"user"`
	UserChatID int64  `json:"user_chat_id"`
	Date       int64  `json:"date"`
	CanReply   bool   `json:"can_reply"`
	IsEnabled  bool   `json:"is_enabled"`
}

// PassportData is the submitted passport payload attached to a message.
type PassportData struct {
	Data []EncryptedPassportElement `json:"data"`
}

// EncryptedPassportElement is one submitted passport element. Content is
// modeled only to the level a bot observes: type, hash, and payload strings.
type EncryptedPassportElement struct {
	Type string `json:"type"`
	Data string `json:"data,omitempty"`
	Hash string `json:"hash"`
}

// PassportElementError is one setPassportDataErrors entry.
type PassportElementError struct {
	Source    string `json:"source"`
	Type      string `json:"type"`
	FieldName string `json:"field_name,omitempty"`
	DataHash  string `json:"data_hash,omitempty"`
	Message   string `json:"message"`
}

// WebhookInfo is the getWebhookInfo result. The simulation records webhook
// configuration but never performs network delivery.
type WebhookInfo struct {
	URL                  string   `json:"url"`
	HasCustomCertificate bool     `json:"has_custom_certificate"`
	PendingUpdateCount   int      `json:"pending_update_count"`
	MaxConnections       int      `json:"max_connections,omitempty"`
	AllowedUpdates       []string `json:"allowed_updates,omitempty"`
}
