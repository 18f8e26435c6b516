package engine

import (
	"context"
	"encoding/json"

	"telesim/internal/state"
	"telesim/pkg/botapi"
)

// mediaCommon carries the request fields shared by captioned media sends.
// The attachment field holds either the file_id of an already stored file or
// literal simulated content; file_size/width/height/duration hints override
// metadata derived from the content itself.
type mediaCommon struct {
	sendCommon
	Caption         string                 `json:"caption,omitempty"`
	ParseMode       string                 `json:"parse_mode,omitempty"`
	CaptionEntities []botapi.MessageEntity `json:"caption_entities,omitempty"`
	FileSize        int64                  `json:"file_size,omitempty"`
	Width           int                    `json:"width,omitempty"`
	Height          int                    `json:"height,omitempty"`
	Duration        int                    `json:"duration,omitempty"`
}

// resolveCaption parses the caption triple and enforces the caption cap.
func resolveCaption(common mediaCommon) (string, []botapi.MessageEntity, error) {
	caption, entities, err := parseText(common.Caption, common.ParseMode, common.CaptionEntities)
	if err != nil {
		return "", nil, err
	}
	if err := checkLength("caption", caption, botapi.MaxCaptionLength); err != nil {
		return "", nil, err
	}

	return caption, entities, nil
}

// checkAttachment validates an attachment reference without touching the
// file store: the value must be non-empty and, for new content, within the
// size cap of its kind.
func (e *Engine) checkAttachment(value string, kind state.FileKind, common mediaCommon) error {
	if value == "" {
		return botapi.NewValidationError("file is empty")
	}
	if _, err := e.files.Get(value); err == nil {
		return nil
	}

	size := attachmentSize(value, common)
	if limit := state.MaxSize(kind); size > limit {
		return botapi.NewValidationError("file is too big")
	}

	return nil
}

// storeAttachment reuses a stored file when value is a known file_id and
// stores new simulated content otherwise. It runs only after checkAttachment
// and the send gates, so a rejected send never mutates the file store.
func (e *Engine) storeAttachment(value string, kind state.FileKind, common mediaCommon) botapi.File {
	if stored, err := e.files.Get(value); err == nil {
		return stored
	}

	return e.files.Store(state.StoredFileParams{
		Kind:     kind,
		Size:     attachmentSize(value, common),
		Content:  []byte(value),
		Width:    common.Width,
		Height:   common.Height,
		Duration: common.Duration,
	})
}

func attachmentSize(value string, common mediaCommon) int64 {
	if common.FileSize != 0 {
		return common.FileSize
	}

	return int64(len(value))
}

// sendMedia runs the shared captioned-media pipeline: every validation and
// permission gate completes before the attachment is stored.
func (e *Engine) sendMedia(common mediaCommon, attachment string, fileKind state.FileKind, kind string, allow sendCheck, build func(m *botapi.Message, file botapi.File, caption string, entities []botapi.MessageEntity)) (any, error) {
	if err := e.checkAttachment(attachment, fileKind, common); err != nil {
		return nil, err
	}
	caption, entities, err := resolveCaption(common)
	if err != nil {
		return nil, err
	}
	chat, err := e.prepareSend(common.sendCommon, kind, allow)
	if err != nil {
		return nil, err
	}
	file := e.storeAttachment(attachment, fileKind, common)

	return e.finishSend(chat, common.sendCommon, func(m *botapi.Message) {
		build(m, file, caption, entities)
	})
}

type sendPhotoRequest struct {
	mediaCommon
	Photo string `json:"photo"`
}

func (e *Engine) sendPhoto(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[sendPhotoRequest](payload)
	if err != nil {
		return nil, err
	}
	if req.Photo == "" {
		return nil, botapi.NewValidationError("photo is empty")
	}
	size := req.FileSize
	if size == 0 {
		size = int64(len(req.Photo))
	}
	if size > botapi.MaxPhotoSizeBytes {
		return nil, botapi.NewValidationError("file is too big")
	}
	caption, entities, err := resolveCaption(req.mediaCommon)
	if err != nil {
		return nil, err
	}
	chat, err := e.prepareSend(req.sendCommon, "photos", func(p botapi.ChatPermissions) bool {
		return p.CanSendPhotos
	})
	if err != nil {
		return nil, err
	}
	width, height := req.Width, req.Height
	if width == 0 || height == 0 {
		width, height = 1280, 720
	}
	family := e.files.StorePhotoFamily(width, height, size)

	return e.finishSend(chat, req.sendCommon, func(m *botapi.Message) {
		m.Photo = family
		m.Caption = caption
		m.CaptionEntities = entities
	})
}

type sendDocumentRequest struct {
	mediaCommon
	Document string `json:"document"`
	FileName string `json:"file_name,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
}

func (e *Engine) sendDocument(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[sendDocumentRequest](payload)
	if err != nil {
		return nil, err
	}
	return e.sendMedia(req.mediaCommon, req.Document, state.FileKindDocument, "documents", func(p botapi.ChatPermissions) bool {
		return p.CanSendDocuments
	}, func(m *botapi.Message, file botapi.File, caption string, entities []botapi.MessageEntity) {
		m.Document = &botapi.Document{
			FileID:       file.FileID,
			FileUniqueID: file.FileUniqueID,
			FileName:     req.FileName,
			MimeType:     req.MimeType,
			FileSize:     file.FileSize,
		}
		m.Caption = caption
		m.CaptionEntities = entities
	})
}

type sendAudioRequest struct {
	mediaCommon
	Audio     string `json:"audio"`
	Performer string `json:"performer,omitempty"`
	Title     string `json:"title,omitempty"`
}

func (e *Engine) sendAudio(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[sendAudioRequest](payload)
	if err != nil {
		return nil, err
	}
	return e.sendMedia(req.mediaCommon, req.Audio, state.FileKindAudio, "audios", func(p botapi.ChatPermissions) bool {
		return p.CanSendAudios
	}, func(m *botapi.Message, file botapi.File, caption string, entities []botapi.MessageEntity) {
		m.Audio = &botapi.Audio{
			FileID:       file.FileID,
			FileUniqueID: file.FileUniqueID,
			Duration:     req.Duration,
			Performer:    req.Performer,
			Title:        req.Title,
			FileSize:     file.FileSize,
		}
		m.Caption = caption
		m.CaptionEntities = entities
	})
}

type sendVideoRequest struct {
	mediaCommon
	Video string `json:"video"`
}

func (e *Engine) sendVideo(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[sendVideoRequest](payload)
	if err != nil {
		return nil, err
	}
	return e.sendMedia(req.mediaCommon, req.Video, state.FileKindVideo, "videos", func(p botapi.ChatPermissions) bool {
		return p.CanSendVideos
	}, func(m *botapi.Message, file botapi.File, caption string, entities []botapi.MessageEntity) {
		m.Video = &botapi.Video{
			FileID:       file.FileID,
			FileUniqueID: file.FileUniqueID,
			Width:        req.Width,
			Height:       req.Height,
			Duration:     req.Duration,
			FileSize:     file.FileSize,
		}
		m.Caption = caption
		m.CaptionEntities = entities
	})
}

type sendVoiceRequest struct {
	mediaCommon
	Voice string `json:"voice"`
}

func (e *Engine) sendVoice(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[sendVoiceRequest](payload)
	if err != nil {
		return nil, err
	}
	return e.sendMedia(req.mediaCommon, req.Voice, state.FileKindVoice, "voice notes", func(p botapi.ChatPermissions) bool {
		return p.CanSendVoiceNotes
	}, func(m *botapi.Message, file botapi.File, caption string, entities []botapi.MessageEntity) {
		m.Voice = &botapi.Voice{
			FileID:       file.FileID,
			FileUniqueID: file.FileUniqueID,
			Duration:     req.Duration,
			FileSize:     file.FileSize,
		}
		m.Caption = caption
		m.CaptionEntities = entities
	})
}

type sendAnimationRequest struct {
	mediaCommon
	Animation string `json:"animation"`
	FileName  string `json:"file_name,omitempty"`
}

func (e *Engine) sendAnimation(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[sendAnimationRequest](payload)
	if err != nil {
		return nil, err
	}
	return e.sendMedia(req.mediaCommon, req.Animation, state.FileKindAnimation, "animations", func(p botapi.ChatPermissions) bool {
		return p.CanSendOtherMessages
	}, func(m *botapi.Message, file botapi.File, caption string, entities []botapi.MessageEntity) {
		m.Animation = &botapi.Animation{
			FileID:       file.FileID,
			FileUniqueID: file.FileUniqueID,
			Width:        req.Width,
			Height:       req.Height,
			Duration:     req.Duration,
			FileName:     req.FileName,
			FileSize:     file.FileSize,
		}
		m.Caption = caption
		m.CaptionEntities = entities
	})
}

type sendStickerRequest struct {
	sendCommon
	Sticker  string `json:"sticker"`
	Emoji    string `json:"emoji,omitempty"`
	FileSize int64  `json:"file_size,omitempty"`
}

func (e *Engine) sendSticker(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[sendStickerRequest](payload)
	if err != nil {
		return nil, err
	}
	common := mediaCommon{
		sendCommon: req.sendCommon,
		FileSize:   req.FileSize,
		Width:      512,
		Height:     512,
	}
	if err := e.checkAttachment(req.Sticker, state.FileKindSticker, common); err != nil {
		return nil, err
	}
	chat, err := e.prepareSend(req.sendCommon, "stickers", func(p botapi.ChatPermissions) bool {
		return p.CanSendOtherMessages
	})
	if err != nil {
		return nil, err
	}
	file := e.storeAttachment(req.Sticker, state.FileKindSticker, common)

	return e.finishSend(chat, req.sendCommon, func(m *botapi.Message) {
		m.Sticker = &botapi.Sticker{
			FileID:       file.FileID,
			FileUniqueID: file.FileUniqueID,
			Type:         "regular",
			Width:        512,
			Height:       512,
			Emoji:        req.Emoji,
			FileSize:     file.FileSize,
		}
	})
}

type sendLocationRequest struct {
	sendCommon
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (e *Engine) sendLocation(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[sendLocationRequest](payload)
	if err != nil {
		return nil, err
	}
	if err := checkFloatRange("latitude", req.Latitude, -90, 90); err != nil {
		return nil, err
	}
	if err := checkFloatRange("longitude", req.Longitude, -180, 180); err != nil {
		return nil, err
	}
	chat, err := e.prepareSend(req.sendCommon, "locations", func(p botapi.ChatPermissions) bool {
		return p.CanSendMessages
	})
	if err != nil {
		return nil, err
	}

	return e.finishSend(chat, req.sendCommon, func(m *botapi.Message) {
		m.Location = &botapi.Location{Latitude: req.Latitude, Longitude: req.Longitude}
	})
}

func checkFloatRange(field string, value, low, high float64) error {
	if value < low || value > high {
		return botapi.NewValidationError("%s is out of range", field)
	}

	return nil
}

type sendVenueRequest struct {
	sendCommon
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Title     string  `json:"title"`
	Address   string  `json:"address"`
}

func (e *Engine) sendVenue(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[sendVenueRequest](payload)
	if err != nil {
		return nil, err
	}
	if err := checkNotEmpty("venue title", req.Title); err != nil {
		return nil, err
	}
	if err := checkNotEmpty("venue address", req.Address); err != nil {
		return nil, err
	}
	chat, err := e.prepareSend(req.sendCommon, "venues", func(p botapi.ChatPermissions) bool {
		return p.CanSendMessages
	})
	if err != nil {
		return nil, err
	}

	return e.finishSend(chat, req.sendCommon, func(m *botapi.Message) {
		m.Venue = &botapi.Venue{
			Location: &botapi.Location{Latitude: req.Latitude, Longitude: req.Longitude},
			Title:    req.Title,
			Address:  req.Address,
		}
	})
}

type sendContactRequest struct {
	sendCommon
	PhoneNumber string `json:"phone_number"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name,omitempty"`
}

func (e *Engine) sendContact(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[sendContactRequest](payload)
	if err != nil {
		return nil, err
	}
	if err := checkNotEmpty("phone_number", req.PhoneNumber); err != nil {
		return nil, err
	}
	if err := checkNotEmpty("first_name", req.FirstName); err != nil {
		return nil, err
	}
	chat, err := e.prepareSend(req.sendCommon, "contacts", func(p botapi.ChatPermissions) bool {
		return p.CanSendMessages
	})
	if err != nil {
		return nil, err
	}

	return e.finishSend(chat, req.sendCommon, func(m *botapi.Message) {
		m.Contact = &botapi.Contact{
			PhoneNumber: req.PhoneNumber,
			FirstName:   req.FirstName,
			LastName:    req.LastName,
		}
	})
}

// diceSides maps each dice emoji to its face count.
var diceSides = map[string]int{
	"🎲": 6,
	"🎯": 6,
	"🎳": 6,
	"🏀": 5,
	"⚽": 5,
	"🎰": 64,
}

type sendDiceRequest struct {
	sendCommon
	Emoji string `json:"emoji,omitempty"`
}

func (e *Engine) sendDice(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[sendDiceRequest](payload)
	if err != nil {
		return nil, err
	}
	emoji := req.Emoji
	if emoji == "" {
		emoji = "🎲"
	}
	sides, known := diceSides[emoji]
	if !known {
		return nil, botapi.NewValidationError("wrong parameter emoji in request")
	}
	chat, err := e.prepareSend(req.sendCommon, "dice", func(p botapi.ChatPermissions) bool {
		return p.CanSendOtherMessages
	})
	if err != nil {
		return nil, err
	}
	// Deterministic roll derived from the simulated clock.
	value := int(e.clock.Unix()%int64(sides)) + 1

	return e.finishSend(chat, req.sendCommon, func(m *botapi.Message) {
		m.Dice = &botapi.Dice{Emoji: emoji, Value: value}
	})
}

type getFileRequest struct {
	FileID string `json:"file_id"`
}

func (e *Engine) getFile(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[getFileRequest](payload)
	if err != nil {
		return nil, err
	}
	if err := checkNotEmpty("file_id", req.FileID); err != nil {
		return nil, err
	}

	return e.files.Get(req.FileID)
}
