package engine

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"telesim/internal/state"
	"telesim/pkg/botapi"
)

const maxStickerSetNameLength = 64

type getStickerSetRequest struct {
	Name string `json:"name"`
}

func (e *Engine) getStickerSet(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[getStickerSetRequest](payload)
	if err != nil {
		return nil, err
	}
	if err := checkNotEmpty("sticker set name", req.Name); err != nil {
		return nil, err
	}

	return e.stickers.Get(req.Name)
}

type uploadStickerFileRequest struct {
	UserID   int64  `json:"user_id"`
	Sticker  string `json:"sticker"`
	Format   string `json:"sticker_format"`
	FileSize int64  `json:"file_size,omitempty"`
}

func (e *Engine) uploadStickerFile(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[uploadStickerFileRequest](payload)
	if err != nil {
		return nil, err
	}
	if req.UserID == 0 {
		return nil, botapi.NewValidationError("user_id is empty")
	}
	if err := checkNotEmpty("sticker", req.Sticker); err != nil {
		return nil, err
	}
	size := req.FileSize
	if size == 0 {
		size = int64(len(req.Sticker))
	}
	if size > botapi.MaxStickerSizeBytes {
		return nil, botapi.NewValidationError("file is too big")
	}

	return e.files.Store(state.StoredFileParams{
		Kind:    state.FileKindSticker,
		Size:    size,
		Content: []byte(req.Sticker),
		Width:   512,
		Height:  512,
	}), nil
}

type inputSticker struct {
	Sticker   string   `json:"sticker"`
	EmojiList []string `json:"emoji_list"`
}

type createNewStickerSetRequest struct {
	UserID      int64          `json:"user_id"`
	Name        string         `json:"name"`
	Title       string         `json:"title"`
	Stickers    []inputSticker `json:"stickers"`
	StickerType string         `json:"sticker_type,omitempty"`
}

func (e *Engine) createNewStickerSet(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[createNewStickerSetRequest](payload)
	if err != nil {
		return nil, err
	}
	if req.UserID == 0 {
		return nil, botapi.NewValidationError("user_id is empty")
	}
	if err := validateStickerSetName(req.Name); err != nil {
		return nil, err
	}
	if err := checkNotEmpty("sticker set title", req.Title); err != nil {
		return nil, err
	}
	if err := checkLength("sticker set title", req.Title, maxStickerSetNameLength); err != nil {
		return nil, err
	}
	if len(req.Stickers) == 0 {
		return nil, botapi.NewValidationError("stickers are empty")
	}
	stickerType := req.StickerType
	if stickerType == "" {
		stickerType = "regular"
	}
	for _, input := range req.Stickers {
		if err := e.checkInputSticker(input); err != nil {
			return nil, err
		}
	}
	if _, err := e.stickers.Get(req.Name); err == nil {
		return nil, botapi.NewValidationError("sticker set name is already occupied")
	}
	stickers := make([]botapi.Sticker, 0, len(req.Stickers))
	for _, input := range req.Stickers {
		stickers = append(stickers, e.buildSticker(input))
	}
	if err := e.stickers.CreateSet(req.UserID, botapi.StickerSet{
		Name:        req.Name,
		Title:       req.Title,
		StickerType: stickerType,
		Stickers:    stickers,
	}); err != nil {
		return nil, botapi.NewValidationError("sticker set name is already occupied")
	}

	return true, nil
}

func validateStickerSetName(name string) error {
	if name == "" || len(name) > maxStickerSetNameLength {
		return botapi.NewValidationError("invalid sticker set name")
	}
	for _, r := range strings.ToLower(name) {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '_') {
			return botapi.NewValidationError("invalid sticker set name")
		}
	}

	return nil
}

// checkInputSticker validates one input sticker without storing its file.
func (e *Engine) checkInputSticker(input inputSticker) error {
	if input.Sticker == "" {
		return botapi.NewValidationError("sticker is empty")
	}
	if len(input.EmojiList) == 0 {
		return botapi.NewValidationError("emoji_list is empty")
	}

	return e.checkAttachment(input.Sticker, state.FileKindSticker, mediaCommon{Width: 512, Height: 512})
}

// buildSticker stores one validated input sticker and returns its record.
// Callers run checkInputSticker and every set-level check first so a rejected
// call never touches the file store.
func (e *Engine) buildSticker(input inputSticker) botapi.Sticker {
	file := e.storeAttachment(input.Sticker, state.FileKindSticker, mediaCommon{Width: 512, Height: 512})

	return botapi.Sticker{
		FileID:       file.FileID,
		FileUniqueID: file.FileUniqueID,
		Type:         "regular",
		Width:        512,
		Height:       512,
		Emoji:        input.EmojiList[0],
		FileSize:     file.FileSize,
	}
}

type addStickerToSetRequest struct {
	UserID  int64        `json:"user_id"`
	Name    string       `json:"name"`
	Sticker inputSticker `json:"sticker"`
}

func (e *Engine) addStickerToSet(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[addStickerToSetRequest](payload)
	if err != nil {
		return nil, err
	}
	if err := checkNotEmpty("sticker set name", req.Name); err != nil {
		return nil, err
	}
	if err := e.checkInputSticker(req.Sticker); err != nil {
		return nil, err
	}
	if _, err := e.stickers.Get(req.Name); err != nil {
		return nil, err
	}
	if err := e.stickers.AddSticker(req.Name, e.buildSticker(req.Sticker)); err != nil {
		return nil, err
	}

	return true, nil
}

type stickerRequest struct {
	Sticker  string `json:"sticker"`
	Position int    `json:"position,omitempty"`
}

func (e *Engine) deleteStickerFromSet(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[stickerRequest](payload)
	if err != nil {
		return nil, err
	}
	if err := checkNotEmpty("sticker", req.Sticker); err != nil {
		return nil, err
	}
	if err := e.stickers.DeleteSticker(req.Sticker); err != nil {
		return nil, err
	}

	return true, nil
}

func (e *Engine) setStickerPositionInSet(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[stickerRequest](payload)
	if err != nil {
		return nil, err
	}
	if err := checkNotEmpty("sticker", req.Sticker); err != nil {
		return nil, err
	}
	if err := e.stickers.SetStickerPosition(req.Sticker, req.Position); err != nil {
		if errors.Is(err, state.ErrInvalidTransition) {
			return nil, botapi.NewValidationError("sticker position is out of range")
		}
		return nil, err
	}

	return true, nil
}

type setStickerSetTitleRequest struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

func (e *Engine) setStickerSetTitle(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[setStickerSetTitleRequest](payload)
	if err != nil {
		return nil, err
	}
	if err := checkNotEmpty("sticker set name", req.Name); err != nil {
		return nil, err
	}
	if err := checkNotEmpty("sticker set title", req.Title); err != nil {
		return nil, err
	}
	if err := checkLength("sticker set title", req.Title, maxStickerSetNameLength); err != nil {
		return nil, err
	}
	if err := e.stickers.SetTitle(req.Name, req.Title); err != nil {
		return nil, err
	}

	return true, nil
}

type setStickerSetThumbnailRequest struct {
	Name      string `json:"name"`
	UserID    int64  `json:"user_id"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

func (e *Engine) setStickerSetThumbnail(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[setStickerSetThumbnailRequest](payload)
	if err != nil {
		return nil, err
	}
	if err := checkNotEmpty("sticker set name", req.Name); err != nil {
		return nil, err
	}
	if _, err := e.stickers.Get(req.Name); err != nil {
		return nil, err
	}
	var thumbnail *botapi.PhotoSize
	if req.Thumbnail != "" {
		if err := e.checkAttachment(req.Thumbnail, state.FileKindSticker, mediaCommon{Width: 100, Height: 100}); err != nil {
			return nil, err
		}
		file := e.storeAttachment(req.Thumbnail, state.FileKindSticker, mediaCommon{Width: 100, Height: 100})
		thumbnail = &botapi.PhotoSize{
			FileID:       file.FileID,
			FileUniqueID: file.FileUniqueID,
			Width:        100,
			Height:       100,
			FileSize:     file.FileSize,
		}
	}
	if err := e.stickers.SetThumbnail(req.Name, thumbnail); err != nil {
		return nil, err
	}

	return true, nil
}

func (e *Engine) deleteStickerSet(_ context.Context, _ *Invocation, payload json.RawMessage) (any, error) {
	req, err := decode[getStickerSetRequest](payload)
	if err != nil {
		return nil, err
	}
	if err := checkNotEmpty("sticker set name", req.Name); err != nil {
		return nil, err
	}
	if err := e.stickers.DeleteSet(req.Name); err != nil {
		return nil, err
	}

	return true, nil
}
