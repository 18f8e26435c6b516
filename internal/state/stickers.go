package state

import (
	"sync"

	"telesim/pkg/botapi"
)

// StickerStore owns named sticker sets and their ordered sticker lists.
type StickerStore struct {
	mu   sync.Mutex
	sets map[string]*stickerSet
}

type stickerSet struct {
	set   botapi.StickerSet
	owner int64
}

// NewStickerStore creates an empty sticker set store.
func NewStickerStore() *StickerStore {
	return &StickerStore{sets: make(map[string]*stickerSet)}
}

// CreateSet registers a new sticker set owned by ownerID. Creating an
// existing name fails.
func (s *StickerStore) CreateSet(ownerID int64, set botapi.StickerSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sets[set.Name]; exists {
		return ErrInvalidTransition
	}
	for i := range set.Stickers {
		set.Stickers[i].SetName = set.Name
	}
	s.sets[set.Name] = &stickerSet{set: set, owner: ownerID}

	return nil
}

// Get returns a copy of one sticker set.
func (s *StickerStore) Get(name string) (botapi.StickerSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.sets[name]
	if !exists {
		return botapi.StickerSet{}, ErrStickerSetNotFound
	}

	return record.snapshot(), nil
}

// AddSticker appends a sticker to a set.
func (s *StickerStore) AddSticker(name string, sticker botapi.Sticker) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.sets[name]
	if !exists {
		return ErrStickerSetNotFound
	}
	sticker.SetName = name
	record.set.Stickers = append(record.set.Stickers, sticker)

	return nil
}

// DeleteSticker removes a sticker from its set by file id.
func (s *StickerStore) DeleteSticker(fileID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range s.sets {
		for i, sticker := range record.set.Stickers {
			if sticker.FileID == fileID {
				record.set.Stickers = append(record.set.Stickers[:i], record.set.Stickers[i+1:]...)
				return nil
			}
		}
	}

	return ErrStickerNotFound
}

// SetStickerPosition moves a sticker to a new position in its set.
func (s *StickerStore) SetStickerPosition(fileID string, position int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range s.sets {
		for i, sticker := range record.set.Stickers {
			if sticker.FileID != fileID {
				continue
			}
			if position < 0 || position >= len(record.set.Stickers) {
				return ErrInvalidTransition
			}
			stickers := append(record.set.Stickers[:i], record.set.Stickers[i+1:]...)
			stickers = append(stickers, botapi.Sticker{})
			copy(stickers[position+1:], stickers[position:])
			stickers[position] = sticker
			record.set.Stickers = stickers
			return nil
		}
	}

	return ErrStickerNotFound
}

// SetTitle renames a sticker set.
func (s *StickerStore) SetTitle(name, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.sets[name]
	if !exists {
		return ErrStickerSetNotFound
	}
	record.set.Title = title

	return nil
}

// SetThumbnail replaces the set thumbnail; nil clears it.
func (s *StickerStore) SetThumbnail(name string, thumbnail *botapi.PhotoSize) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.sets[name]
	if !exists {
		return ErrStickerSetNotFound
	}
	record.set.Thumbnail = thumbnail

	return nil
}

// DeleteSet removes a sticker set entirely.
func (s *StickerStore) DeleteSet(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sets[name]; !exists {
		return ErrStickerSetNotFound
	}
	delete(s.sets, name)

	return nil
}

func (r *stickerSet) snapshot() botapi.StickerSet {
	set := r.set
	set.Stickers = append([]botapi.Sticker(nil), r.set.Stickers...)

	return set
}
