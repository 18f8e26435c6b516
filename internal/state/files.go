package state

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"telesim/pkg/botapi"
)

// FileKind identifies the stored file category, which drives size caps and
// path synthesis.
type FileKind string

const (
	// FileKindPhoto is an image upload.
	FileKindPhoto FileKind = "photo"
	// FileKindDocument is a generic file upload.
	FileKindDocument FileKind = "document"
	// FileKindAudio is an audio upload.
	FileKindAudio FileKind = "audio"
	// FileKindVideo is a video upload.
	FileKindVideo FileKind = "video"
	// FileKindVoice is a voice note upload.
	FileKindVoice FileKind = "voice"
	// FileKindAnimation is an animation upload.
	FileKindAnimation FileKind = "animation"
	// FileKindSticker is a sticker upload.
	FileKindSticker FileKind = "sticker"
)

// FileStore owns stored file metadata. File content is modeled only to the
// level observable by a bot: identifiers, sizes, and derived metadata.
type FileStore struct {
	mu    sync.Mutex
	files map[string]*storedFile
}

type storedFile struct {
	file     botapi.File
	kind     FileKind
	content  []byte
	width    int
	height   int
	duration int
}

// NewFileStore creates an empty file store.
func NewFileStore() *FileStore {
	return &FileStore{files: make(map[string]*storedFile)}
}

// StoredFileParams carries metadata for one stored file.
type StoredFileParams struct {
	Kind     FileKind
	Size     int64
	Content  []byte
	Width    int
	Height   int
	Duration int
}

// Store registers one file and returns its identifiers.
func (s *FileStore) Store(params StoredFileParams) botapi.File {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.storeLocked(params)
}

func (s *FileStore) storeLocked(params StoredFileParams) botapi.File {
	unique := strings.ReplaceAll(uuid.NewString(), "-", "")
	size := params.Size
	if size == 0 {
		size = int64(len(params.Content))
	}
	record := &storedFile{
		file: botapi.File{
			FileID:       string(params.Kind) + ":" + unique,
			FileUniqueID: unique[:16],
			FileSize:     size,
			FilePath:     fmt.Sprintf("%ss/file_%s", params.Kind, unique[:8]),
		},
		kind:     params.Kind,
		content:  params.Content,
		width:    params.Width,
		height:   params.Height,
		duration: params.Duration,
	}
	s.files[record.file.FileID] = record

	return record.file
}

// StorePhotoFamily stores one photo as a small family of resolutions linked
// by a shared base identifier, largest last as the platform orders them.
func (s *FileStore) StorePhotoFamily(width, height int, size int64) []botapi.PhotoSize {
	s.mu.Lock()
	defer s.mu.Unlock()

	if width <= 0 {
		width = 1280
	}
	if height <= 0 {
		height = 960
	}

	scales := []int{4, 2, 1}
	family := make([]botapi.PhotoSize, 0, len(scales))
	for _, scale := range scales {
		file := s.storeLocked(StoredFileParams{
			Kind:   FileKindPhoto,
			Size:   size / int64(scale*scale),
			Width:  width / scale,
			Height: height / scale,
		})
		family = append(family, botapi.PhotoSize{
			FileID:       file.FileID,
			FileUniqueID: file.FileUniqueID,
			Width:        width / scale,
			Height:       height / scale,
			FileSize:     file.FileSize,
		})
	}

	return family
}

// Len reports the number of stored files.
func (s *FileStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.files)
}

// Get returns stored file metadata by file id.
func (s *FileStore) Get(fileID string) (botapi.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.files[fileID]
	if !exists {
		return botapi.File{}, ErrFileNotFound
	}

	return record.file, nil
}

// Content returns stored content bytes when the upload carried any.
func (s *FileStore) Content(fileID string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.files[fileID]
	if !exists {
		return nil, ErrFileNotFound
	}

	return append([]byte(nil), record.content...), nil
}

// Dimensions returns derived metadata for media files.
func (s *FileStore) Dimensions(fileID string) (width, height, duration int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.files[fileID]
	if !exists {
		return 0, 0, 0, ErrFileNotFound
	}

	return record.width, record.height, record.duration, nil
}

// MaxSize reports the upload size cap for a file kind.
func MaxSize(kind FileKind) int64 {
	switch kind {
	case FileKindPhoto:
		return botapi.MaxPhotoSizeBytes
	case FileKindSticker:
		return botapi.MaxStickerSizeBytes
	default:
		return botapi.MaxMediaSizeBytes
	}
}
