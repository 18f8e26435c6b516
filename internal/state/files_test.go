package state

import (
	"bytes"
	"errors"
	"testing"

	"telesim/pkg/botapi"
)

// TestFileStoreRoundTrip verifies identifier minting and metadata retrieval.
func TestFileStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store := NewFileStore()
	content := []byte("simulated bytes")
	stored := store.Store(StoredFileParams{
		Kind:     FileKindVideo,
		Content:  content,
		Width:    640,
		Height:   480,
		Duration: 12,
	})

	if stored.FileID == "" || stored.FileUniqueID == "" {
		t.Fatalf("file = %+v, want minted identifiers", stored)
	}
	if stored.FileSize != int64(len(content)) {
		t.Fatalf("size = %d, want %d", stored.FileSize, len(content))
	}

	got, err := store.Get(stored.FileID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.FileID != stored.FileID {
		t.Fatalf("file id = %q, want %q", got.FileID, stored.FileID)
	}

	data, err := store.Content(stored.FileID)
	if err != nil {
		t.Fatalf("content failed: %v", err)
	}
	if !bytes.Equal(data, content) {
		t.Fatalf("content = %q, want %q", data, content)
	}

	width, height, duration, err := store.Dimensions(stored.FileID)
	if err != nil {
		t.Fatalf("dimensions failed: %v", err)
	}
	if width != 640 || height != 480 || duration != 12 {
		t.Fatalf("dimensions = %dx%d/%ds, want 640x480/12s", width, height, duration)
	}

	if _, err := store.Get("missing"); !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("get unknown file error = %v, want ErrFileNotFound", err)
	}
}

// TestFileStoreSizeHintWins verifies that an explicit size overrides content
// length.
func TestFileStoreSizeHintWins(t *testing.T) {
	t.Parallel()

	store := NewFileStore()
	stored := store.Store(StoredFileParams{
		Kind:    FileKindDocument,
		Size:    1 << 20,
		Content: []byte("tiny"),
	})
	if stored.FileSize != 1<<20 {
		t.Fatalf("size = %d, want %d", stored.FileSize, 1<<20)
	}
}

// TestStorePhotoFamily verifies the resolution family shape.
func TestStorePhotoFamily(t *testing.T) {
	t.Parallel()

	store := NewFileStore()
	family := store.StorePhotoFamily(1280, 960, 4096)

	if len(family) != 3 {
		t.Fatalf("family size = %d, want 3", len(family))
	}
	// Largest resolution last, as the platform orders photo sizes.
	last := family[len(family)-1]
	if last.Width != 1280 || last.Height != 960 {
		t.Fatalf("largest = %dx%d, want 1280x960", last.Width, last.Height)
	}
	for i := 1; i < len(family); i++ {
		if family[i].Width <= family[i-1].Width {
			t.Fatalf("family widths not increasing: %d then %d", family[i-1].Width, family[i].Width)
		}
	}
}

// TestMaxSizePerKind verifies the upload caps per file category.
func TestMaxSizePerKind(t *testing.T) {
	t.Parallel()

	if got := MaxSize(FileKindPhoto); got != botapi.MaxPhotoSizeBytes {
		t.Fatalf("photo cap = %d, want %d", got, botapi.MaxPhotoSizeBytes)
	}
	if got := MaxSize(FileKindSticker); got != botapi.MaxStickerSizeBytes {
		t.Fatalf("sticker cap = %d, want %d", got, botapi.MaxStickerSizeBytes)
	}
	if got := MaxSize(FileKindVideo); got != botapi.MaxMediaSizeBytes {
		t.Fatalf("video cap = %d, want %d", got, botapi.MaxMediaSizeBytes)
	}
}
