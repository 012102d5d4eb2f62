package media

import (
	"bytes"
	"context"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Quill/internal/core/posts"
)

// createTestPNG creates a test PNG image with the specified dimensions.
func createTestPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 64, G: 128, B: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// smallGIF is the 2x1 image used by the post form tests
func smallGIF(t *testing.T) []byte {
	t.Helper()
	img := image.NewPaletted(image.Rect(0, 0, 2, 1), []color.Color{color.Black, color.White})
	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, img, nil))
	return buf.Bytes()
}

func newStore(t *testing.T, maxWidth int) *DiskStore {
	t.Helper()
	store, err := NewDiskStore(t.TempDir(), maxWidth, nil)
	require.NoError(t, err)
	return store
}

func TestValidate(t *testing.T) {
	store := newStore(t, DefaultMaxWidth)

	assert.NoError(t, store.Validate("small.gif", smallGIF(t)))
	assert.NoError(t, store.Validate("pic.png", createTestPNG(t, 4, 4)))
	assert.ErrorIs(t, store.Validate("empty.gif", nil), ErrEmptyImage)
	assert.ErrorIs(t, store.Validate("notes.gif", []byte("definitely not an image")), ErrUnsupportedFormat)
}

// pngHeader returns a PNG signature and IHDR chunk declaring a width x height
// grayscale image, with no pixel data after it
func pngHeader(width, height uint32) []byte {
	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")

	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], width)
	binary.BigEndian.PutUint32(ihdr[4:8], height)
	ihdr[8] = 8 // bit depth; color type, compression, filter and interlace stay 0

	chunk := append([]byte("IHDR"), ihdr...)
	_ = binary.Write(&buf, binary.BigEndian, uint32(len(ihdr)))
	buf.Write(chunk)
	_ = binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk))
	return buf.Bytes()
}

func TestValidate_RejectsHugeDimensions(t *testing.T) {
	store := newStore(t, DefaultMaxWidth)
	huge := pngHeader(15000, 15000)

	err := store.Validate("bomb.png", huge)
	assert.ErrorIs(t, err, ErrImageTooLarge)
	assert.ErrorIs(t, err, posts.ErrInvalidImage)

	_, err = store.Save(context.Background(), "bomb.png", huge)
	assert.ErrorIs(t, err, ErrImageTooLarge)

	entries, err := os.ReadDir(filepath.Join(store.Root(), PostsDir))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestValidate_AcceptsHeaderAtPixelLimit(t *testing.T) {
	store := newStore(t, DefaultMaxWidth)
	assert.NoError(t, store.Validate("edge.png", pngHeader(8000, 5000)))
	assert.ErrorIs(t, store.Validate("over.png", pngHeader(8000, 5001)), ErrImageTooLarge)
}

func TestSave_TruncatedBodyIsInvalidImage(t *testing.T) {
	store := newStore(t, DefaultMaxWidth)
	data := createTestPNG(t, 4, 4)
	truncated := data[:40]

	require.NoError(t, store.Validate("cut.png", truncated), "header alone is well formed")

	_, err := store.Save(context.Background(), "cut.png", truncated)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.ErrorIs(t, err, posts.ErrInvalidImage)
}

func TestSave_KeepsSmallImagesVerbatim(t *testing.T) {
	store := newStore(t, DefaultMaxWidth)
	data := smallGIF(t)

	rel, err := store.Save(context.Background(), "small.gif", data)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(rel, "posts/"))
	assert.True(t, strings.HasSuffix(rel, ".gif"))

	stored, err := os.ReadFile(filepath.Join(store.Root(), filepath.FromSlash(rel)))
	require.NoError(t, err)
	assert.Equal(t, data, stored)
}

func TestSave_UniqueNames(t *testing.T) {
	store := newStore(t, DefaultMaxWidth)
	data := smallGIF(t)

	a, err := store.Save(context.Background(), "small.gif", data)
	require.NoError(t, err)
	b, err := store.Save(context.Background(), "small.gif", data)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestSave_DownscalesWideImages(t *testing.T) {
	store := newStore(t, 100)

	rel, err := store.Save(context.Background(), "wide.png", createTestPNG(t, 400, 200))
	require.NoError(t, err)

	f, err := os.Open(filepath.Join(store.Root(), filepath.FromSlash(rel)))
	require.NoError(t, err)
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 50, cfg.Height)
}

func TestSave_JPEGExtension(t *testing.T) {
	store := newStore(t, DefaultMaxWidth)
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 3, 3)), nil))

	rel, err := store.Save(context.Background(), "photo.jpeg", buf.Bytes())
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(rel, ".jpg"))
}

func TestDelete(t *testing.T) {
	store := newStore(t, DefaultMaxWidth)
	ctx := context.Background()

	rel, err := store.Save(ctx, "small.gif", smallGIF(t))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, rel))
	_, err = os.Stat(filepath.Join(store.Root(), filepath.FromSlash(rel)))
	assert.True(t, os.IsNotExist(err))

	// deleting twice is fine
	assert.NoError(t, store.Delete(ctx, rel))
}

func TestDelete_RejectsEscapingPaths(t *testing.T) {
	store := newStore(t, DefaultMaxWidth)

	for _, rel := range []string{"../etc/passwd", "posts/../../x", "other/file.png", "/abs/path.png"} {
		assert.ErrorIs(t, store.Delete(context.Background(), rel), ErrInvalidPath, rel)
	}
}
