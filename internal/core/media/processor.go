package media

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// DefaultMaxWidth is the widest image kept as uploaded; wider images are scaled down.
const DefaultMaxWidth = 1200

// MaxPixels bounds width*height of an upload. A decoded image costs up to
// 4 bytes per pixel whatever its compressed size.
const MaxPixels = 40_000_000

// header is the format and size read from an upload without decoding its pixels
type header struct {
	format string
	width  int
	height int
}

// inspect reads the image header and enforces format and size limits
func inspect(data []byte) (*header, error) {
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		if isUnsupportedFormatError(err) {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
		}
		return nil, fmt.Errorf("%w: failed to read image header: %v", ErrUnsupportedFormat, err)
	}

	switch format {
	case "jpeg", "png", "gif", "webp":
	default:
		return nil, fmt.Errorf("%w: format %s", ErrUnsupportedFormat, format)
	}

	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: empty dimensions %dx%d", ErrUnsupportedFormat, cfg.Width, cfg.Height)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrImageTooLarge, cfg.Width, cfg.Height, MaxPixels)
	}

	return &header{format: format, width: cfg.Width, height: cfg.Height}, nil
}

// prepare returns the bytes to store and the file extension for them.
// The upload is decoded exactly once, after its header passed inspect.
// Images within maxWidth are stored untouched so animated GIFs survive.
func prepare(data []byte, maxWidth int) ([]byte, string, error) {
	h, err := inspect(data)
	if err != nil {
		return nil, "", err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: failed to decode image: %v", ErrUnsupportedFormat, err)
	}

	if maxWidth <= 0 || h.width <= maxWidth {
		return data, extensionFor(h.format), nil
	}

	resized := imaging.Resize(img, maxWidth, 0, imaging.Lanczos)

	// webp has no encoder here, so it is re-encoded as PNG
	outFormat := imaging.PNG
	ext := ".png"
	switch h.format {
	case "jpeg":
		outFormat, ext = imaging.JPEG, ".jpg"
	case "gif":
		outFormat, ext = imaging.GIF, ".gif"
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, outFormat, imaging.JPEGQuality(85)); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrProcessingFailed, err)
	}
	return buf.Bytes(), ext, nil
}

func extensionFor(format string) string {
	switch format {
	case "jpeg":
		return ".jpg"
	default:
		return "." + format
	}
}

// isUnsupportedFormatError checks if the decode error means "not an image we know"
func isUnsupportedFormatError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "unknown format")
}
