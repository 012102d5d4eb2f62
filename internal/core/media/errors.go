package media

import (
	"errors"
	"fmt"

	"Quill/internal/core/posts"
)

var (
	// ErrEmptyImage is returned when an upload has no bytes.
	ErrEmptyImage = fmt.Errorf("%w: empty image data", posts.ErrInvalidImage)

	// ErrUnsupportedFormat is returned when the upload is not a decodable image.
	ErrUnsupportedFormat = fmt.Errorf("%w: unsupported image format", posts.ErrInvalidImage)

	// ErrImageTooLarge is returned when the image has more than MaxPixels pixels.
	ErrImageTooLarge = fmt.Errorf("%w: image dimensions too large", posts.ErrInvalidImage)

	// ErrProcessingFailed is returned when resizing or encoding fails.
	ErrProcessingFailed = errors.New("image processing failed")

	// ErrInvalidPath is returned when a stored path escapes the media root.
	ErrInvalidPath = errors.New("invalid media path")
)
