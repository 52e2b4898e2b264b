package model

import (
	"fmt"
	"path"
	"strings"

	"github.com/smirnovds/townsquare/internal/common"
)

// MaxImageSize is the upload ceiling for content images.
const MaxImageSize = 5 << 20

var allowedImageExtensions = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".webp": true,
}

// ImageBlob is an opaque candidate image produced by the picker: raw bytes
// plus the original filename used for extension checks.
type ImageBlob struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Size returns the blob length in bytes.
func (b *ImageBlob) Size() int64 {
	if b == nil {
		return 0
	}
	return int64(len(b.Data))
}

// Ext returns the lower-cased filename extension, dot included.
func (b *ImageBlob) Ext() string {
	return strings.ToLower(path.Ext(b.Filename))
}

// Validate rejects absent, oversized, or wrong-type images. It performs no
// I/O, so both the client core and the object store gateway can fail fast
// before any network side effect.
func (b *ImageBlob) Validate() error {
	if b == nil || len(b.Data) == 0 {
		return fmt.Errorf("%w: image is empty or unreadable", common.ErrorValidation)
	}
	if b.Size() > MaxImageSize {
		return fmt.Errorf("%w: Image size exceeds 5MB limit", common.ErrorValidation)
	}
	if ext := b.Ext(); !allowedImageExtensions[ext] {
		return fmt.Errorf("%w: unsupported image type %q (allowed: jpeg, jpg, png, webp)", common.ErrorValidation, ext)
	}
	return nil
}
