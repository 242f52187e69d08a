package helpers

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const (
	AvatarFolder   = "avatars"
	MaxAvatarBytes = 2 << 20
)

var (
	ErrAvatarTooLarge = errors.New("avatar image is too large")
	ErrNotAnImage     = errors.New("avatar must be an image")
)

func StringTrim(s string) string {
	return strings.TrimSpace(s)
}

// ImageMediaType returns the bare media type of contentType, or ErrNotAnImage
// unless it is an image/* type.
func ImageMediaType(contentType string) (string, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "image/") {
		return "", ErrNotAnImage
	}
	return mediaType, nil
}

// ReadAvatar reads at most MaxAvatarBytes from r and fails with
// ErrAvatarTooLarge when there is more.
func ReadAvatar(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxAvatarBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read avatar: %w", err)
	}
	if len(data) > MaxAvatarBytes {
		return nil, ErrAvatarTooLarge
	}
	return data, nil
}

// DataURI encodes an image the way a browser FileReader would, as
// data:<mime>;base64,<payload>.
func DataURI(contentType string, data []byte) (string, error) {
	mediaType, err := ImageMediaType(contentType)
	if err != nil {
		return "", err
	}
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

type CloudinaryUploader struct {
	cld  *cloudinary.Cloudinary
	tags []string
}

func NewCloudinaryUploader(cld *cloudinary.Cloudinary) *CloudinaryUploader {
	return &CloudinaryUploader{cld: cld, tags: []string{"shelf-avatar"}}
}

func (cu *CloudinaryUploader) UploadAvatar(ctx context.Context, filename string, r io.Reader) (string, error) {
	if cu.cld == nil {
		return "", fmt.Errorf("cloudinary client is not initialized")
	}
	res, err := cu.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder: AvatarFolder,
		Tags:   cu.tags,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image %s: %v", filename, err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("failed to upload image %s: %s", filename, res.Error.Message)
	}
	return res.SecureURL, nil
}
