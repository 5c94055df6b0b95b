package media

import (
	"bytes"
	"context"
	"io"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

const (
	// Posts are normalized to fit inside this box, preserving aspect ratio.
	// Smaller images are left at their original size.
	MaxWidth  = 800
	MaxHeight = 800

	JPEGQuality = 80

	// MaxUploadSizeBytes caps the raw upload before any decoding happens.
	MaxUploadSizeBytes = 5 * 1024 * 1024
)

var ErrNoImage = errors.New("no image supplied")

// Uploader stores an encoded image in object storage and returns a durable,
// publicly resolvable URL for it.
type Uploader interface {
	Upload(ctx context.Context, r io.Reader) (string, error)
}

// Service is the image ingestion pipeline: normalize raw bytes, hand them to
// object storage, return the reference URL.
type Service struct {
	uploader Uploader
}

func NewService(uploader Uploader) *Service {
	return &Service{uploader: uploader}
}

// Normalize decodes the raw bytes, scales the image down to fit inside
// MaxWidth x MaxHeight and re-encodes it as JPEG at JPEGQuality.
func Normalize(raw []byte) ([]byte, error) {
	if len(raw) == 0 {
		return nil, ErrNoImage
	}

	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(err, "decode image")
	}

	fitted := imaging.Fit(img, MaxWidth, MaxHeight, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, fitted, imaging.JPEG, imaging.JPEGQuality(JPEGQuality)); err != nil {
		return nil, errors.Wrap(err, "encode image")
	}
	return buf.Bytes(), nil
}

// Ingest runs the full pipeline and returns the stored image's URL.
func (s *Service) Ingest(ctx context.Context, raw []byte) (string, error) {
	encoded, err := Normalize(raw)
	if err != nil {
		return "", err
	}

	url, err := s.uploader.Upload(ctx, bytes.NewReader(encoded))
	if err != nil {
		return "", errors.Wrap(err, "upload image")
	}
	return url, nil
}
