package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"
)

// ProgressFunc reports bytes transferred out of total for a streamed upload.
type ProgressFunc func(transferred, total int64)

// BlobStore writes assets by path and returns a stable retrieval URL.
type BlobStore interface {
	Put(ctx context.Context, path string, r io.Reader, size int64, contentType string, progress ProgressFunc) (string, error)
}

// AssetFile is a binary upload, e.g. a multipart file part.
type AssetFile struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// Asset is either a binary file or an inline data URL. File wins when both are set.
type Asset struct {
	File   *AssetFile
	Inline string
}

var (
	ErrAssetTooLarge   = errors.New("asset exceeds the upload size limit")
	ErrEmptyAsset      = errors.New("asset is empty")
	ErrInvalidInline   = errors.New("invalid inline image")
	ErrBlobUnavailable = errors.New("blob store unavailable")
)

// UploadError wraps any failure to upload an asset.
type UploadError struct {
	Path string
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %s: %v", e.Path, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// IsInlineImage reports whether v is a data:image URL rather than a retrieval URL.
func IsInlineImage(v string) bool {
	return strings.HasPrefix(v, "data:image")
}

// DecodeInlineImage splits a base64 data URL into its bytes and content type.
func DecodeInlineImage(v string) ([]byte, string, error) {
	if !IsInlineImage(v) {
		return nil, "", ErrInvalidInline
	}
	header, payload, ok := strings.Cut(strings.TrimPrefix(v, "data:"), ",")
	if !ok {
		return nil, "", ErrInvalidInline
	}
	params := strings.Split(header, ";")
	contentType := params[0]
	isBase64 := false
	for _, p := range params[1:] {
		if p == "base64" {
			isBase64 = true
		}
	}
	if !isBase64 {
		return nil, "", fmt.Errorf("%w: only base64 data URLs are supported", ErrInvalidInline)
	}
	if _, _, err := mime.ParseMediaType(contentType); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidInline, err)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidInline, err)
	}
	return data, contentType, nil
}

// inlineSize estimates the decoded size of a base64 data URL without decoding it.
func inlineSize(v string) int64 {
	_, payload, ok := strings.Cut(v, ",")
	if !ok {
		return 0
	}
	return int64(base64.StdEncoding.DecodedLen(len(payload)))
}

// progressReader calls progress after every read.
type progressReader struct {
	r           io.Reader
	total       int64
	transferred int64
	progress    ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.transferred += int64(n)
		p.progress(p.transferred, p.total)
	}
	return n, err
}

func withProgress(r io.Reader, total int64, progress ProgressFunc) io.Reader {
	if progress == nil {
		return r
	}
	return &progressReader{r: r, total: total, progress: progress}
}
