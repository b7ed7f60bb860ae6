package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"

	"CafeMaemi/models"

	"github.com/google/uuid"
)

// DefaultMaxUploadBytes is the largest asset accepted when none is configured.
const DefaultMaxUploadBytes int64 = 2 << 20

type ContentOptions struct {
	MaxUploadBytes int64
	// WatchBackoff overrides the first reconnect delay of the watch loops.
	WatchBackoff time.Duration
}

// ContentService mirrors the content collections and applies admin mutations.
// Mutations go to the store only; the mirrors change when the store pushes
// the resulting snapshot back.
type ContentService struct {
	Store  DocumentStore
	Blobs  BlobStore
	Logger *slog.Logger

	Menu    *Mirror[models.MenuItem]
	Reviews *Mirror[models.Review]
	Gallery *Mirror[models.GalleryItem]

	maxUploadBytes int64
	now            func() time.Time
	pathSuffix     func() string

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewContentService(store DocumentStore, blobs BlobStore, opts ContentOptions, logger *slog.Logger) *ContentService {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	s := &ContentService{
		Store:          store,
		Blobs:          blobs,
		Logger:         logger,
		Menu:           NewMirror(CollectionMenu, decodeMenuItem, logger),
		Reviews:        NewMirror(CollectionReviews, decodeReview, logger),
		Gallery:        NewMirror(CollectionGallery, decodeGalleryItem, logger),
		maxUploadBytes: opts.MaxUploadBytes,
		now:            time.Now,
		pathSuffix:     shortID,
	}
	if opts.WatchBackoff > 0 {
		s.Menu.backoffMin = opts.WatchBackoff
		s.Reviews.backoffMin = opts.WatchBackoff
		s.Gallery.backoffMin = opts.WatchBackoff
	}
	return s
}

// MaxUploadBytes is the size limit applied to every asset.
func (s *ContentService) MaxUploadBytes() int64 { return s.maxUploadBytes }

// Start launches one watch loop per mirrored collection.
func (s *ContentService) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)

	runners := []func(context.Context){
		func(ctx context.Context) { s.Menu.Run(ctx, s.Store) },
		func(ctx context.Context) { s.Reviews.Run(ctx, s.Store) },
		func(ctx context.Context) { s.Gallery.Run(ctx, s.Store) },
	}
	for _, run := range runners {
		s.wg.Add(1)
		go func(run func(context.Context)) {
			defer s.wg.Done()
			run(ctx)
		}(run)
	}
	s.Logger.Info("content mirrors started")
}

// Stop ends the watch loops and waits for them to exit.
func (s *ContentService) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	s.wg.Wait()
	s.Logger.Info("content mirrors stopped")
}

// Stale reports the collections whose watch is currently failing.
func (s *ContentService) Stale() map[string]string {
	stale := make(map[string]string)
	if snap, _ := s.Menu.Current(); snap.Stale {
		stale[snap.Collection] = snap.Err
	}
	if snap, _ := s.Reviews.Current(); snap.Stale {
		stale[snap.Collection] = snap.Err
	}
	if snap, _ := s.Gallery.Current(); snap.Stale {
		stale[snap.Collection] = snap.Err
	}
	return stale
}

func (s *ContentService) CreateMenuItem(ctx context.Context, item models.MenuItem, file *AssetFile, progress ProgressFunc) (string, error) {
	if err := item.Validate(); err != nil {
		return "", err
	}
	image, err := s.resolveImage(ctx, item.Image, file, s.assetPath("menu", item.NameEn), progress)
	if err != nil {
		return "", err
	}
	item.Image = image
	return s.Store.Create(ctx, CollectionMenu, item.ID, menuItemFields(item, false))
}

func (s *ContentService) UpdateMenuItem(ctx context.Context, item models.MenuItem, file *AssetFile, progress ProgressFunc) error {
	if err := item.Validate(); err != nil {
		return err
	}
	image, err := s.resolveImage(ctx, item.Image, file, s.assetPath("menu", item.NameEn), progress)
	if err != nil {
		return err
	}
	item.Image = image
	return s.Store.Update(ctx, CollectionMenu, item.ID, menuItemFields(item, true))
}

func (s *ContentService) DeleteMenuItem(ctx context.Context, id string) error {
	return s.Store.Delete(ctx, CollectionMenu, id)
}

func (s *ContentService) CreateReview(ctx context.Context, review models.Review, file *AssetFile, progress ProgressFunc) (string, error) {
	if err := review.Validate(); err != nil {
		return "", err
	}
	avatar, err := s.resolveImage(ctx, review.Avatar, file, s.assetPath("avatars", review.Author), progress)
	if err != nil {
		return "", err
	}
	review.Avatar = avatar
	return s.Store.Create(ctx, CollectionReviews, review.ID, reviewFields(review, false))
}

func (s *ContentService) UpdateReview(ctx context.Context, review models.Review, file *AssetFile, progress ProgressFunc) error {
	if err := review.Validate(); err != nil {
		return err
	}
	avatar, err := s.resolveImage(ctx, review.Avatar, file, s.assetPath("avatars", review.Author), progress)
	if err != nil {
		return err
	}
	review.Avatar = avatar
	return s.Store.Update(ctx, CollectionReviews, review.ID, reviewFields(review, true))
}

func (s *ContentService) DeleteReview(ctx context.Context, id string) error {
	return s.Store.Delete(ctx, CollectionReviews, id)
}

// CreateGalleryItem needs an image: either src or an uploaded file.
func (s *ContentService) CreateGalleryItem(ctx context.Context, item models.GalleryItem, file *AssetFile, progress ProgressFunc) (string, error) {
	src, err := s.resolveImage(ctx, item.Src, file, s.assetPath("gallery", ""), progress)
	if err != nil {
		return "", err
	}
	item.Src = src
	if err := item.Validate(); err != nil {
		return "", err
	}
	return s.Store.Create(ctx, CollectionGallery, item.ID, galleryItemFields(item, false))
}

func (s *ContentService) UpdateGalleryItem(ctx context.Context, item models.GalleryItem, file *AssetFile, progress ProgressFunc) error {
	src, err := s.resolveImage(ctx, item.Src, file, s.assetPath("gallery", ""), progress)
	if err != nil {
		return err
	}
	item.Src = src
	if err := item.Validate(); err != nil {
		return err
	}
	return s.Store.Update(ctx, CollectionGallery, item.ID, galleryItemFields(item, true))
}

func (s *ContentService) DeleteGalleryItem(ctx context.Context, id string) error {
	return s.Store.Delete(ctx, CollectionGallery, id)
}

// AddMessage stores a contact form submission stamped with the store's clock.
func (s *ContentService) AddMessage(ctx context.Context, msg models.ContactMessage) (string, error) {
	msg = msg.Trim()
	if err := msg.Validate(); err != nil {
		return "", err
	}
	return s.Store.Create(ctx, CollectionMessages, "", contactMessageFields(msg))
}

// ListMessages returns contact messages, newest first.
func (s *ContentService) ListMessages(ctx context.Context, limit int) ([]models.ContactMessage, error) {
	docs, err := s.Store.Query(ctx, CollectionMessages, "createdAt", true, limit)
	if err != nil {
		return nil, err
	}
	messages := make([]models.ContactMessage, 0, len(docs))
	for _, doc := range docs {
		msg, err := decodeContactMessage(doc)
		if err != nil {
			s.Logger.Error("skipping malformed message", "id", doc.ID, "error", err)
			continue
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func (s *ContentService) DeleteMessage(ctx context.Context, id string) error {
	return s.Store.Delete(ctx, CollectionMessages, id)
}

// UploadAsset writes a file or an inline data URL to the blob store and
// returns its retrieval URL. Oversized assets fail before any blob call.
func (s *ContentService) UploadAsset(ctx context.Context, asset Asset, path string, progress ProgressFunc) (string, error) {
	if asset.File != nil {
		return s.uploadFile(ctx, asset.File, path, progress)
	}
	return s.uploadInline(ctx, asset.Inline, path)
}

func (s *ContentService) uploadFile(ctx context.Context, file *AssetFile, path string, progress ProgressFunc) (string, error) {
	if file.Size > s.maxUploadBytes {
		return "", &UploadError{Path: path, Err: ErrAssetTooLarge}
	}
	if file.Size <= 0 || file.Reader == nil {
		return "", &UploadError{Path: path, Err: ErrEmptyAsset}
	}
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	// Guard against a Size that understates the body.
	body := io.LimitReader(file.Reader, file.Size)
	url, err := s.Blobs.Put(ctx, path, body, file.Size, contentType, progress)
	if err != nil {
		s.Logger.Error("asset upload failed", "path", path, "error", err)
		return "", &UploadError{Path: path, Err: err}
	}
	return url, nil
}

func (s *ContentService) uploadInline(ctx context.Context, inline, path string) (string, error) {
	if inline == "" {
		return "", &UploadError{Path: path, Err: ErrEmptyAsset}
	}
	if inlineSize(inline) > s.maxUploadBytes {
		return "", &UploadError{Path: path, Err: ErrAssetTooLarge}
	}
	data, contentType, err := DecodeInlineImage(inline)
	if err != nil {
		return "", &UploadError{Path: path, Err: err}
	}
	if len(data) == 0 {
		return "", &UploadError{Path: path, Err: ErrEmptyAsset}
	}
	if int64(len(data)) > s.maxUploadBytes {
		return "", &UploadError{Path: path, Err: ErrAssetTooLarge}
	}

	url, err := s.Blobs.Put(ctx, path, bytes.NewReader(data), int64(len(data)), contentType, nil)
	if err != nil {
		s.Logger.Error("inline asset upload failed", "path", path, "error", err)
		return "", &UploadError{Path: path, Err: err}
	}
	return url, nil
}

// resolveImage applies the substitution policy for an entity's image field:
// an explicit file wins, then an inline data URL is uploaded, and anything
// else is kept as it is.
func (s *ContentService) resolveImage(ctx context.Context, current string, file *AssetFile, path string, progress ProgressFunc) (string, error) {
	switch {
	case file != nil:
		return s.UploadAsset(ctx, Asset{File: file}, path, progress)
	case IsInlineImage(current):
		return s.UploadAsset(ctx, Asset{Inline: current}, path, nil)
	}
	return current, nil
}

var unsafePathChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// assetPath builds "<prefix>/<unixms>_<id>_<name>", or "<prefix>/<unixms>_<id>"
// without a name. The short id keeps uploads in the same millisecond apart.
func (s *ContentService) assetPath(prefix, name string) string {
	stem := fmt.Sprintf("%s/%d_%s", prefix, s.now().UnixMilli(), s.pathSuffix())
	name = strings.Trim(unsafePathChars.ReplaceAllString(strings.TrimSpace(name), "_"), "_")
	if name == "" {
		return stem
	}
	return stem + "_" + name
}

func shortID() string {
	return uuid.NewString()[:8]
}

// UploadPath exposes the naming scheme for standalone uploads.
func (s *ContentService) UploadPath(prefix, name string) string {
	return s.assetPath(prefix, name)
}
