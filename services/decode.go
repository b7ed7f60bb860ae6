package services

import (
	"fmt"
	"math"
	"time"

	"CafeMaemi/models"
)

// DecodeError reports a stored document that does not fit its entity shape.
type DecodeError struct {
	Collection string
	ID         string
	Err        error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s/%s: %v", e.Collection, e.ID, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

type fieldReader struct {
	data map[string]interface{}
	err  error
}

func (r *fieldReader) fail(key, format string, args ...interface{}) {
	if r.err == nil {
		r.err = fmt.Errorf("field %q: %s", key, fmt.Sprintf(format, args...))
	}
}

func (r *fieldReader) str(key string) string {
	v, ok := r.data[key]
	if !ok || v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		r.fail(key, "expected string, got %T", v)
	}
	return s
}

func (r *fieldReader) optInt(key string) *int64 {
	v, ok := r.data[key]
	if !ok || v == nil {
		return nil
	}
	switch n := v.(type) {
	case int64:
		return &n
	case int:
		i := int64(n)
		return &i
	case float64:
		// JSON-ish writers store whole numbers as doubles
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			r.fail(key, "expected integer, got %v", n)
			return nil
		}
		i := int64(n)
		return &i
	}
	r.fail(key, "expected integer, got %T", v)
	return nil
}

func (r *fieldReader) integer(key string) int64 {
	n := r.optInt(key)
	if n == nil {
		if r.err == nil {
			r.fail(key, "is required")
		}
		return 0
	}
	return *n
}

func (r *fieldReader) optBool(key string) *bool {
	v, ok := r.data[key]
	if !ok || v == nil {
		return nil
	}
	b, ok := v.(bool)
	if !ok {
		r.fail(key, "expected bool, got %T", v)
		return nil
	}
	return &b
}

func (r *fieldReader) timestamp(key string) time.Time {
	v, ok := r.data[key]
	if !ok || v == nil {
		return time.Time{}
	}
	t, ok := v.(time.Time)
	if !ok {
		r.fail(key, "expected timestamp, got %T", v)
	}
	return t
}

func decodeMenuItem(doc Document) (models.MenuItem, error) {
	r := &fieldReader{data: doc.Data}
	item := models.MenuItem{
		ID:            doc.ID,
		NameEn:        r.str("nameEn"),
		NameJa:        r.str("nameJa"),
		DescriptionEn: r.str("descriptionEn"),
		DescriptionJa: r.str("descriptionJa"),
		Price:         r.integer("price"),
		PriceLarge:    r.optInt("priceLarge"),
		Category:      models.Category(r.str("category")),
		Image:         r.str("image"),
		Featured:      r.optBool("featured"),
		SortOrder:     r.optInt("sortOrder"),
		SpicyLevel:    r.optInt("spicyLevel"),
	}
	if r.err != nil {
		return models.MenuItem{}, &DecodeError{Collection: CollectionMenu, ID: doc.ID, Err: r.err}
	}
	if err := item.Validate(); err != nil {
		return models.MenuItem{}, &DecodeError{Collection: CollectionMenu, ID: doc.ID, Err: err}
	}
	return item, nil
}

func decodeReview(doc Document) (models.Review, error) {
	r := &fieldReader{data: doc.Data}
	review := models.Review{
		ID:     doc.ID,
		Author: r.str("author"),
		Rating: r.integer("rating"),
		TextEn: r.str("textEn"),
		TextJa: r.str("textJa"),
		Source: models.ReviewSource(r.str("source")),
		Avatar: r.str("avatar"),
	}
	if r.err != nil {
		return models.Review{}, &DecodeError{Collection: CollectionReviews, ID: doc.ID, Err: r.err}
	}
	if err := review.Validate(); err != nil {
		return models.Review{}, &DecodeError{Collection: CollectionReviews, ID: doc.ID, Err: err}
	}
	return review, nil
}

func decodeGalleryItem(doc Document) (models.GalleryItem, error) {
	r := &fieldReader{data: doc.Data}
	item := models.GalleryItem{
		ID:       doc.ID,
		Src:      r.str("src"),
		Alt:      r.str("alt"),
		Category: r.str("category"),
	}
	if r.err != nil {
		return models.GalleryItem{}, &DecodeError{Collection: CollectionGallery, ID: doc.ID, Err: r.err}
	}
	if err := item.Validate(); err != nil {
		return models.GalleryItem{}, &DecodeError{Collection: CollectionGallery, ID: doc.ID, Err: err}
	}
	return item, nil
}

// decodeContactMessage skips content validation: stored messages are shown as-is.
func decodeContactMessage(doc Document) (models.ContactMessage, error) {
	r := &fieldReader{data: doc.Data}
	msg := models.ContactMessage{
		ID:        doc.ID,
		Name:      r.str("name"),
		Email:     r.str("email"),
		Message:   r.str("message"),
		CreatedAt: r.timestamp("createdAt"),
	}
	if r.err != nil {
		return models.ContactMessage{}, &DecodeError{Collection: CollectionMessages, ID: doc.ID, Err: r.err}
	}
	return msg, nil
}

// optional sets an optional field. Unset values are omitted on create and
// removed from the stored document on update.
func optional[T any](fields map[string]interface{}, key string, v *T, update bool) {
	switch {
	case v != nil:
		fields[key] = *v
	case update:
		fields[key] = DeleteField
	}
}

func optionalString(fields map[string]interface{}, key, v string, update bool) {
	switch {
	case v != "":
		fields[key] = v
	case update:
		fields[key] = DeleteField
	}
}

func menuItemFields(item models.MenuItem, update bool) map[string]interface{} {
	fields := map[string]interface{}{
		"nameEn":        item.NameEn,
		"nameJa":        item.NameJa,
		"descriptionEn": item.DescriptionEn,
		"descriptionJa": item.DescriptionJa,
		"price":         item.Price,
		"category":      string(item.Category),
	}
	optional(fields, "priceLarge", item.PriceLarge, update)
	optional(fields, "featured", item.Featured, update)
	optional(fields, "sortOrder", item.SortOrder, update)
	optional(fields, "spicyLevel", item.SpicyLevel, update)
	optionalString(fields, "image", item.Image, update)
	return fields
}

func reviewFields(review models.Review, update bool) map[string]interface{} {
	fields := map[string]interface{}{
		"author": review.Author,
		"rating": review.Rating,
		"textEn": review.TextEn,
		"textJa": review.TextJa,
		"source": string(review.Source),
	}
	optionalString(fields, "avatar", review.Avatar, update)
	return fields
}

func galleryItemFields(item models.GalleryItem, update bool) map[string]interface{} {
	fields := map[string]interface{}{
		"src": item.Src,
		"alt": item.Alt,
	}
	optionalString(fields, "category", item.Category, update)
	return fields
}

func contactMessageFields(msg models.ContactMessage) map[string]interface{} {
	return map[string]interface{}{
		"name":      msg.Name,
		"email":     msg.Email,
		"message":   msg.Message,
		"createdAt": ServerTimestamp,
	}
}
