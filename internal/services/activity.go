package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/go-openapi/strfmt"

	"github.com/ecfrdash/ecfr-dashboard/internal/collection"
	"github.com/ecfrdash/ecfr-dashboard/internal/imagestore"
	"github.com/ecfrdash/ecfr-dashboard/internal/model"
)

// ImageField is the multipart field carrying the activity image.
const ImageField = "image"

// UploadInput is a parsed activity upload. Image is nil when the request had
// no file part.
type UploadInput struct {
	Fields    map[string]string
	ImageName string
	Image     io.Reader
}

// ActivityService records uploaded activities.
type ActivityService struct {
	store  Collections
	images Images
	now    func() time.Time
}

func NewActivityService(store Collections, images Images) *ActivityService {
	return &ActivityService{store: store, images: images, now: time.Now}
}

// Upload saves the image and appends the activity record. Without an image it
// fails with model.MissingUploadError and appends nothing.
func (s *ActivityService) Upload(ctx context.Context, in UploadInput) (model.Activity, error) {
	if in.Image == nil {
		return nil, model.MissingUploadError{Field: ImageField}
	}
	name, err := s.images.Save(ctx, in.ImageName, in.Image)
	if err != nil {
		return nil, fmt.Errorf("store activity image: %w", err)
	}

	rec := make(model.Activity, len(in.Fields)+2)
	for k, v := range in.Fields {
		rec[k] = v
	}
	rec[model.ActivityImageField] = imagestore.URL(name)
	rec[model.ActivityUploadedAtField] = strfmt.DateTime(s.now().UTC())

	if _, err := s.store.Append(ctx, collection.Activities, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// List returns all activities.
func (s *ActivityService) List(ctx context.Context) ([]json.RawMessage, error) {
	return s.store.ReadAll(ctx, collection.Activities)
}

// UserService lists the users collection.
type UserService struct {
	store Collections
}

func NewUserService(store Collections) *UserService { return &UserService{store: store} }

// List returns all users.
func (s *UserService) List(ctx context.Context) ([]json.RawMessage, error) {
	return s.store.ReadAll(ctx, collection.Users)
}
