package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/iliyamo/venue-booking/internal/model"
)

// VenueInput carries the editable venue fields. An empty Status keeps the
// stored status on update.
type VenueInput struct {
	Name             string
	Location         string
	Capacity         int
	PricePerDayCents int64
	Status           model.VenueStatus
}

// Upload is an optional image sent with a create or update.
type Upload struct {
	Filename string
	Body     io.Reader
}

func (in VenueInput) validate() error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return fmt.Errorf("%w: name", model.ErrMissingField)
	case strings.TrimSpace(in.Location) == "":
		return fmt.Errorf("%w: location", model.ErrMissingField)
	case in.Capacity <= 0:
		return fmt.Errorf("%w: capacity must be positive", model.ErrValidation)
	case in.PricePerDayCents < 0:
		return fmt.Errorf("%w: price must not be negative", model.ErrValidation)
	case in.PricePerDayCents > model.MaxPricePerDayCents:
		return fmt.Errorf("%w: price is too large", model.ErrValidation)
	case in.Status != "" && !in.Status.Valid():
		return model.ErrInvalidStatus
	}
	return nil
}

// VenueService manages the venue inventory and its images.
type VenueService struct {
	venues VenueStore
	images ImageStore
	log    *zap.Logger
}

func NewVenueService(venues VenueStore, images ImageStore, log *zap.Logger) *VenueService {
	return &VenueService{venues: venues, images: images, log: log.Named("venue")}
}

func (s *VenueService) saveImage(img *Upload) (*string, error) {
	if img == nil || s.images == nil {
		return nil, nil
	}
	path, err := s.images.Save(img.Filename, img.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: image: %v", model.ErrValidation, err)
	}
	return &path, nil
}

func (s *VenueService) removeImage(path *string) {
	if path == nil || s.images == nil {
		return
	}
	if err := s.images.Remove(*path); err != nil {
		s.log.Warn("remove venue image failed", zap.String("path", *path), zap.Error(err))
	}
}

// Create adds a venue. New venues are always AVAILABLE.
func (s *VenueService) Create(ctx context.Context, in VenueInput, img *Upload) (*model.Venue, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	path, err := s.saveImage(img)
	if err != nil {
		return nil, err
	}
	v := &model.Venue{
		Name:             strings.TrimSpace(in.Name),
		Location:         strings.TrimSpace(in.Location),
		Capacity:         in.Capacity,
		PricePerDayCents: in.PricePerDayCents,
		Status:           model.VenueAvailable,
		ImagePath:        path,
	}
	if err := s.venues.Create(ctx, v); err != nil {
		s.removeImage(path)
		return nil, fmt.Errorf("create venue: %w", err)
	}
	s.log.Info("venue created", zap.Uint64("venue_id", v.ID), zap.String("name", v.Name))
	return v, nil
}

// Update overwrites the venue's fields. Status and image are kept when not
// supplied; a replaced image file is removed afterwards.
func (s *VenueService) Update(ctx context.Context, id uint64, in VenueInput, img *Upload) (*model.Venue, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	v, err := s.venues.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	path, err := s.saveImage(img)
	if err != nil {
		return nil, err
	}

	old := v.ImagePath
	v.Name = strings.TrimSpace(in.Name)
	v.Location = strings.TrimSpace(in.Location)
	v.Capacity = in.Capacity
	v.PricePerDayCents = in.PricePerDayCents
	if in.Status != "" {
		v.Status = in.Status
	}
	if path != nil {
		v.ImagePath = path
	}
	if err := s.venues.Update(ctx, v); err != nil {
		s.removeImage(path)
		return nil, fmt.Errorf("update venue: %w", err)
	}
	if path != nil {
		s.removeImage(old)
	}
	return v, nil
}

func (s *VenueService) Get(ctx context.Context, id uint64) (*model.Venue, error) {
	return s.venues.GetByID(ctx, id)
}

// List returns one page of venues.
func (s *VenueService) List(ctx context.Context, q model.PageQuery) (model.Page[model.Venue], error) {
	q = q.Normalize()
	if q.Status != "" {
		if _, err := model.ParseVenueStatus(q.Status); err != nil {
			return model.Page[model.Venue]{}, err
		}
	}
	items, total, err := s.venues.List(ctx, q)
	if err != nil {
		return model.Page[model.Venue]{}, fmt.Errorf("list venues: %w", err)
	}
	return model.NewPage(items, q, total), nil
}

// Available lists venues open for booking.
func (s *VenueService) Available(ctx context.Context) ([]model.Venue, error) {
	items, err := s.venues.ListAvailable(ctx)
	if items == nil {
		items = []model.Venue{}
	}
	return items, err
}

// SetStatus switches a venue between AVAILABLE, BOOKED and MAINTENANCE.
func (s *VenueService) SetStatus(ctx context.Context, id uint64, status model.VenueStatus) (*model.Venue, error) {
	if !status.Valid() {
		return nil, model.ErrInvalidStatus
	}
	v, err := s.venues.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.venues.SetStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("set venue status: %w", err)
	}
	v.Status = status
	s.log.Info("venue status changed", zap.Uint64("venue_id", id), zap.String("status", string(status)))
	return v, nil
}

// Delete removes the venue with its bookings and payments, then its image.
func (s *VenueService) Delete(ctx context.Context, id uint64) error {
	v, err := s.venues.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.venues.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete venue: %w", err)
	}
	s.removeImage(v.ImagePath)
	s.log.Info("venue deleted", zap.Uint64("venue_id", id))
	return nil
}
