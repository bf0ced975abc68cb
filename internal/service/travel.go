package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/travelog/travelog/internal/metrics"
	"github.com/travelog/travelog/internal/model"
	"github.com/travelog/travelog/internal/repository"
)

// Travel field names as they appear in request and response bodies.
const (
	FieldName    = "Name"
	FieldTravel  = "Travel"
	FieldDateIn  = "DateIn"
	FieldDateOut = "DateOut"
	FieldStatus  = "Status"
)

const (
	maxNameLength   = 255
	maxTravelLength = 255
	maxStatusLength = 50
)

// TravelStore persists travels.
type TravelStore interface {
	ListTravels(ctx context.Context) ([]*model.Travel, error)
	GetTravelByID(ctx context.Context, id int64) (*model.Travel, error)
	CreateTravel(ctx context.Context, travel *model.Travel) error
	UpdateTravel(ctx context.Context, travel *model.Travel) error
	DeleteTravel(ctx context.Context, id int64) error
}

// TravelInput holds raw field values decoded from a request body.
// A missing key means the field was not sent.
type TravelInput map[string]any

// TravelService handles travel business logic.
type TravelService struct {
	store   TravelStore
	metrics metrics.Recorder
}

// NewTravelService creates a new TravelService.
func NewTravelService(store TravelStore, recorder metrics.Recorder) *TravelService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &TravelService{store: store, metrics: recorder}
}

// List returns all travels ordered by id.
func (s *TravelService) List(ctx context.Context) ([]*model.Travel, error) {
	travels, err := s.store.ListTravels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list travels: %w", err)
	}
	return travels, nil
}

// Get returns a single travel.
func (s *TravelService) Get(ctx context.Context, id int64) (*model.Travel, error) {
	travel, err := s.store.GetTravelByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTravelNotFound) {
			return nil, ErrTravelNotFound
		}
		return nil, fmt.Errorf("failed to get travel: %w", err)
	}
	return travel, nil
}

// Create validates every field and stores a new travel.
func (s *TravelService) Create(ctx context.Context, input TravelInput) (*model.Travel, error) {
	travel := &model.Travel{}

	v := NewValidationError()
	for _, field := range []string{FieldName, FieldTravel, FieldDateIn, FieldDateOut, FieldStatus} {
		applyField(v, travel, field, input[field])
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	if err := s.store.CreateTravel(ctx, travel); err != nil {
		return nil, fmt.Errorf("failed to create travel: %w", err)
	}

	s.metrics.IncTravelCreated()
	return travel, nil
}

// Update applies the fields present in input to an existing travel.
// A missing travel is reported before any validation.
func (s *TravelService) Update(ctx context.Context, id int64, input TravelInput) (*model.Travel, error) {
	travel, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	v := NewValidationError()
	for _, field := range []string{FieldName, FieldTravel, FieldDateIn, FieldDateOut, FieldStatus} {
		raw, present := input[field]
		if !present {
			continue
		}
		applyField(v, travel, field, raw)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	if err := s.store.UpdateTravel(ctx, travel); err != nil {
		if errors.Is(err, repository.ErrTravelNotFound) {
			return nil, ErrTravelNotFound
		}
		return nil, fmt.Errorf("failed to update travel: %w", err)
	}

	s.metrics.IncTravelUpdated()
	return travel, nil
}

// Delete removes a travel. Deleting a missing travel reports ErrTravelNotFound.
func (s *TravelService) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteTravel(ctx, id); err != nil {
		if errors.Is(err, repository.ErrTravelNotFound) {
			return ErrTravelNotFound
		}
		return fmt.Errorf("failed to delete travel: %w", err)
	}

	s.metrics.IncTravelDeleted()
	return nil
}

// applyField validates raw and, when valid, writes it to travel.
func applyField(v *ValidationError, travel *model.Travel, field string, raw any) {
	switch field {
	case FieldName:
		if s, ok := requiredString(v, field, raw, maxNameLength); ok {
			travel.Name = s
		}
	case FieldTravel:
		if s, ok := requiredString(v, field, raw, maxTravelLength); ok {
			travel.Destination = s
		}
	case FieldStatus:
		if s, ok := requiredString(v, field, raw, maxStatusLength); ok {
			travel.Status = s
		}
	case FieldDateIn:
		if t, ok := requiredDate(v, field, raw); ok {
			travel.DateIn = model.NewDate(t)
		}
	case FieldDateOut:
		if t, ok := requiredDate(v, field, raw); ok {
			travel.DateOut = model.NewDate(t)
		}
	}
}
