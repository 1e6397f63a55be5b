package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"propertyBack/internal/cache"
	"propertyBack/internal/models"
)

const (
	// AllPropertiesKey holds the full property list in the query-level cache.
	AllPropertiesKey   = "all_properties"
	DefaultPropertyTTL = time.Hour

	maxTextField  = 255
	maxPropertyID = 36
	maxPrice      = 1e8
)

var sampleProperties = []models.Property{
	{
		Title:       "Sample Property 1",
		Description: "A beautiful sample property.",
		Price:       100.00,
		Location:    "Sample Location 1",
	},
	{
		Title:       "Sample Property 2",
		Description: "Another beautiful sample property.",
		Price:       150.00,
		Location:    "Sample Location 2",
	},
}

// PropertyStore is the persistence the service needs; repositories.PropertyRepository satisfies it.
type PropertyStore interface {
	ListProperties(ctx context.Context) ([]models.Property, error)
	GetPropertyByID(ctx context.Context, id string) (models.Property, error)
	CreateProperty(ctx context.Context, p models.Property) (models.Property, error)
	DeleteProperty(ctx context.Context, id string) error
}

type PropertyService struct {
	PropertyRepo PropertyStore
	Cache        cache.Store
	Logger       Logger
	TTL          time.Duration
	// InvalidateKeys are dropped together with AllPropertiesKey after every write.
	InvalidateKeys []string
	NewID          func() string
}

func (s *PropertyService) ttl() time.Duration {
	if s.TTL <= 0 {
		return DefaultPropertyTTL
	}
	return s.TTL
}

func (s *PropertyService) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

// GetAllProperties serves the property list from the cache, falling back to
// the store. An empty store is seeded with the sample properties first.
func (s *PropertyService) GetAllProperties(ctx context.Context) (models.PropertiesResult, error) {
	log := loggerOrNop(s.Logger)

	var cached []models.Property
	err := cache.GetJSON(ctx, s.Cache, AllPropertiesKey, &cached)
	switch {
	case err == nil:
		log.Infof("Returning cached properties")
		return successResult(cached), nil
	case errors.Is(err, cache.ErrCacheMiss):
	default:
		log.Errorf("property cache read failed, falling back to database: %v", err)
	}

	log.Infof("Fetching properties from database")
	properties, err := s.PropertyRepo.ListProperties(ctx)
	if err != nil {
		return models.PropertiesResult{}, fmt.Errorf("fetch properties: %w", err)
	}

	if len(properties) == 0 {
		log.Infof("No properties found in database. Adding sample data.")
		if err := s.seedSampleProperties(ctx); err != nil {
			return models.PropertiesResult{}, err
		}
		properties, err = s.PropertyRepo.ListProperties(ctx)
		if err != nil {
			return models.PropertiesResult{}, fmt.Errorf("fetch seeded properties: %w", err)
		}
	}

	if err := cache.SetJSON(ctx, s.Cache, AllPropertiesKey, properties, s.ttl()); err != nil {
		log.Errorf("property cache write failed: %v", err)
	}

	return successResult(properties), nil
}

func (s *PropertyService) seedSampleProperties(ctx context.Context) error {
	for _, sample := range sampleProperties {
		sample.PropertyID = s.newID()
		if _, err := s.PropertyRepo.CreateProperty(ctx, sample); err != nil {
			return fmt.Errorf("seed sample property %q: %w", sample.Title, err)
		}
	}
	return nil
}

func successResult(properties []models.Property) models.PropertiesResult {
	if properties == nil {
		properties = []models.Property{}
	}
	return models.PropertiesResult{
		Status:     "success",
		StatusCode: http.StatusOK,
		Message:    "Properties fetched successfully",
		Data:       properties,
	}
}

func (s *PropertyService) GetPropertyByID(ctx context.Context, id string) (models.Property, error) {
	return s.PropertyRepo.GetPropertyByID(ctx, id)
}

func (s *PropertyService) CreateProperty(ctx context.Context, req models.CreatePropertyRequest) (models.Property, error) {
	p, err := validateProperty(req)
	if err != nil {
		return models.Property{}, err
	}
	if p.PropertyID == "" {
		p.PropertyID = s.newID()
	}

	created, err := s.PropertyRepo.CreateProperty(ctx, p)
	if err != nil {
		return models.Property{}, err
	}
	s.invalidate(ctx)
	return created, nil
}

func (s *PropertyService) DeleteProperty(ctx context.Context, id string) error {
	if err := s.PropertyRepo.DeleteProperty(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *PropertyService) invalidate(ctx context.Context) {
	keys := append([]string{AllPropertiesKey}, s.InvalidateKeys...)
	if err := s.Cache.Delete(ctx, keys...); err != nil {
		loggerOrNop(s.Logger).Errorf("property cache invalidation failed: %v", err)
	}
}

func validateProperty(req models.CreatePropertyRequest) (models.Property, error) {
	p := models.Property{
		PropertyID:  strings.TrimSpace(req.PropertyID),
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Price:       req.Price,
		Location:    strings.TrimSpace(req.Location),
	}
	switch {
	case p.Title == "":
		return models.Property{}, fmt.Errorf("%w: title is required", models.ErrInvalidProperty)
	case len(p.Title) > maxTextField:
		return models.Property{}, fmt.Errorf("%w: title is longer than %d characters", models.ErrInvalidProperty, maxTextField)
	case len(p.Location) > maxTextField:
		return models.Property{}, fmt.Errorf("%w: location is longer than %d characters", models.ErrInvalidProperty, maxTextField)
	case len(p.PropertyID) > maxPropertyID:
		return models.Property{}, fmt.Errorf("%w: property_id is longer than %d characters", models.ErrInvalidProperty, maxPropertyID)
	case math.IsNaN(p.Price) || math.IsInf(p.Price, 0) || p.Price < 0:
		return models.Property{}, fmt.Errorf("%w: price must be a non-negative number", models.ErrInvalidProperty)
	}

	// the range check runs on the stored value, so round to cents first
	p.Price = math.Round(p.Price*100) / 100
	if p.Price >= maxPrice {
		return models.Property{}, fmt.Errorf("%w: price does not fit NUMERIC(10,2)", models.ErrInvalidProperty)
	}
	return p, nil
}
