package service

import (
	"context"
	"encoding/json"
	"fmt"

	"wtf2eat-be/internal/entity"
	"wtf2eat-be/internal/metrics"
	"wtf2eat-be/internal/pkg/logger"
	"wtf2eat-be/internal/repository/unitofwork"
	"wtf2eat-be/pkg/places"
	"wtf2eat-be/pkg/recommend"
)

// RestaurantNamespace holds every place fetched from the Places API, keyed by place id.
const RestaurantNamespace = "restaurants"

const maxReviews = 5

// PlacesClient is the subset of the Places API the retrieval needs.
type PlacesClient interface {
	SearchIDs(ctx context.Context, query string, bias places.BiasPoint) ([]string, error)
	GetDetails(ctx context.Context, placeId string) (*places.Details, error)
	GetPhotoURI(ctx context.Context, photoName string) (string, error)
}

type IRestaurantService interface {
	Retrieve(ctx context.Context, query string, bias places.BiasPoint) ([]entity.Restaurant, error)
}

// restaurantService searches places by text and resolves each id through the
// persistent cache before paying for a details and photo lookup.
type restaurantService struct {
	client     PlacesClient
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewRestaurantService(client PlacesClient, uowFactory unitofwork.RepositoryFactory, log logger.ILogger) IRestaurantService {
	return &restaurantService{
		client:     client,
		uowFactory: uowFactory,
		logger:     log,
	}
}

func (s *restaurantService) Retrieve(ctx context.Context, query string, bias places.BiasPoint) ([]entity.Restaurant, error) {
	ids, err := s.client.SearchIDs(ctx, query, bias)
	if err != nil {
		return nil, err
	}

	repo := s.uowFactory.NewUnitOfWork(ctx).StoreRepository()

	restaurants := make([]entity.Restaurant, 0, len(ids))
	for _, id := range ids {
		r, hit, err := s.cached(ctx, id)
		if err != nil {
			return nil, err
		}
		if hit {
			metrics.PlacesCacheLookups.WithLabelValues("hit").Inc()
			restaurants = append(restaurants, *r)
			continue
		}
		metrics.PlacesCacheLookups.WithLabelValues("miss").Inc()

		r, err = s.fetch(ctx, id)
		if err != nil {
			return nil, err
		}

		value, err := json.Marshal(r)
		if err != nil {
			return nil, err
		}
		err = repo.Put(ctx, &entity.StoreItem{
			Namespace: RestaurantNamespace,
			Key:       id,
			Value:     value,
			Text:      recommend.ReviewText(*r),
		})
		if err != nil {
			return nil, fmt.Errorf("cache place %s: %w", id, err)
		}
		restaurants = append(restaurants, *r)
	}

	s.logger.Info("Places", "Restaurants retrieved", map[string]interface{}{
		"query": query,
		"ids":   len(ids),
	})
	return recommend.DedupeByName(restaurants), nil
}

// cached returns the stored restaurant for a place id. A record that fails
// validation counts as a miss and is fetched again.
func (s *restaurantService) cached(ctx context.Context, placeId string) (*entity.Restaurant, bool, error) {
	item, err := s.uowFactory.NewUnitOfWork(ctx).StoreRepository().Get(ctx, RestaurantNamespace, placeId)
	if err != nil {
		return nil, false, fmt.Errorf("read cached place %s: %w", placeId, err)
	}
	if item == nil {
		return nil, false, nil
	}

	var r entity.Restaurant
	if err := json.Unmarshal(item.Value, &r); err != nil {
		s.logger.Warn("Places", "Malformed cached place, refetching", map[string]interface{}{"place_id": placeId, "error": err.Error()})
		return nil, false, nil
	}
	if _, err := entity.ParseDeliveryStatus(string(r.Delivery)); err != nil {
		s.logger.Warn("Places", "Invalid cached delivery status, refetching", map[string]interface{}{"place_id": placeId, "error": err.Error()})
		return nil, false, nil
	}
	r.PlaceId = placeId
	return &r, true, nil
}

func (s *restaurantService) fetch(ctx context.Context, placeId string) (*entity.Restaurant, error) {
	details, err := s.client.GetDetails(ctx, placeId)
	if err != nil {
		return nil, err
	}

	r := &entity.Restaurant{
		PlaceId:  placeId,
		Name:     details.Name(),
		Reviews:  FormatReviews(details.Reviews),
		Delivery: entity.DeliveryFromFlag(details.Delivery),
		MapsUri:  details.GoogleMapsUri,
	}
	if details.Rating != nil {
		r.Rating = *details.Rating
	}

	if photo := SelectPhoto(details); photo != "" {
		uri, err := s.client.GetPhotoURI(ctx, photo)
		if err != nil {
			return nil, err
		}
		r.PhotoUri = uri
	}
	return r, nil
}

// FormatReviews numbers the first five reviews. Reviews without text are
// marked and do not advance the number.
func FormatReviews(reviews []places.Review) []string {
	if len(reviews) == 0 {
		return []string{entity.MissingReviews}
	}
	if len(reviews) > maxReviews {
		reviews = reviews[:maxReviews]
	}

	out := make([]string, 0, len(reviews))
	n := 1
	for _, rev := range reviews {
		if rev.Text == nil || rev.Text.Text == "" {
			out = append(out, "Review not found")
			continue
		}
		out = append(out, fmt.Sprintf("Review %d: %s", n, rev.Text.Text))
		n++
	}
	return out
}

// SelectPhoto prefers a photo uploaded by the place itself.
func SelectPhoto(d *places.Details) string {
	if len(d.Photos) == 0 {
		return ""
	}
	name := d.Name()
	for _, p := range d.Photos {
		if len(p.AuthorAttributions) > 0 && p.AuthorAttributions[0].DisplayName == name {
			return p.Name
		}
	}
	return d.Photos[0].Name
}
