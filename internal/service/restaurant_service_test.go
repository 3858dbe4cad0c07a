package service

import (
	"context"
	"encoding/json"
	"testing"

	"wtf2eat-be/internal/entity"
	"wtf2eat-be/internal/pkg/logger"
	"wtf2eat-be/internal/repository/memory"
	"wtf2eat-be/internal/repository/unitofwork"
	"wtf2eat-be/pkg/places"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPlaces struct {
	mock.Mock
}

func (m *mockPlaces) SearchIDs(ctx context.Context, query string, bias places.BiasPoint) ([]string, error) {
	args := m.Called(ctx, query, bias)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

func (m *mockPlaces) GetDetails(ctx context.Context, placeId string) (*places.Details, error) {
	args := m.Called(ctx, placeId)
	d, _ := args.Get(0).(*places.Details)
	return d, args.Error(1)
}

func (m *mockPlaces) GetPhotoURI(ctx context.Context, photoName string) (string, error) {
	args := m.Called(ctx, photoName)
	return args.String(0), args.Error(1)
}

func text(s string) *places.LocalizedText {
	return &places.LocalizedText{Text: s}
}

func newRestaurantService(client PlacesClient) (IRestaurantService, *memory.StoreRepository) {
	store := memory.NewStoreRepository()
	return NewRestaurantService(client, unitofwork.NewMemoryRepositoryFactory(store), logger.NewNopLogger()), store
}

var bias = places.BiasPoint{Latitude: 1.3, Longitude: 103.8}

func TestRestaurantService_FetchesAndCachesOnMiss(t *testing.T) {
	rating := 4.5
	delivery := true
	client := &mockPlaces{}
	client.On("SearchIDs", mock.Anything, "thai", bias).Return([]string{"p1"}, nil)
	client.On("GetDetails", mock.Anything, "p1").Return(&places.Details{
		DisplayName:   text("Thai Spice"),
		Reviews:       []places.Review{{Text: text("great curry")}},
		Rating:        &rating,
		Delivery:      &delivery,
		GoogleMapsUri: "https://maps.google.com/?cid=1",
		Photos:        []places.Photo{{Name: "places/p1/photos/a"}},
	}, nil)
	client.On("GetPhotoURI", mock.Anything, "places/p1/photos/a").Return("https://photo/a", nil)

	svc, store := newRestaurantService(client)
	got, err := svc.Retrieve(context.Background(), "thai", bias)
	require.NoError(t, err)
	require.Len(t, got, 1)

	r := got[0]
	assert.Equal(t, "p1", r.PlaceId)
	assert.Equal(t, "Thai Spice", r.Name)
	assert.Equal(t, []string{"Review 1: great curry"}, r.Reviews)
	assert.Equal(t, 4.5, r.Rating)
	assert.Equal(t, entity.DeliveryAvailable, r.Delivery)
	assert.Equal(t, "https://photo/a", r.PhotoUri)

	item, err := store.Get(context.Background(), RestaurantNamespace, "p1")
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, "Review 1: great curry", item.Text)
	client.AssertExpectations(t)
}

func TestRestaurantService_CachedPlaceSkipsDetails(t *testing.T) {
	client := &mockPlaces{}
	client.On("SearchIDs", mock.Anything, "burger", bias).Return([]string{"p9"}, nil)

	svc, store := newRestaurantService(client)
	cached := entity.Restaurant{
		Name:     "Burger Barn",
		Reviews:  []string{"Review 1: juicy"},
		Rating:   3.9,
		Delivery: entity.DeliveryUnknown,
		MapsUri:  "https://maps/p9",
		PhotoUri: "https://photo/p9",
	}
	value, _ := json.Marshal(cached)
	require.NoError(t, store.Put(context.Background(), &entity.StoreItem{
		Namespace: RestaurantNamespace,
		Key:       "p9",
		Value:     value,
	}))

	got, err := svc.Retrieve(context.Background(), "burger", bias)
	require.NoError(t, err)
	require.Len(t, got, 1)

	cached.PlaceId = "p9"
	assert.Equal(t, cached, got[0])
	client.AssertNotCalled(t, "GetDetails", mock.Anything, mock.Anything)
	client.AssertNotCalled(t, "GetPhotoURI", mock.Anything, mock.Anything)
}

func TestRestaurantService_InvalidCachedDeliveryIsRefetched(t *testing.T) {
	client := &mockPlaces{}
	client.On("SearchIDs", mock.Anything, "pizza", bias).Return([]string{"p2"}, nil)
	client.On("GetDetails", mock.Anything, "p2").Return(&places.Details{DisplayName: text("Pizza Hub")}, nil)

	svc, store := newRestaurantService(client)
	require.NoError(t, store.Put(context.Background(), &entity.StoreItem{
		Namespace: RestaurantNamespace,
		Key:       "p2",
		Value:     json.RawMessage(`{"name":"Pizza Hub","delivery":"Maybe"}`),
	}))

	got, err := svc.Retrieve(context.Background(), "pizza", bias)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, entity.DeliveryUnknown, got[0].Delivery)
	assert.Equal(t, []string{entity.MissingReviews}, got[0].Reviews)
	assert.Empty(t, got[0].PhotoUri)
	client.AssertCalled(t, "GetDetails", mock.Anything, "p2")
	client.AssertNotCalled(t, "GetPhotoURI", mock.Anything, mock.Anything)
}

func TestRestaurantService_DedupesByName(t *testing.T) {
	client := &mockPlaces{}
	client.On("SearchIDs", mock.Anything, "sushi", bias).Return([]string{"a", "b"}, nil)
	client.On("GetDetails", mock.Anything, "a").Return(&places.Details{DisplayName: text("Sushi Go")}, nil)
	client.On("GetDetails", mock.Anything, "b").Return(&places.Details{DisplayName: text("Sushi Go")}, nil)

	svc, _ := newRestaurantService(client)
	got, err := svc.Retrieve(context.Background(), "sushi", bias)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].PlaceId)
}

func TestRestaurantService_NoResults(t *testing.T) {
	client := &mockPlaces{}
	client.On("SearchIDs", mock.Anything, "zzz", bias).Return(nil, places.ErrNoResults)

	svc, _ := newRestaurantService(client)
	_, err := svc.Retrieve(context.Background(), "zzz", bias)
	assert.ErrorIs(t, err, places.ErrNoResults)
}

func TestFormatReviews(t *testing.T) {
	tests := []struct {
		name    string
		reviews []places.Review
		want    []string
	}{
		{"none", nil, []string{entity.MissingReviews}},
		{
			"missing text does not advance the number",
			[]places.Review{{Text: text("a")}, {}, {Text: text("b")}},
			[]string{"Review 1: a", "Review not found", "Review 2: b"},
		},
		{
			"capped at five",
			[]places.Review{{Text: text("1")}, {Text: text("2")}, {Text: text("3")}, {Text: text("4")}, {Text: text("5")}, {Text: text("6")}},
			[]string{"Review 1: 1", "Review 2: 2", "Review 3: 3", "Review 4: 4", "Review 5: 5"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatReviews(tt.reviews))
		})
	}
}

func TestSelectPhoto(t *testing.T) {
	d := &places.Details{
		DisplayName: text("Calm Cafe"),
		Photos: []places.Photo{
			{Name: "first", AuthorAttributions: []places.AuthorAttribution{{DisplayName: "Some Diner"}}},
			{Name: "own", AuthorAttributions: []places.AuthorAttribution{{DisplayName: "Calm Cafe"}}},
		},
	}
	assert.Equal(t, "own", SelectPhoto(d))

	d.Photos[1].AuthorAttributions[0].DisplayName = "Another Diner"
	assert.Equal(t, "first", SelectPhoto(d))

	assert.Empty(t, SelectPhoto(&places.Details{}))
}
