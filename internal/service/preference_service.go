package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"wtf2eat-be/internal/entity"
	"wtf2eat-be/internal/pkg/logger"
	"wtf2eat-be/internal/repository/contract"
	"wtf2eat-be/internal/repository/unitofwork"
	"wtf2eat-be/pkg/embedding"
	"wtf2eat-be/pkg/events"

	"github.com/google/uuid"
)

var ErrPreferenceNotFound = errors.New("preference not found")

// EventPublisher is satisfied by the NATS publisher.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type ScoredPreference struct {
	Preference *entity.Preference
	Score      float64
}

type IPreferenceService interface {
	Save(ctx context.Context, userId, text string) (*entity.Preference, error)
	List(ctx context.Context, userId string) ([]*entity.Preference, error)
	Search(ctx context.Context, userId, query string, limit int) ([]*ScoredPreference, error)
	Delete(ctx context.Context, userId string, id uuid.UUID) error
}

type preferenceService struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	publisher         EventPublisher
	logger            logger.ILogger
}

func NewPreferenceService(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	publisher EventPublisher,
	log logger.ILogger,
) IPreferenceService {
	return &preferenceService{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		publisher:         publisher,
		logger:            log,
	}
}

// PreferenceNamespace is the store namespace of one user's preferences.
func PreferenceNamespace(userId string) string {
	return "users/" + userId
}

type preferenceValue struct {
	Preference string `json:"preference"`
}

func (s *preferenceService) Save(ctx context.Context, userId, text string) (*entity.Preference, error) {
	emb, err := s.embeddingProvider.Generate(ctx, text, embedding.TaskRetrievalDocument)
	if err != nil {
		return nil, fmt.Errorf("embed preference: %w", err)
	}

	value, err := json.Marshal(preferenceValue{Preference: text})
	if err != nil {
		return nil, err
	}

	item := &entity.StoreItem{
		Namespace:      PreferenceNamespace(userId),
		Key:            uuid.New().String(),
		Value:          value,
		Text:           text,
		EmbeddingValue: emb.Embedding.Values,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.StoreRepository().Put(ctx, item); err != nil {
		return nil, fmt.Errorf("store preference: %w", err)
	}

	pref, err := toPreference(userId, item)
	if err != nil {
		return nil, err
	}

	s.logger.Info("PreferenceService", "Preference saved", map[string]interface{}{
		"user_id": userId,
		"id":      pref.Id,
	})

	if s.publisher != nil {
		evt := events.New(events.TypePreferenceSaved, map[string]interface{}{
			"user_id":       userId,
			"preference_id": pref.Id.String(),
		})
		if err := s.publisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("PreferenceService", "Failed to publish preference event", map[string]interface{}{"error": err.Error()})
		}
	}
	return pref, nil
}

func (s *preferenceService) List(ctx context.Context, userId string) ([]*entity.Preference, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	items, err := uow.StoreRepository().List(ctx, PreferenceNamespace(userId), 0)
	if err != nil {
		return nil, err
	}

	prefs := make([]*entity.Preference, 0, len(items))
	for _, item := range items {
		p, err := toPreference(userId, item)
		if err != nil {
			s.logger.Warn("PreferenceService", "Skipping malformed preference", map[string]interface{}{
				"key":   item.Key,
				"error": err.Error(),
			})
			continue
		}
		prefs = append(prefs, p)
	}
	return prefs, nil
}

func (s *preferenceService) Search(ctx context.Context, userId, query string, limit int) ([]*ScoredPreference, error) {
	emb, err := s.embeddingProvider.Generate(ctx, query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	hits, err := uow.StoreRepository().SearchSimilar(ctx, PreferenceNamespace(userId), emb.Embedding.Values, limit)
	if err != nil {
		return nil, err
	}

	out := make([]*ScoredPreference, 0, len(hits))
	for _, h := range hits {
		p, err := toPreference(userId, h.Item)
		if err != nil {
			continue
		}
		out = append(out, &ScoredPreference{Preference: p, Score: h.Similarity})
	}
	return out, nil
}

func (s *preferenceService) Delete(ctx context.Context, userId string, id uuid.UUID) error {
	ns := PreferenceNamespace(userId)
	return unitofwork.Transact(ctx, s.uowFactory, func(repo contract.StoreRepository) error {
		existing, err := repo.Get(ctx, ns, id.String())
		if err != nil {
			return err
		}
		if existing == nil {
			return ErrPreferenceNotFound
		}
		return repo.Delete(ctx, ns, id.String())
	})
}

func toPreference(userId string, item *entity.StoreItem) (*entity.Preference, error) {
	id, err := uuid.Parse(item.Key)
	if err != nil {
		return nil, fmt.Errorf("preference key %q: %w", item.Key, err)
	}

	var v preferenceValue
	if err := json.Unmarshal(item.Value, &v); err != nil {
		return nil, fmt.Errorf("preference value: %w", err)
	}

	return &entity.Preference{
		Id:        id,
		UserId:    userId,
		Text:      v.Preference,
		CreatedAt: item.CreatedAt,
	}, nil
}
