package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"wtf2eat-be/internal/constant"
	"wtf2eat-be/internal/entity"
	"wtf2eat-be/internal/pkg/logger"
	"wtf2eat-be/pkg/ai/router"
	"wtf2eat-be/pkg/embedding"
	"wtf2eat-be/pkg/llm"
	"wtf2eat-be/pkg/places"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedLLM answers the router prompt with routeAnswer and anything else with queryAnswer.
type scriptedLLM struct {
	routeAnswer string
	queryAnswer string
	err         error
	calls       int
}

func (s *scriptedLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (*llm.Completion, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if history[0].Content == constant.RouterSystemPrompt {
		return &llm.Completion{Content: s.routeAnswer, TotalTokens: 120}, nil
	}
	return &llm.Completion{Content: s.queryAnswer, TotalTokens: 30}, nil
}

func (s *scriptedLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (*llm.Completion, error) {
	return s.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, options...)
}

type memoryPrefs struct {
	mu    sync.Mutex
	saved map[string][]*entity.Preference
}

func newMemoryPrefs() *memoryPrefs {
	return &memoryPrefs{saved: map[string][]*entity.Preference{}}
}

func (m *memoryPrefs) Save(ctx context.Context, userId, text string) (*entity.Preference, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := &entity.Preference{Id: uuid.New(), UserId: userId, Text: text, CreatedAt: time.Now()}
	m.saved[userId] = append(m.saved[userId], p)
	return p, nil
}

func (m *memoryPrefs) List(ctx context.Context, userId string) ([]*entity.Preference, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saved[userId], nil
}

type fakeRetriever struct {
	restaurants []entity.Restaurant
	err         error
	queries     []string
}

func (f *fakeRetriever) Retrieve(ctx context.Context, query string, bias places.BiasPoint) ([]entity.Restaurant, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.restaurants, nil
}

// wordEmbedder embeds text as presence counts over a tiny vocabulary.
type wordEmbedder struct{}

var vocabulary = []string{"thai", "spicy", "curry", "burger", "pizza", "noodle"}

func (wordEmbedder) Generate(ctx context.Context, text string, taskType string) (*embedding.EmbeddingResponse, error) {
	lower := strings.ToLower(text)
	vec := make([]float32, len(vocabulary))
	for i, w := range vocabulary {
		if strings.Contains(lower, w) {
			vec[i] = 1
		}
	}
	return &embedding.EmbeddingResponse{Embedding: embedding.EmbeddingResponseEmbedding{Values: vec}}, nil
}

type recordingObserver struct {
	stages []string
	runs   int
}

func (r *recordingObserver) ObserveStage(stage string, elapsed time.Duration, err error) {
	r.stages = append(r.stages, stage)
}

func (r *recordingObserver) ObserveRun(state State, terminal Event) {
	r.runs++
}

func thaiCandidates() []entity.Restaurant {
	return []entity.Restaurant{
		{PlaceId: "burger", Name: "Burger Barn", Reviews: []string{"Review 1: big burger"}, Delivery: entity.DeliveryAvailable},
		{PlaceId: "curry", Name: "Curry House", Reviews: []string{"Review 1: thai curry"}, Delivery: entity.DeliveryUnknown},
		{PlaceId: "spice", Name: "Thai Spice", Reviews: []string{"Review 1: spicy thai"}, Delivery: entity.DeliveryNotAvailable, Rating: 4.6},
		{PlaceId: "spice-2", Name: "Thai Spice", Reviews: []string{"Review 1: duplicate"}},
	}
}

type fixture struct {
	llm       *scriptedLLM
	prefs     *memoryPrefs
	retriever *fakeRetriever
	observer  *recordingObserver
	ctrl      *Controller
}

func newFixture(routeAnswer string) *fixture {
	f := &fixture{
		llm:       &scriptedLLM{routeAnswer: routeAnswer, queryAnswer: " spicy Thai\n"},
		prefs:     newMemoryPrefs(),
		retriever: &fakeRetriever{restaurants: thaiCandidates()},
		observer:  &recordingObserver{},
	}
	nop := logger.NewNopLogger()
	f.ctrl = NewController(
		router.NewRouter(f.llm, "reasoner", nop),
		NewLLMQueryFormulator(f.llm, "small"),
		f.prefs,
		f.retriever,
		wordEmbedder{},
		nop,
		WithObserver(f.observer),
	)
	return f
}

func collect(t *testing.T, ch <-chan Event) []Event {
	t.Helper()
	var events []Event
	for e := range ch {
		events = append(events, e)
	}
	return events
}

func statusMessages(events []Event) []string {
	var out []string
	for _, e := range events {
		if e.Status == StatusProcessing {
			out = append(out, e.Output.(string))
		}
	}
	return out
}

func TestController_ScenarioContinue(t *testing.T) {
	f := newFixture("<think>They only ask for food.</think>\n{\"route\": \"no\"}")
	req := Request{Input: "I love spicy Thai food", UserId: "u1", Bias: places.BiasPoint{Latitude: 60.17, Longitude: 24.94}}

	events := collect(t, f.ctrl.Stream(context.Background(), req))
	require.NotEmpty(t, events)

	assert.Equal(t, []string{
		constant.StatusDecidingRoute,
		constant.StatusGeneratingQuery,
		constant.StatusSearching,
		constant.StatusCalculatingPrefs,
		constant.StatusRanking,
	}, statusMessages(events))

	last := events[len(events)-1]
	require.Equal(t, StatusComplete, last.Status)
	require.NotNil(t, last.State)

	state := *last.State
	assert.Equal(t, router.RouteContinue, state.Route)
	assert.Equal(t, "spicy Thai", state.Query)
	assert.Equal(t, []string{"spicy Thai"}, f.retriever.queries)
	assert.Equal(t, 150, state.TokenUsage)
	assert.Empty(t, f.prefs.saved["u1"])

	// duplicate name dropped, nothing tagged
	require.Len(t, state.Tagged, 3)
	for _, tc := range state.Tagged {
		assert.Equal(t, "none", string(tc.PrefNote))
	}

	// pure similarity order
	require.Len(t, state.Ranked, 3)
	assert.Equal(t, "Thai Spice", state.Ranked[0].Name)
	assert.Equal(t, "Curry House", state.Ranked[1].Name)
	assert.Equal(t, "Burger Barn", state.Ranked[2].Name)

	out := last.Output.(map[string]OutputRow)
	assert.Equal(t, "Thai Spice", out["0"].Name)
	assert.Equal(t, "Not Available", out["0"].Delivery)
	assert.Equal(t, 4.6, out["0"].Rating)

	assert.Equal(t, []string{StageRoute, StageQuery, StageRetrieve, StageScore, StageRank}, f.observer.stages)
	assert.Equal(t, 1, f.observer.runs)
}

func TestController_ScenarioEnd(t *testing.T) {
	f := newFixture(`{"route": "end"}`)
	req := Request{Input: "I hate loud restaurants, never go there", UserId: "u2"}

	events := collect(t, f.ctrl.Stream(context.Background(), req))

	last := events[len(events)-1]
	assert.Equal(t, StatusEnd, last.Status)
	assert.Equal(t, constant.EndAcknowledgement, last.Output)
	assert.Equal(t, []string{constant.StatusDecidingRoute}, statusMessages(events))

	require.Len(t, f.prefs.saved["u2"], 1)
	assert.Equal(t, req.Input, f.prefs.saved["u2"][0].Text)
	assert.Empty(t, f.retriever.queries)
	assert.Equal(t, 1, f.llm.calls)
	assert.Nil(t, last.State.Ranked)
}

func TestController_SaveThenContinue(t *testing.T) {
	f := newFixture(`{"route": "save"}`)
	req := Request{Input: "I love noodles, find me some", UserId: "u3"}

	events := collect(t, f.ctrl.Stream(context.Background(), req))

	last := events[len(events)-1]
	assert.Equal(t, StatusComplete, last.Status)
	require.Len(t, f.prefs.saved["u3"], 1)
	assert.Equal(t, []string{StageRoute, StageSave, StageQuery, StageRetrieve, StageScore, StageRank}, f.observer.stages)
}

func TestController_PreferencesAdjustRanking(t *testing.T) {
	f := newFixture(`{"route": "no"}`)
	_, _ = f.prefs.Save(context.Background(), "u4", "I never want Thai Spice again")

	var events []Event
	state, err := f.ctrl.Run(context.Background(), Request{Input: "spicy thai", UserId: "u4"}, func(e Event) {
		events = append(events, e)
	})
	require.NoError(t, err)

	notes := map[string]string{}
	for _, tc := range state.Tagged {
		notes[tc.Restaurant.Name] = string(tc.PrefNote)
	}
	assert.Equal(t, "pop", notes["Thai Spice"])
	assert.Equal(t, "boost", notes["Curry House"])
	assert.Equal(t, "none", notes["Burger Barn"])
}

func TestController_ScenarioNoResults(t *testing.T) {
	f := newFixture(`{"route": "no"}`)
	f.retriever.err = places.ErrNoResults

	var events []Event
	_, err := f.ctrl.Run(context.Background(), Request{Input: "asdkjh", UserId: "u5"}, func(e Event) {
		events = append(events, e)
	})

	var perr *Error
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, KindValidation, perr.Kind)
	assert.Equal(t, StageRetrieve, perr.Stage)

	last := events[len(events)-1]
	assert.Equal(t, StatusError, last.Status)
	assert.Equal(t, constant.NoRestaurantsMessage, last.Output)
	assert.NotContains(t, statusMessages(events), constant.StatusCalculatingPrefs)
	assert.NotContains(t, f.observer.stages, StageScore)
}

func TestController_RateLimit(t *testing.T) {
	f := newFixture(`{"route": "no"}`)
	f.retriever.err = &places.RateLimitError{Provider: "Google Maps API", Message: "Rate limits hit"}

	events := collect(t, f.ctrl.Stream(context.Background(), Request{Input: "pizza", UserId: "u6"}))

	last := events[len(events)-1]
	assert.Equal(t, StatusRateLimited, last.Status)
	assert.Equal(t, "Rate limits hit (From: Google Maps API)", last.Output)

	raw, err := json.Marshal(last)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status": 429, "output": "Rate limits hit (From: Google Maps API)"}`, string(raw))
}

func TestController_LLMRateLimit(t *testing.T) {
	f := newFixture(`{"route": "no"}`)
	f.llm.err = &llm.RateLimitError{Provider: "groq", Message: "Rate limits hit"}

	events := collect(t, f.ctrl.Stream(context.Background(), Request{Input: "pizza", UserId: "u7"}))

	assert.Len(t, events, 2)
	assert.Equal(t, StatusRateLimited, events[1].Status)
}

func TestController_GenericFailure(t *testing.T) {
	f := newFixture(`{"route": "no"}`)
	f.retriever.err = errors.New("connection reset")

	events := collect(t, f.ctrl.Stream(context.Background(), Request{Input: "pizza", UserId: "u8"}))

	last := events[len(events)-1]
	assert.Equal(t, StatusError, last.Status)
	assert.Equal(t, constant.GenericFailureMessage, last.Output)
}

func TestController_UnrecognizedRouteContinues(t *testing.T) {
	f := newFixture("I am not sure what you mean")

	events := collect(t, f.ctrl.Stream(context.Background(), Request{Input: "pizza", UserId: "u9"}))

	last := events[len(events)-1]
	assert.Equal(t, StatusComplete, last.Status)
	assert.Equal(t, router.RouteContinue, last.State.Route)
	assert.Empty(t, f.prefs.saved["u9"])
}

func TestEventStatus_JSON(t *testing.T) {
	raw, err := json.Marshal(Event{Status: StatusProcessing, Output: constant.StatusRanking})
	require.NoError(t, err)
	assert.JSONEq(t, `{"status": "processing", "output": "Ranking the restaurants"}`, string(raw))
}

func TestStateApply(t *testing.T) {
	s := NewState(Request{Input: "x", UserId: "u"})
	route := router.RouteSave
	s2 := s.Apply(Update{Route: &route, Tokens: 10})
	q := "sushi"
	s3 := s2.Apply(Update{Query: &q, Tokens: 5})

	assert.Equal(t, router.Route(""), s.Route)
	assert.Equal(t, 0, s.TokenUsage)
	assert.Equal(t, router.RouteSave, s3.Route)
	assert.Equal(t, "sushi", s3.Query)
	assert.Equal(t, 15, s3.TokenUsage)
}
