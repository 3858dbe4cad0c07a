package pipeline

import (
	"context"
	"errors"
	"time"

	"wtf2eat-be/internal/constant"
	"wtf2eat-be/internal/entity"
	"wtf2eat-be/internal/pkg/logger"
	"wtf2eat-be/pkg/ai/router"
	"wtf2eat-be/pkg/embedding"
	"wtf2eat-be/pkg/places"
	"wtf2eat-be/pkg/recommend"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type RouteDecider interface {
	Decide(ctx context.Context, input string) (*router.Decision, error)
}

type QueryFormulator interface {
	Formulate(ctx context.Context, input string) (query string, tokens int, err error)
}

type PreferenceStore interface {
	Save(ctx context.Context, userId, text string) (*entity.Preference, error)
	List(ctx context.Context, userId string) ([]*entity.Preference, error)
}

type RestaurantRetriever interface {
	Retrieve(ctx context.Context, query string, bias places.BiasPoint) ([]entity.Restaurant, error)
}

// Observer is told about every stage and every finished run.
type Observer interface {
	ObserveStage(stage string, elapsed time.Duration, err error)
	ObserveRun(state State, terminal Event)
}

const (
	StageRoute    = "route"
	StageSave     = "save"
	StageQuery    = "query"
	StageRetrieve = "retrieve"
	StageScore    = "score"
	StageRank     = "rank"
	tracerName    = "wtf2eat-be/pipeline"
	loggerModule  = "Pipeline"
)

// Controller runs the recommendation stages strictly in order:
// route, optional save, query, retrieval, scoring, ranking.
type Controller struct {
	router     RouteDecider
	formulator QueryFormulator
	prefs      PreferenceStore
	retriever  RestaurantRetriever
	embedder   embedding.EmbeddingProvider
	logger     logger.ILogger
	observers  []Observer
	tracer     trace.Tracer
}

type ControllerOption func(*Controller)

func WithObserver(o Observer) ControllerOption {
	return func(c *Controller) { c.observers = append(c.observers, o) }
}

func NewController(
	router RouteDecider,
	formulator QueryFormulator,
	prefs PreferenceStore,
	retriever RestaurantRetriever,
	embedder embedding.EmbeddingProvider,
	log logger.ILogger,
	opts ...ControllerOption,
) *Controller {
	c := &Controller{
		router:     router,
		formulator: formulator,
		prefs:      prefs,
		retriever:  retriever,
		embedder:   embedder,
		logger:     log,
		tracer:     otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Stream runs the pipeline on its own goroutine. The channel yields status
// events followed by exactly one terminal event and is then closed.
func (c *Controller) Stream(ctx context.Context, req Request) <-chan Event {
	ch := make(chan Event, 8)
	go func() {
		defer close(ch)
		c.Run(ctx, req, func(e Event) {
			select {
			case ch <- e:
			case <-ctx.Done():
			}
		})
	}()
	return ch
}

// Run executes the pipeline, passing every event to emit. The returned state
// is the last one reached; err is a *Error when the run failed.
func (c *Controller) Run(ctx context.Context, req Request, emit func(Event)) (State, error) {
	ctx, span := c.tracer.Start(ctx, "pipeline.run", trace.WithAttributes(
		attribute.String("user.id", req.UserId),
	))
	defer span.End()

	state, terminal, err := c.run(ctx, NewState(req), emit)

	terminal.State = &state
	emit(terminal)

	for _, o := range c.observers {
		o.ObserveRun(state, terminal)
	}

	span.SetAttributes(
		attribute.String("pipeline.route", string(state.Route)),
		attribute.Int("pipeline.tokens", state.TokenUsage),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		var perr *Error
		if errors.As(err, &perr) && perr.Kind == KindInternal {
			c.logger.Error(loggerModule, "Recommendation failed", map[string]interface{}{
				"stage":   perr.Stage,
				"user_id": req.UserId,
				"error":   perr.Err.Error(),
			})
		} else {
			c.logger.Warn(loggerModule, "Recommendation stopped", map[string]interface{}{
				"user_id": req.UserId,
				"error":   err.Error(),
			})
		}
		return state, err
	}

	c.logger.Info(loggerModule, "Recommendation finished", map[string]interface{}{
		"user_id": req.UserId,
		"route":   state.Route,
		"status":  terminal.Status,
		"tokens":  state.TokenUsage,
	})
	return state, nil
}

func (c *Controller) run(ctx context.Context, state State, emit func(Event)) (State, Event, error) {
	emit(processing(constant.StatusDecidingRoute))
	var decision *router.Decision
	err := c.stage(ctx, StageRoute, func(ctx context.Context) (err error) {
		decision, err = c.router.Decide(ctx, state.Input)
		return err
	})
	if err != nil {
		return c.fail(state, StageRoute, err)
	}
	state = state.Apply(Update{Route: &decision.Route, Tokens: decision.Tokens})

	if state.Route.SavesPreference() {
		err := c.stage(ctx, StageSave, func(ctx context.Context) error {
			_, err := c.prefs.Save(ctx, state.UserId, state.Input)
			return err
		})
		if err != nil {
			return c.fail(state, StageSave, err)
		}
	}
	if state.Route == router.RouteEnd {
		return state, Event{Status: StatusEnd, Output: constant.EndAcknowledgement}, nil
	}

	emit(processing(constant.StatusGeneratingQuery))
	var (
		query  string
		tokens int
	)
	err = c.stage(ctx, StageQuery, func(ctx context.Context) (err error) {
		query, tokens, err = c.formulator.Formulate(ctx, state.Input)
		return err
	})
	if err != nil {
		return c.fail(state, StageQuery, err)
	}
	state = state.Apply(Update{Query: &query, Tokens: tokens})

	emit(processing(constant.StatusSearching))
	var restaurants []entity.Restaurant
	err = c.stage(ctx, StageRetrieve, func(ctx context.Context) (err error) {
		restaurants, err = c.retriever.Retrieve(ctx, state.Query, state.Bias)
		return err
	})
	if err != nil {
		return c.fail(state, StageRetrieve, err)
	}
	state = state.Apply(Update{Restaurants: recommend.DedupeByName(restaurants)})

	emit(processing(constant.StatusCalculatingPrefs))
	var (
		ix     *recommend.Index
		tagged []recommend.ScoredCandidate
	)
	err = c.stage(ctx, StageScore, func(ctx context.Context) error {
		prefs, err := c.prefs.List(ctx, state.UserId)
		if err != nil {
			return err
		}
		texts := make([]string, len(prefs))
		for i, p := range prefs {
			texts[i] = p.Text
		}

		ix, err = recommend.BuildIndex(ctx, c.embedder, state.Restaurants)
		if err != nil {
			return err
		}
		tagged, err = recommend.TagCandidates(ctx, ix, state.Restaurants, texts)
		return err
	})
	if err != nil {
		return c.fail(state, StageScore, err)
	}
	state = state.Apply(Update{Tagged: tagged})

	emit(processing(constant.StatusRanking))
	var ranked []recommend.RankedRestaurant
	err = c.stage(ctx, StageRank, func(ctx context.Context) (err error) {
		ranked, err = recommend.Rank(ctx, ix, state.Tagged, state.Input)
		return err
	})
	if err != nil {
		return c.fail(state, StageRank, err)
	}
	state = state.Apply(Update{Ranked: ranked})

	return state, Event{Status: StatusComplete, Output: CompleteOutput(state.Ranked)}, nil
}

func (c *Controller) stage(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ctx, span := c.tracer.Start(ctx, "pipeline."+name)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)

	for _, o := range c.observers {
		o.ObserveStage(name, elapsed, err)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	c.logger.Debug(loggerModule, "Stage finished", map[string]interface{}{
		"stage":      name,
		"elapsed_ms": elapsed.Milliseconds(),
		"failed":     err != nil,
	})
	return err
}

func (c *Controller) fail(state State, stage string, err error) (State, Event, error) {
	perr := classify(stage, err)
	return state, perr.event(), perr
}
