package pipeline

import (
	"wtf2eat-be/internal/entity"
	"wtf2eat-be/pkg/ai/router"
	"wtf2eat-be/pkg/places"
	"wtf2eat-be/pkg/recommend"
)

// Request is one recommendation call. Callers validate it at the transport
// boundary (dto.GenerateRequest).
type Request struct {
	Input  string           `json:"input"`
	UserId string           `json:"-"`
	Bias   places.BiasPoint `json:"location"`
}

// State is threaded through the stages by value. Stages never mutate it;
// they return an Update that Apply merges.
type State struct {
	Input  string
	UserId string
	Bias   places.BiasPoint

	Route       router.Route
	Query       string
	Restaurants []entity.Restaurant
	Tagged      []recommend.ScoredCandidate
	Ranked      []recommend.RankedRestaurant
	TokenUsage  int
}

// Update is the partial result of one stage. Nil fields are left untouched;
// Tokens is added to the running total.
type Update struct {
	Route       *router.Route
	Query       *string
	Restaurants []entity.Restaurant
	Tagged      []recommend.ScoredCandidate
	Ranked      []recommend.RankedRestaurant
	Tokens      int
}

func NewState(req Request) State {
	return State{
		Input:  req.Input,
		UserId: req.UserId,
		Bias:   req.Bias,
	}
}

func (s State) Apply(u Update) State {
	if u.Route != nil {
		s.Route = *u.Route
	}
	if u.Query != nil {
		s.Query = *u.Query
	}
	if u.Restaurants != nil {
		s.Restaurants = u.Restaurants
	}
	if u.Tagged != nil {
		s.Tagged = u.Tagged
	}
	if u.Ranked != nil {
		s.Ranked = u.Ranked
	}
	s.TokenUsage += u.Tokens
	return s
}
