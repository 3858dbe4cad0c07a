package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractAnswer(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "no reasoning section",
			in:   `{"route": "save"}`,
			want: `{"route": "save"}`,
		},
		{
			name: "reasoning section dropped",
			in:   "<think>\nthe user wants to save... or end?\n</think>\n\n{\"route\": \"no\"}",
			want: `{"route": "no"}`,
		},
		{
			name: "multiline answer kept",
			in:   "<think>x</think>{\"route\":\n\"end\"}",
			want: "{\"route\":\n\"end\"}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractAnswer(tt.in))
		})
	}
}

func TestDecodeRoute(t *testing.T) {
	tests := []struct {
		name       string
		answer     string
		want       Route
		recognized bool
	}{
		{name: "json continue", answer: `{"route": "no"}`, want: RouteContinue, recognized: true},
		{name: "json save", answer: `{"route": "save"}`, want: RouteSave, recognized: true},
		{name: "json end", answer: `{"route": "END"}`, want: RouteEnd, recognized: true},
		{name: "json in code fence", answer: "```json\n{\"route\": \"end\"}\n```", want: RouteEnd, recognized: true},
		{name: "loose save", answer: `route: save`, want: RouteSave, recognized: true},
		{name: "loose end", answer: `I would end here`, want: RouteEnd, recognized: true},
		{name: "save wins over end", answer: `save and end`, want: RouteSave, recognized: true},
		{name: "bare no", answer: `no`, want: RouteContinue, recognized: true},
		{name: "garbage", answer: `¯\_(ツ)_/¯`, want: RouteContinue, recognized: false},
		{name: "empty", answer: ``, want: RouteContinue, recognized: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DecodeRoute(tt.answer)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.recognized, ok)
		})
	}
}

func TestRouteSavesPreference(t *testing.T) {
	assert.False(t, RouteContinue.SavesPreference())
	assert.True(t, RouteSave.SavesPreference())
	assert.True(t, RouteEnd.SavesPreference())
}
