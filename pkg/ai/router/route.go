package router

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Route is the decision taken on a user utterance.
type Route string

const (
	RouteContinue Route = "no"
	RouteSave     Route = "save"
	RouteEnd      Route = "end"
)

// SavesPreference reports whether the input is stored as a preference.
func (r Route) SavesPreference() bool {
	return r == RouteSave || r == RouteEnd
}

var thinkTail = regexp.MustCompile(`(?s)</think>\s*(.*)`)

// ExtractAnswer drops a reasoning section and returns what follows </think>.
// Text without the closing tag is returned unchanged.
func ExtractAnswer(text string) string {
	if m := thinkTail.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return text
}

type routeAnswer struct {
	Route string `json:"route"`
}

// DecodeRoute turns a model answer into a Route. A {"route": ...} object is
// tried first, then keyword presence ("save" before "end"). The second return
// value is false when nothing was recognized and the default applied.
func DecodeRoute(answer string) (Route, bool) {
	if r, ok := decodeJSON(answer); ok {
		return r, true
	}

	lower := strings.ToLower(answer)
	switch {
	case strings.Contains(lower, "save"):
		return RouteSave, true
	case strings.Contains(lower, "end"):
		return RouteEnd, true
	}

	trimmed := strings.Trim(strings.TrimSpace(lower), `"'.`)
	if trimmed == "no" || strings.Contains(lower, `"no"`) {
		return RouteContinue, true
	}
	return RouteContinue, false
}

func decodeJSON(answer string) (Route, bool) {
	start := strings.Index(answer, "{")
	end := strings.LastIndex(answer, "}")
	if start < 0 || end <= start {
		return "", false
	}

	var ra routeAnswer
	if err := json.Unmarshal([]byte(answer[start:end+1]), &ra); err != nil {
		return "", false
	}

	switch Route(strings.ToLower(strings.TrimSpace(ra.Route))) {
	case RouteContinue:
		return RouteContinue, true
	case RouteSave:
		return RouteSave, true
	case RouteEnd:
		return RouteEnd, true
	}
	return "", false
}
