// Command trace_pipeline runs one recommendation request from the terminal
// against an in-memory store and prints every event as it arrives.
//
//	go run ./cmd/trace_pipeline -lat 1.3 -lon 103.8 -pref "I hate sushi" "somewhere quiet for dinner"
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"wtf2eat-be/internal/bootstrap"
	"wtf2eat-be/internal/config"
	"wtf2eat-be/internal/pkg/logger"
	"wtf2eat-be/internal/repository/memory"
	"wtf2eat-be/internal/repository/unitofwork"
	"wtf2eat-be/pkg/ai/pipeline"
	"wtf2eat-be/pkg/places"

	"github.com/fatih/color"
)

type prefFlags []string

func (p *prefFlags) String() string     { return strings.Join(*p, ", ") }
func (p *prefFlags) Set(v string) error { *p = append(*p, v); return nil }

func main() {
	var prefs prefFlags
	lat := flag.Float64("lat", 0, "bias latitude")
	lon := flag.Float64("lon", 0, "bias longitude")
	user := flag.String("user", "trace-user", "user id")
	flag.Var(&prefs, "pref", "preference saved before the run (repeatable)")
	flag.Parse()

	input := strings.Join(flag.Args(), " ")
	if input == "" {
		fmt.Fprintln(os.Stderr, "usage: trace_pipeline [-lat N -lon N -pref TEXT] <input>")
		os.Exit(2)
	}

	cfg := config.Load()
	ctx := context.Background()
	uow := unitofwork.NewMemoryRepositoryFactory(memory.NewStoreRepository())

	p, err := bootstrap.NewPipeline(ctx, cfg, uow, nil, logger.NewNopLogger())
	if err != nil {
		color.Red("✗ %v", err)
		os.Exit(1)
	}

	for _, text := range prefs {
		if _, err := p.Preferences.Save(ctx, *user, text); err != nil {
			color.Red("✗ save preference %q: %v", text, err)
			os.Exit(1)
		}
		color.Cyan("• preference: %s", text)
	}

	bold := color.New(color.Bold)
	bold.Printf("\n▶ %s\n\n", input)

	req := pipeline.Request{Input: input, UserId: *user, Bias: places.BiasPoint{Latitude: *lat, Longitude: *lon}}
	for e := range p.Controller.Stream(ctx, req) {
		printEvent(e)
	}
}

func printEvent(e pipeline.Event) {
	switch e.Status {
	case pipeline.StatusProcessing:
		color.Yellow("… %v", e.Output)
	case pipeline.StatusComplete:
		color.Green("✓ complete")
		if e.State != nil {
			for i, r := range e.State.Ranked {
				fmt.Printf("  %d. %-32s score=%.3f rating=%.1f delivery=%s note=%s\n",
					i+1, r.Name, r.Score, r.Rating, r.Delivery, r.PrefNote)
			}
			color.HiBlack("  query=%q tokens=%d", e.State.Query, e.State.TokenUsage)
		}
	case pipeline.StatusEnd:
		color.Green("✓ %v", e.Output)
	case pipeline.StatusRateLimited:
		color.Magenta("⏸ 429 %v", e.Output)
	default:
		out, _ := json.Marshal(e.Output)
		color.Red("✗ %s %s", e.Status, out)
	}
}
