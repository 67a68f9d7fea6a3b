package narrative

import (
	"context"
	"strings"
	"sync"

	"github.com/bwise1/travelog/internal/grouping"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

var (
	ErrEmptyResponse = errors.New("no text returned by the generator")
	ErrNoGroups      = errors.New("at least one group is required")
)

// Generator turns a prompt into text. GenAIClient is the production one.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Narrator writes the trip story and per-stop captions from group summaries.
type Narrator struct {
	gen         Generator
	parallelism int
}

func NewNarrator(gen Generator, parallelism int) *Narrator {
	if parallelism < 1 {
		parallelism = 1
	}
	return &Narrator{gen: gen, parallelism: parallelism}
}

func (n *Narrator) TripLog(ctx context.Context, summaries []grouping.Summary) (string, error) {
	if len(summaries) == 0 {
		return "", ErrNoGroups
	}
	prompt, err := TripLogPrompt(summaries)
	if err != nil {
		return "", err
	}
	text, err := n.gen.Generate(ctx, prompt)
	if err != nil {
		return "", errors.Wrap(err, "generate trip log")
	}
	return strings.TrimSpace(text), nil
}

// Captions generates one caption per group, keyed by group id. Groups are
// independent, so requests run concurrently up to the configured parallelism.
// The first failure cancels the rest.
func (n *Narrator) Captions(ctx context.Context, summaries []grouping.Summary) (map[string]string, error) {
	if len(summaries) == 0 {
		return nil, ErrNoGroups
	}

	var mu sync.Mutex
	captions := make(map[string]string, len(summaries))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(n.parallelism)
	for _, s := range summaries {
		g.Go(func() error {
			prompt, err := CaptionPrompt(s)
			if err != nil {
				return err
			}
			text, err := n.gen.Generate(ctx, prompt)
			if err != nil {
				return errors.Wrapf(err, "caption for group %s", s.GroupID)
			}
			mu.Lock()
			captions[s.GroupID] = strings.TrimSpace(text)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return captions, nil
}
