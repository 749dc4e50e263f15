package factory

import (
	"context"
	"sync"

	"github.com/mikey/inbox-labeler/internal/core"
)

// LazyGenerator defers creating the model client until the first call, so
// commands that never reach the model need no credentials
type LazyGenerator struct {
	factory *LLMFactory

	mu  sync.Mutex
	gen core.TextGenerator
}

// NewLazyGenerator creates a new lazy generator
func NewLazyGenerator(factory *LLMFactory) *LazyGenerator {
	return &LazyGenerator{factory: factory}
}

// Generate creates the client on first use and forwards the prompt
func (g *LazyGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	if g.gen == nil {
		gen, err := g.factory.CreateTextGenerator(ctx)
		if err != nil {
			g.mu.Unlock()
			return "", err
		}
		g.gen = gen
	}
	gen := g.gen
	g.mu.Unlock()

	return gen.Generate(ctx, prompt)
}

// Close closes the client if one was created
func (g *LazyGenerator) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if c, ok := g.gen.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
