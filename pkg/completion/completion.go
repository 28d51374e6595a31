// Package completion answers completion requests: it looks up the requested
// kind of data, serves it from the cache when it can and asks tlmgr when it
// can't.
package completion

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"github.com/zerowidth/tlmgr-complete/pkg/cache"
	"github.com/zerowidth/tlmgr-complete/pkg/config"
	"github.com/zerowidth/tlmgr-complete/pkg/fetch"
	"github.com/zerowidth/tlmgr-complete/pkg/shell"
	"go.uber.org/zap"
)

// tool is the first part of every cache key
const tool = "tlmgr"

// Fetcher runs tlmgr with the given arguments
type Fetcher interface {
	Fetch(ctx context.Context, args ...string) fetch.Output
}

// Store caches the candidate lists
type Store interface {
	Get(key string) (cache.Entry, bool)
	Put(key string, values []string) error
}

// Provider completes requests against a store and a fetcher
type Provider struct {
	cfg     config.Config
	store   Store
	fetcher Fetcher
	logger  *zap.Logger
}

// New creates a Provider
func New(cfg config.Config, store Store, fetcher Fetcher, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{cfg: cfg, store: store, fetcher: fetcher, logger: logger}
}

// Used internally to collect the input and output for a single request
type completion struct {
	// input
	kind      Kind
	qualifier string
	match     string // only keep candidates matching this, if given

	// output
	result *shell.Result
}

// Complete returns every candidate of the named kind
func (p *Provider) Complete(ctx context.Context, kind, qualifier string) *shell.Result {
	return p.CompleteMatching(ctx, kind, qualifier, "")
}

// CompleteMatching returns the candidates of the named kind that match the
// word being completed. See Filter.
func (p *Provider) CompleteMatching(ctx context.Context, name, qualifier, match string) *shell.Result {
	result := shell.NewResult(name)

	kind, ok := Lookup(name)
	if !ok {
		result.Fail(fmt.Sprintf("unknown kind %q", name))
		return result
	}
	if err := kind.CheckQualifier(qualifier); err != nil {
		result.Fail(err.Error())
		return result
	}

	c := completion{
		kind:      kind,
		qualifier: qualifier,
		match:     match,
		result:    result,
	}
	p.appendCandidates(ctx, &c)
	c.result.Finalize(kind.Noun)

	return c.result
}

func (p *Provider) appendCandidates(ctx context.Context, c *completion) {
	var candidates shell.Candidates
	if c.kind.Static() {
		candidates = c.kind.static
	} else {
		var ok bool
		candidates, ok = p.retrieve(ctx, c.kind, c.qualifier)
		if !ok {
			c.result.Fail(shell.NotFound(c.kind.Noun))
			return
		}
	}

	if len(c.match) > 0 {
		candidates = Filter(candidates, c.match)
	}
	c.result.AppendCandidates(candidates...)
}

// retrieve serves a kind from the cache, or fetches it. Returns false if the
// fetch failed and produced nothing.
func (p *Provider) retrieve(ctx context.Context, kind Kind, qualifier string) (shell.Candidates, bool) {
	key := cache.Key(tool, kind.Name, qualifier)
	log := p.logger.With(zap.String("kind", kind.Name), zap.String("key", key))

	if entry, ok := p.store.Get(key); ok {
		log.Debug("cache hit", zap.Int("count", len(entry.Values)))
		return decode(entry.Values), true
	}

	out := p.fetcher.Fetch(ctx, kind.Args(qualifier)...)
	candidates := kind.extractor(p.cfg)(out.Stdout)

	if out.Failed {
		log.Info("not caching failed fetch",
			zap.String("reason", out.Reason),
			zap.Int("count", len(candidates)))
		return candidates, len(candidates) > 0
	}
	if len(candidates) == 0 {
		log.Info("not caching empty list")
		return candidates, true
	}

	if err := p.store.Put(key, encode(candidates)); err != nil {
		log.Info("could not cache list", zap.Error(err))
	}
	return candidates, true
}

func encode(cs shell.Candidates) []string {
	return lo.Map(cs, func(c shell.Candidate, _ int) string { return c.String() })
}

func decode(values []string) shell.Candidates {
	return lo.Map(values, func(v string, _ int) shell.Candidate { return shell.ParseCandidate(v) })
}
