package sentiment

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/avelichka/mindfulme/internal/common"
)

// Provider owns the process-wide model singleton. The first Get triggers
// construction; concurrent first calls share a single Build via singleflight
// and every later call reads the cached instance without locking.
//
// A failed Build is returned to the callers that were waiting on it but is
// not cached: the next Get attempts construction again. Cancellation of one
// caller's context abandons the wait, not the build, so a half-built model is
// never observable.
type Provider struct {
	factory Factory
	group   singleflight.Group
	model   atomic.Pointer[Model]
}

func NewProvider(factory Factory) *Provider {
	return &Provider{factory: factory}
}

// Get returns the shared model, building it on first use.
func (p *Provider) Get(ctx context.Context) (*Model, error) {
	if m := p.model.Load(); m != nil {
		return m, nil
	}

	ch := p.group.DoChan("model", func() (any, error) {
		m, err := p.factory.Build()
		if err != nil {
			return nil, fmt.Errorf("%w: building sentiment model: %w", common.ErrInference, err)
		}
		p.model.Store(m)
		return m, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Model), nil
	}
}

// Invalidate drops the cached model so the next Get rebuilds it. Intended
// for tests and for explicit weight reloads.
func (p *Provider) Invalidate() {
	p.model.Store(nil)
}
