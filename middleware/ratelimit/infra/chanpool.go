package infra

import (
	"context"
	"sync"
)

// ChanPool é um semáforo sobre channel bufferizado. A ocupação é exposta
// para métricas (gauge de submissões em andamento).
type ChanPool struct {
	sem chan struct{}
}

func NewChanPool(size int) *ChanPool {
	if size < 1 {
		size = 1
	}
	return &ChanPool{sem: make(chan struct{}, size)}
}

// Acquire implementa domain.SlotPool. O release pode ser chamado mais de uma
// vez; só a primeira devolve a vaga.
func (p *ChanPool) Acquire(ctx context.Context) (func(), bool) {
	select {
	case p.sem <- struct{}{}:
		var once sync.Once
		return func() { once.Do(func() { <-p.sem }) }, true
	case <-ctx.Done():
		return nil, false
	}
}

func (p *ChanPool) InFlight() int { return len(p.sem) }
func (p *ChanPool) Cap() int      { return cap(p.sem) }
