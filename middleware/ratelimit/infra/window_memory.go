package infra

import (
	"context"
	"sync"
	"time"

	"vivair-contato/middleware/ratelimit/domain"
)

// MemoryWindowStore conta requisições por chave em janelas fixas, em memória.
//
// A janela abre na primeira requisição da chave e só é reiniciada de forma
// preguiçosa, quando chega uma requisição depois de ResetAt. Vale apenas
// para a instância atual do processo.
type MemoryWindowStore struct {
	mu      sync.Mutex
	entries map[string]*windowEntry
	limit   int
	window  time.Duration
	now     func() time.Time
}

type windowEntry struct {
	count   int
	resetAt time.Time
}

type WindowOption func(*MemoryWindowStore)

// WithClock troca o relógio (útil em testes).
func WithClock(now func() time.Time) WindowOption {
	return func(s *MemoryWindowStore) { s.now = now }
}

func NewMemoryWindowStore(limit int, window time.Duration, opts ...WindowOption) *MemoryWindowStore {
	s := &MemoryWindowStore{
		entries: make(map[string]*windowEntry),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryWindowStore) Limit() int             { return s.limit }
func (s *MemoryWindowStore) Window() time.Duration { return s.window }

// Check implementa domain.WindowLimiter. Janela vencida conta como vazia.
func (s *MemoryWindowStore) Check(_ context.Context, key domain.Key) (domain.Window, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	ent, ok := s.entries[string(key)]
	if !ok || !now.Before(ent.resetAt) {
		return domain.Window{Limit: s.limit, ResetAt: now.Add(s.window)}, nil
	}
	return domain.Window{Count: ent.count, Limit: s.limit, ResetAt: ent.resetAt}, nil
}

// Record implementa domain.WindowLimiter.
func (s *MemoryWindowStore) Record(_ context.Context, key domain.Key) (domain.Window, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	ent, ok := s.entries[string(key)]
	if !ok || !now.Before(ent.resetAt) {
		ent = &windowEntry{count: 0, resetAt: now.Add(s.window)}
		s.entries[string(key)] = ent
	}
	if ent.count < s.limit {
		ent.count++
	}
	return domain.Window{Count: ent.count, Limit: s.limit, ResetAt: ent.resetAt}, nil
}

// Cleanup remove janelas vencidas. Não muda o resultado de Check/Record:
// uma janela vencida seria reiniciada de qualquer forma.
func (s *MemoryWindowStore) Cleanup() {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, ent := range s.entries {
		if !now.Before(ent.resetAt) {
			delete(s.entries, k)
		}
	}
}

// Len retorna quantas chaves estão em memória.
func (s *MemoryWindowStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// StartJanitor limpa janelas vencidas a cada `every`. Pare cancelando o contexto.
func (s *MemoryWindowStore) StartJanitor(ctx DoneContext, every time.Duration) {
	startJanitor(ctx, every, s.Cleanup)
}
