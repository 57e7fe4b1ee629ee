package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Session — браузерная сессия одного воркера.
type Session struct {
	WorkerID string
	Browser  *PlaywrightBrowser

	lastUsed time.Time
	busy     bool
}

// Factory создаёт и запускает новый браузер для воркера.
type Factory func(ctx context.Context, workerID string) (*PlaywrightBrowser, error)

// Pool управляет браузерными сессиями по идентификатору воркера.
// Простаивающие сессии закрываются фоновой зачисткой.
type Pool struct {
	factory     Factory
	logger      *zap.Logger
	idleTimeout time.Duration
	sweepPeriod time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopped  bool

	// now подменяется в тестах
	now func() time.Time
}

// NewPool создаёт пул и запускает фоновую зачистку простаивающих сессий.
func NewPool(factory Factory, logger *zap.Logger, idleTimeout, sweepPeriod time.Duration) *Pool {
	if idleTimeout == 0 {
		idleTimeout = 30 * time.Minute
	}
	if sweepPeriod == 0 {
		sweepPeriod = 60 * time.Second
	}

	p := &Pool{
		factory:     factory,
		logger:      logger,
		idleTimeout: idleTimeout,
		sweepPeriod: sweepPeriod,
		sessions:    make(map[string]*Session),
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
		now:         time.Now,
	}

	go p.sweepLoop()
	return p
}

// Acquire возвращает сессию воркера, создавая её при первом обращении.
// Повторный Acquire того же воркера отдаёт ту же сессию и обновляет
// таймер простоя.
func (p *Pool) Acquire(ctx context.Context, workerID string) (*Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return nil, fmt.Errorf("пул закрыт")
	}

	if s, ok := p.sessions[workerID]; ok {
		s.busy = true
		s.lastUsed = p.now()
		return s, nil
	}

	browser, err := p.factory(ctx, workerID)
	if err != nil {
		return nil, fmt.Errorf("ошибка запуска браузера для воркера %s: %w", workerID, err)
	}

	s := &Session{
		WorkerID: workerID,
		Browser:  browser,
		lastUsed: p.now(),
		busy:     true,
	}
	p.sessions[workerID] = s

	if p.logger != nil {
		p.logger.Info("создана браузерная сессия", zap.String("worker_id", workerID))
	}
	return s, nil
}

// Release возвращает сессию в пул и сбрасывает таймер простоя.
func (p *Pool) Release(workerID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if s, ok := p.sessions[workerID]; ok {
		s.busy = false
		s.lastUsed = p.now()
	}
}

// Close закрывает сессию конкретного воркера.
func (p *Pool) Close(workerID string) error {
	p.mu.Lock()
	s, ok := p.sessions[workerID]
	if ok {
		delete(p.sessions, workerID)
	}
	p.mu.Unlock()

	if !ok {
		return nil
	}
	return s.Browser.Close()
}

// CloseAll останавливает зачистку и закрывает все сессии.
// Закрытие браузеров идёт параллельно с ограничением по времени,
// чтобы зависший playwright не блокировал остановку процесса.
func (p *Pool) CloseAll() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.stopCh)

	sessions := make([]*Session, 0, len(p.sessions))
	for _, s := range p.sessions {
		sessions = append(sessions, s)
	}
	p.sessions = make(map[string]*Session)
	p.mu.Unlock()

	<-p.doneCh

	var wg sync.WaitGroup
	for _, s := range sessions {
		wg.Add(1)
		go func(s *Session) {
			defer wg.Done()
			if err := s.Browser.Close(); err != nil && p.logger != nil {
				p.logger.Warn("ошибка закрытия браузера",
					zap.String("worker_id", s.WorkerID), zap.Error(err))
			}
		}(s)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(15 * time.Second):
		if p.logger != nil {
			p.logger.Warn("таймаут закрытия браузерных сессий")
		}
	}
}

func (p *Pool) sweepLoop() {
	defer close(p.doneCh)

	ticker := time.NewTicker(p.sweepPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.sweep()
		}
	}
}

// sweep закрывает сессии, простаивающие дольше idleTimeout.
func (p *Pool) sweep() {
	now := p.now()

	p.mu.Lock()
	var expired []*Session
	for id, s := range p.sessions {
		if !s.busy && now.Sub(s.lastUsed) > p.idleTimeout {
			expired = append(expired, s)
			delete(p.sessions, id)
		}
	}
	p.mu.Unlock()

	for _, s := range expired {
		if p.logger != nil {
			p.logger.Info("закрываем простаивающую сессию",
				zap.String("worker_id", s.WorkerID))
		}
		if err := s.Browser.Close(); err != nil && p.logger != nil {
			p.logger.Warn("ошибка закрытия браузера",
				zap.String("worker_id", s.WorkerID), zap.Error(err))
		}
	}
}

// Size возвращает число открытых сессий.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.sessions)
}
