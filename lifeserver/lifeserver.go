package lifeserver

import (
	"context"
	"sync"
	"time"

	"github.com/kellsaro/golife/life"
)

type commandType int

const (
	cmdAdvance commandType = iota
	cmdRender
	cmdSnapshot
)

type command struct {
	typ   commandType
	reply chan snapshot
}

type snapshot struct {
	grid       life.Grid
	generation int
	rendering  string
}

// Observer is notified after each completed generation. Callbacks run on
// the server goroutine, so one observer sees generations in order and must
// not call back into the server.
type Observer interface {
	OnGenerationUpdate(generation int, grid life.Grid)
}

// ServerConfig holds GridServer configuration.
type ServerConfig struct {
	QueueSize int
}

// DefaultServerConfig returns the default configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		QueueSize: 64,
	}
}

// GridServer owns a single grid and processes commands strictly in arrival
// order on one goroutine. Advance is fire-and-forget; the read commands
// block until every command queued ahead of them has run.
type GridServer struct {
	grid       life.Grid
	generation int
	commands   chan command
	stopChan   chan struct{}
	stopped    chan struct{}
	observers  []Observer
	running    bool
	mutex      sync.RWMutex
}

// NewGridServer creates a server owning grid. The server does not process
// commands until Start is called; commands issued before then queue up.
func NewGridServer(grid life.Grid, config ServerConfig) *GridServer {
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultServerConfig().QueueSize
	}
	return &GridServer{
		grid:     grid,
		commands: make(chan command, config.QueueSize),
		stopChan: make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

// Start launches the command loop. Starting twice is a no-op.
func (s *GridServer) Start() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.running {
		return
	}
	s.running = true
	go s.loop()
}

// Stop terminates the command loop. A stopped server cannot be restarted;
// commands issued after Stop return zero values instead of blocking.
func (s *GridServer) Stop() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.running {
		return
	}
	s.running = false
	close(s.stopChan)
}

// IsRunning reports whether the command loop is active.
func (s *GridServer) IsRunning() bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.running
}

func (s *GridServer) loop() {
	defer close(s.stopped)

	for {
		select {
		case <-s.stopChan:
			return
		case cmd := <-s.commands:
			s.handle(cmd)
		}
	}
}

func (s *GridServer) handle(cmd command) {
	switch cmd.typ {
	case cmdAdvance:
		s.grid = s.grid.Evolve()
		s.generation++
		s.notifyObservers()
	case cmdRender:
		cmd.reply <- snapshot{rendering: s.grid.Render(), generation: s.generation}
	case cmdSnapshot:
		cmd.reply <- snapshot{grid: s.grid, generation: s.generation}
	}
}

// Advance queues exactly one generation step and returns without waiting
// for it to run. Steps are applied in the order they were queued.
func (s *GridServer) Advance() {
	select {
	case s.commands <- command{typ: cmdAdvance}:
	case <-s.stopped:
	}
}

func (s *GridServer) request(typ commandType) (snapshot, bool) {
	reply := make(chan snapshot, 1)
	select {
	case s.commands <- command{typ: typ, reply: reply}:
	case <-s.stopped:
		return snapshot{}, false
	}

	select {
	case snap := <-reply:
		return snap, true
	case <-s.stopped:
		return snapshot{}, false
	}
}

// Render blocks until every previously queued command has run, then
// returns the rendering of the grid at that point.
func (s *GridServer) Render() string {
	snap, ok := s.request(cmdRender)
	if !ok {
		return ""
	}
	return snap.rendering
}

// Snapshot returns the current grid value and generation number.
func (s *GridServer) Snapshot() (life.Grid, int) {
	snap, _ := s.request(cmdSnapshot)
	return snap.grid, snap.generation
}

// Generation returns the number of completed generation steps.
func (s *GridServer) Generation() int {
	snap, _ := s.request(cmdSnapshot)
	return snap.generation
}

// AliveCells returns the live cells of the current grid in row-major
// order, carrying everything an external renderer needs.
func (s *GridServer) AliveCells() []life.Cell {
	grid, _ := s.Snapshot()
	return grid.AliveCells()
}

// AddObserver registers o for generation updates.
func (s *GridServer) AddObserver(o Observer) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.observers = append(s.observers, o)
}

// RemoveObserver unregisters o.
func (s *GridServer) RemoveObserver(o Observer) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for i, obs := range s.observers {
		if obs == o {
			s.observers = append(s.observers[:i], s.observers[i+1:]...)
			break
		}
	}
}

func (s *GridServer) notifyObservers() {
	s.mutex.RLock()
	observers := make([]Observer, len(s.observers))
	copy(observers, s.observers)
	s.mutex.RUnlock()

	for _, o := range observers {
		o.OnGenerationUpdate(s.generation, s.grid)
	}
}

// Runner advances a GridServer on a fixed cadence until stopped.
type Runner struct {
	server     *GridServer
	speed      time.Duration
	running    bool
	paused     bool
	stopChan   chan struct{}
	pauseChan  chan struct{}
	resumeChan chan struct{}
	mutex      sync.RWMutex
}

// DefaultSpeed is the cadence used when a Runner is created without a
// positive speed.
const DefaultSpeed = 100 * time.Millisecond

// NewRunner creates a runner driving server one generation per tick.
func NewRunner(server *GridServer, speed time.Duration) *Runner {
	if speed <= 0 {
		speed = DefaultSpeed
	}
	return &Runner{
		server:     server,
		speed:      speed,
		stopChan:   make(chan struct{}),
		pauseChan:  make(chan struct{}),
		resumeChan: make(chan struct{}),
	}
}

// SetSpeed changes the cadence; it takes effect on the next tick.
func (r *Runner) SetSpeed(speed time.Duration) {
	if speed <= 0 {
		return
	}
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.speed = speed
}

// Run drives the server until the context is cancelled or Stop is called.
func (r *Runner) Run(ctx context.Context) {
	r.mutex.Lock()
	r.running = true
	current := r.speed
	r.mutex.Unlock()

	ticker := time.NewTicker(current)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.finish()
			return

		case <-r.stopChan:
			r.finish()
			return

		case <-r.pauseChan:
			r.mutex.Lock()
			r.paused = true
			r.mutex.Unlock()

			select {
			case <-r.resumeChan:
				r.mutex.Lock()
				r.paused = false
				r.mutex.Unlock()
			case <-ctx.Done():
				r.finish()
				return
			case <-r.stopChan:
				r.finish()
				return
			}

		case <-ticker.C:
			r.mutex.RLock()
			speed := r.speed
			r.mutex.RUnlock()

			if speed != current {
				current = speed
				ticker.Stop()
				ticker = time.NewTicker(current)
			}

			r.server.Advance()
		}
	}
}

func (r *Runner) finish() {
	r.mutex.Lock()
	r.running = false
	r.paused = false
	r.mutex.Unlock()
}

// Stop ends the run loop.
func (r *Runner) Stop() {
	select {
	case r.stopChan <- struct{}{}:
	default:
	}
}

// Pause suspends ticking until Resume.
func (r *Runner) Pause() {
	select {
	case r.pauseChan <- struct{}{}:
	default:
	}
}

// Resume continues a paused runner.
func (r *Runner) Resume() {
	select {
	case r.resumeChan <- struct{}{}:
	default:
	}
}

// IsRunning reports whether the run loop is active.
func (r *Runner) IsRunning() bool {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return r.running
}

// IsPaused reports whether the run loop is paused.
func (r *Runner) IsPaused() bool {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return r.paused
}
