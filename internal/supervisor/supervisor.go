package supervisor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Aryan-Kanada/FSMFINAL/internal/debounce"
	"github.com/Aryan-Kanada/FSMFINAL/internal/executor"
	"github.com/Aryan-Kanada/FSMFINAL/internal/logging"
	"github.com/Aryan-Kanada/FSMFINAL/internal/plc"
	"github.com/Aryan-Kanada/FSMFINAL/internal/queue"
	"github.com/Aryan-Kanada/FSMFINAL/internal/rack"
)

// Status is the coarse system state reported to operators.
type Status string

const (
	StatusDisconnected Status = "disconnected"
	StatusConnecting   Status = "connecting"
	StatusMonitoring   Status = "monitoring"
	StatusEmergency    Status = "emergency"
	StatusError        Status = "error"
)

// ErrEmergencyActive is returned by Resume while the emergency stop input
// is still asserted.
var ErrEmergencyActive = errors.New("emergency stop input still active")

// ErrNotLatched is returned by Resume when no emergency latch is set.
var ErrNotLatched = errors.New("no emergency stop latched")

// Options tunes the scan loop.
type Options struct {
	ScanInterval   time.Duration
	DebounceWindow time.Duration
	AutoLEDSync    bool
}

func (o Options) withDefaults() Options {
	if o.ScanInterval <= 0 {
		o.ScanInterval = 500 * time.Millisecond
	}
	if o.DebounceWindow <= 0 {
		o.DebounceWindow = 250 * time.Millisecond
	}
	return o
}

// Supervisor owns the scan loop: it polls the PLC every tick, mirrors LED
// and button state into the position store, turns debounced button presses
// into retrieve tasks, and watches the emergency stop input.
//
// The emergency stop latches. A rising edge drains the queue, cancels the
// in-flight task, and forces every LED off. Releasing the input returns the
// reported status to monitoring, but submissions and scanning stay halted
// until an operator calls Resume with the input released.
type Supervisor struct {
	port      plc.Port
	store     *rack.Store
	queue     *queue.Queue
	exec      *executor.Executor
	debouncer *debounce.Debouncer
	logger    *slog.Logger
	opts      Options

	mu           sync.Mutex
	status       Status
	connected    bool
	latched      bool
	emergencyRaw bool

	wg      sync.WaitGroup
	stop    context.CancelFunc
	started bool
}

// New builds a supervisor. Start must be called before it does anything.
func New(port plc.Port, store *rack.Store, q *queue.Queue, exec *executor.Executor, opts Options, logger *slog.Logger) *Supervisor {
	opts = opts.withDefaults()
	return &Supervisor{
		port:      port,
		store:     store,
		queue:     q,
		exec:      exec,
		debouncer: debounce.New(opts.DebounceWindow),
		logger:    logging.NewComponentLogger(logger, "supervisor"),
		opts:      opts,
		status:    StatusDisconnected,
	}
}

// Start launches the scan loop goroutine.
func (s *Supervisor) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.stop = cancel
	s.started = true

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(runCtx)
	}()
}

// Stop halts the scan loop and disconnects from the PLC.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	cancel := s.stop
	s.stop = nil
	s.started = false
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()

	s.port.Disconnect()
	s.setConnected(false, StatusDisconnected)
}

// Status returns the current coarse system state.
func (s *Supervisor) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Latched reports whether an emergency stop is latched.
func (s *Supervisor) Latched() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latched
}

// Resume clears the emergency latch and reopens the queue. It refuses while
// the emergency input is still asserted, and reconciles the LEDs afterwards
// via a refresh task.
func (s *Supervisor) Resume(ctx context.Context) error {
	s.mu.Lock()
	latched := s.latched
	s.mu.Unlock()
	if !latched {
		return ErrNotLatched
	}

	active, err := s.port.ReadEmergency(ctx)
	if err != nil {
		return fmt.Errorf("check emergency input: %w", err)
	}
	if active {
		return ErrEmergencyActive
	}

	s.mu.Lock()
	s.latched = false
	if s.connected {
		s.status = StatusMonitoring
	}
	s.mu.Unlock()

	s.queue.SetAccepting(true)
	s.debouncer.Reset()
	if err := s.queue.Submit(queue.NewRefreshDisplayTask()); err != nil {
		s.logger.Warn("submit refresh after resume", logging.Error(err))
	}
	s.logger.Info("emergency latch cleared, operations resumed")
	return nil
}

func (s *Supervisor) run(ctx context.Context) {
	ticker := time.NewTicker(s.opts.ScanInterval)
	defer ticker.Stop()

	for {
		if !s.isConnected() {
			s.connect(ctx)
		} else {
			s.tick(ctx)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Supervisor) connect(ctx context.Context) {
	s.setStatus(StatusConnecting)
	if err := s.port.Connect(ctx); err != nil {
		s.setStatus(StatusError)
		s.logger.Warn("plc connect failed, will retry", logging.Error(err))
		return
	}
	s.setConnected(true, StatusMonitoring)
	s.logger.Info("plc connected, monitoring started")

	if s.opts.AutoLEDSync {
		if err := s.queue.Submit(queue.NewRefreshDisplayTask()); err != nil {
			s.logger.Warn("submit initial refresh", logging.Error(err))
		}
	}
}

// tick is one scan: emergency edge detection first, then shadow sync, then
// button derivation. Shadows are updated before buttons are sampled so a
// press is always judged against the freshest occupancy view.
func (s *Supervisor) tick(ctx context.Context) {
	raw, err := s.port.ReadEmergency(ctx)
	if err != nil {
		s.logger.Warn("read emergency input", logging.Error(err))
		if errors.Is(err, plc.ErrNotConnected) {
			s.setConnected(false, StatusError)
		}
		return
	}

	s.mu.Lock()
	rising := raw && !s.emergencyRaw
	falling := !raw && s.emergencyRaw
	s.emergencyRaw = raw
	latched := s.latched
	s.mu.Unlock()

	if rising {
		if !latched {
			s.triggerEmergency(ctx)
			return
		}
		// Re-asserted while still latched: no queue left to drain, just
		// report the state.
		s.mu.Lock()
		s.status = StatusEmergency
		s.mu.Unlock()
		s.logger.Warn("emergency stop re-asserted while latched")
		return
	}
	if falling {
		// The status leaves Emergency on release, but the latch still
		// blocks submissions and scanning until an explicit Resume.
		s.mu.Lock()
		if s.latched && s.connected {
			s.status = StatusMonitoring
		}
		s.mu.Unlock()
		s.logger.Info("emergency stop input released, awaiting resume")
	}
	if latched {
		return
	}

	s.scanPositions(ctx)
}

func (s *Supervisor) scanPositions(ctx context.Context) {
	layout := s.store.Layout()
	for id := 1; id <= layout.Positions; id++ {
		ledRaw, ledErr := s.port.ReadLED(ctx, id)
		buttonRaw, buttonErr := s.port.ReadButton(ctx, id)

		var ledPtr, buttonPtr *bool
		if ledErr == nil {
			ledPtr = &ledRaw
		}
		if buttonErr == nil {
			buttonPtr = &buttonRaw
		}
		s.store.SyncShadow(id, ledPtr, buttonPtr)

		if ledErr != nil || buttonErr != nil {
			continue
		}

		if s.debouncer.Sample(id, buttonRaw) {
			s.handleButtonPress(id)
		}

		if s.opts.AutoLEDSync {
			position, err := s.store.Get(id)
			if err == nil && ledRaw != position.Occupied() {
				if err := s.port.WriteLED(ctx, id, position.Occupied()); err != nil {
					s.logger.Warn("led reconcile write failed",
						logging.Int(logging.FieldPosition, id), logging.Error(err))
				}
			}
		}
	}
}

// handleButtonPress turns a debounced press on an occupied position into a
// retrieve task. Presses on empty positions are ignored.
func (s *Supervisor) handleButtonPress(id int) {
	position, err := s.store.Get(id)
	if err != nil {
		return
	}
	if !position.Occupied() {
		s.logger.Debug("button press on empty position ignored",
			logging.Int(logging.FieldPosition, id))
		return
	}

	task := queue.NewRetrieveTask(id)
	if err := s.queue.Submit(task); err != nil {
		s.logger.Warn("button retrieve rejected",
			logging.Int(logging.FieldPosition, id), logging.Error(err))
		return
	}
	s.logger.Info("button press queued retrieval",
		logging.Int(logging.FieldPosition, id),
		logging.String(logging.FieldTaskID, task.ID),
		logging.String(logging.FieldProductID, position.ProductID))
}

func (s *Supervisor) triggerEmergency(ctx context.Context) {
	s.mu.Lock()
	s.latched = true
	s.status = StatusEmergency
	s.mu.Unlock()

	s.queue.SetAccepting(false)
	drained := s.queue.CancelAllPending(queue.EmergencyStopReason)
	s.exec.Abort()

	layout := s.store.Layout()
	for id := 1; id <= layout.Positions; id++ {
		if err := s.port.WriteLED(ctx, id, false); err != nil {
			s.logger.Warn("force led off failed",
				logging.Int(logging.FieldPosition, id), logging.Error(err))
		}
	}

	s.logger.Error("emergency stop activated",
		logging.String(logging.FieldEventType, "emergency_stop"),
		logging.Int("cancelled_pending", drained),
		logging.String(logging.FieldImpact, "all operations halted until resume"))
}

func (s *Supervisor) isConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

func (s *Supervisor) setStatus(status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latched {
		return
	}
	s.status = status
}

func (s *Supervisor) setConnected(connected bool, status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = connected
	if !s.latched {
		s.status = status
	}
}
