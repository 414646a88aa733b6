package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/gofrs/flock"

	"github.com/Aryan-Kanada/FSMFINAL/internal/api"
	"github.com/Aryan-Kanada/FSMFINAL/internal/config"
	"github.com/Aryan-Kanada/FSMFINAL/internal/executor"
	"github.com/Aryan-Kanada/FSMFINAL/internal/logging"
	"github.com/Aryan-Kanada/FSMFINAL/internal/plc"
	"github.com/Aryan-Kanada/FSMFINAL/internal/queue"
	"github.com/Aryan-Kanada/FSMFINAL/internal/rack"
	"github.com/Aryan-Kanada/FSMFINAL/internal/supervisor"
)

// LockFileName is the single-instance lock, kept in the log directory.
const LockFileName = "rackd.lock"

// SocketFileName is the IPC socket, kept in the log directory.
const SocketFileName = "rackd.sock"

// SocketPath returns the IPC socket path for a configuration.
func SocketPath(cfg *config.Config) string {
	return filepath.Join(cfg.Paths.LogDir, SocketFileName)
}

// Daemon wires the rack controller together: position store, task queue,
// executor, supervisor, PLC port, and the HTTP API. It enforces
// single-instance execution through a file lock.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *rack.Store
	queue  *queue.Queue
	exec   *executor.Executor
	sup    *supervisor.Supervisor
	port   plc.Port

	lockPath  string
	lock      *flock.Flock
	apiServer *apiServer
	serialMon *serialMonitor

	running atomic.Bool
	cancel  context.CancelFunc
}

// New constructs a daemon around an already-built PLC port. The remaining
// components are derived from the configuration.
func New(cfg *config.Config, port plc.Port, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || port == nil {
		return nil, errors.New("daemon requires config and plc port")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	store, err := rack.NewStore(rack.Layout{
		Positions: cfg.Rack.Positions,
		Rows:      cfg.Rack.Rows,
		Columns:   cfg.Rack.Columns,
	})
	if err != nil {
		return nil, fmt.Errorf("build position store: %w", err)
	}

	q := queue.New(store, queue.Options{
		CompletedHistory: cfg.Queue.CompletedHistory,
		FailedHistory:    cfg.Queue.FailedHistory,
	})
	exec := executor.New(q, store, port, logger)
	sup := supervisor.New(port, store, q, exec, supervisor.Options{
		ScanInterval:   cfg.ScanInterval(),
		DebounceWindow: cfg.DebounceWindow(),
		AutoLEDSync:    cfg.Operation.AutoLEDSync,
	}, logger)

	lockPath := filepath.Join(cfg.Paths.LogDir, LockFileName)
	d := &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		store:    store,
		queue:    q,
		exec:     exec,
		sup:      sup,
		port:     port,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}
	d.apiServer = newAPIServer(cfg, d, logger)
	d.serialMon = newSerialMonitor(cfg, port, logger)
	return d, nil
}

// Start acquires the instance lock and launches the executor, supervisor,
// HTTP API, and serial gateway monitor.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another rackd instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	d.exec.Start(runCtx)
	d.sup.Start(runCtx)
	if err := d.apiServer.start(runCtx); err != nil {
		d.sup.Stop()
		d.exec.Stop()
		cancel()
		d.cancel = nil
		_ = d.lock.Unlock()
		return err
	}
	if err := d.serialMon.Start(runCtx); err != nil {
		d.logger.Warn("serial gateway monitor unavailable", logging.Error(err))
	}

	d.running.Store(true)
	d.logger.Info("rackd started", logging.String("lock", d.lockPath))
	return nil
}

// Stop halts all loops and releases the instance lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.serialMon.Stop()
	d.apiServer.stop()
	d.sup.Stop()
	d.exec.Stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("rackd stopped")
}

// Close stops the daemon and disconnects from the PLC.
func (d *Daemon) Close() error {
	d.Stop()
	d.port.Disconnect()
	return nil
}

// Running reports whether Start has completed.
func (d *Daemon) Running() bool {
	return d.running.Load()
}

// SubmitStore queues a store task. Position 0 picks the first empty position
// at execution time.
func (d *Daemon) SubmitStore(productID string, position int) (*queue.Task, error) {
	task := queue.NewStoreTask(productID, position)
	if err := d.queue.Submit(task); err != nil {
		return nil, err
	}
	d.logger.Info("store task queued",
		logging.String(logging.FieldTaskID, task.ID),
		logging.String(logging.FieldProductID, productID),
		logging.Int(logging.FieldPosition, position))
	return task, nil
}

// SubmitRetrieve queues a retrieve task for a position.
func (d *Daemon) SubmitRetrieve(position int) (*queue.Task, error) {
	task := queue.NewRetrieveTask(position)
	if err := d.queue.Submit(task); err != nil {
		return nil, err
	}
	d.logger.Info("retrieve task queued",
		logging.String(logging.FieldTaskID, task.ID),
		logging.Int(logging.FieldPosition, position))
	return task, nil
}

// SubmitRefresh queues an LED refresh task.
func (d *Daemon) SubmitRefresh() (*queue.Task, error) {
	task := queue.NewRefreshDisplayTask()
	if err := d.queue.Submit(task); err != nil {
		return nil, err
	}
	return task, nil
}

// Resume clears an emergency latch.
func (d *Daemon) Resume(ctx context.Context) error {
	return d.sup.Resume(ctx)
}

// Status builds the wire-level status snapshot.
func (d *Daemon) Status() api.DaemonStatus {
	status := api.DaemonStatus{
		Running:          d.running.Load(),
		PID:              os.Getpid(),
		System:           string(d.sup.Status()),
		EmergencyLatched: d.sup.Latched(),
		QueueAccepting:   d.queue.Accepting(),
		QueueSize:        d.queue.Size(),
		Statistics:       api.FromStatistics(d.store.Statistics()),
		LockFilePath:     d.lockPath,
	}
	if active, ok := d.queue.Active(); ok {
		view := api.FromTask(active)
		status.ActiveTask = &view
	}
	return status
}

// Positions builds the wire-level rack snapshot.
func (d *Daemon) Positions() api.PositionListResponse {
	return api.PositionListResponse{
		Positions: api.FromPositions(d.store.Snapshot()),
		Grid:      d.store.Grid(),
	}
}

// Tasks builds the wire-level queue snapshot.
func (d *Daemon) Tasks() api.TaskListResponse {
	resp := api.TaskListResponse{
		Pending:   api.FromTasks(d.queue.Pending()),
		Completed: api.FromTasks(d.queue.RecentCompleted()),
		Failed:    api.FromTasks(d.queue.RecentFailed()),
	}
	if active, ok := d.queue.Active(); ok {
		view := api.FromTask(active)
		resp.Active = &view
	}
	return resp
}

// Find returns the positions currently holding a product.
func (d *Daemon) Find(productID string) api.FindResponse {
	return api.FindResponse{
		ProductID: productID,
		Positions: api.FromPositions(d.store.FindByProduct(productID)),
	}
}

// History builds the wire-level audit trail.
func (d *Daemon) History() api.HistoryResponse {
	return api.HistoryResponse{Records: api.FromAuditRecords(d.store.History())}
}

// Statistics builds the wire-level occupancy summary.
func (d *Daemon) Statistics() api.StatisticsView {
	return api.FromStatistics(d.store.Statistics())
}

// APIAddr returns the bound HTTP API address. Empty when the API is
// disabled or the daemon is not running.
func (d *Daemon) APIAddr() string {
	if d.apiServer == nil || d.apiServer.listener == nil {
		return ""
	}
	return d.apiServer.listener.Addr().String()
}

// LogPath returns the daemon log file path.
func (d *Daemon) LogPath() string {
	return filepath.Join(d.cfg.Paths.LogDir, logging.LogFileName)
}
