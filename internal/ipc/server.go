package ipc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"sync"
	"time"

	"github.com/Aryan-Kanada/FSMFINAL/internal/api"
	"github.com/Aryan-Kanada/FSMFINAL/internal/daemon"
	"github.com/Aryan-Kanada/FSMFINAL/internal/logging"
	"github.com/Aryan-Kanada/FSMFINAL/internal/logs"
)

// Server exposes daemon control via JSON-RPC over a Unix domain socket.
type Server struct {
	path      string
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer configures the IPC server at the given socket path.
func NewServer(ctx context.Context, path string, d *daemon.Daemon, logger *slog.Logger) (*Server, error) {
	if d == nil {
		return nil, errors.New("ipc server requires daemon")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	rpcServer := rpc.NewServer()
	svc := &service{daemon: d, logger: logging.NewComponentLogger(logger, "ipc"), ctx: ctx}
	if err := rpcServer.RegisterName("Rackd", svc); err != nil {
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		path:      path,
		logger:    logger,
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
	}, nil
}

// Serve starts accepting RPC connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Debug("ipc server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				s.logger.Warn("ipc accept failed",
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "check socket permissions"))
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		s.logger.Warn("remove ipc socket",
			logging.String("socket", s.path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "remove the socket file manually"))
	}
}

type service struct {
	daemon *daemon.Daemon
	logger *slog.Logger
	ctx    context.Context
}

func (s *service) Start(_ StartRequest, resp *StartResponse) error {
	s.logger.Debug("daemon start requested")
	if err := s.daemon.Start(s.ctx); err != nil {
		resp.Started = false
		resp.Message = err.Error()
		return nil
	}
	resp.Started = true
	resp.Message = "daemon started"
	return nil
}

func (s *service) Stop(_ StopRequest, resp *StopResponse) error {
	s.logger.Debug("daemon stop requested")
	s.daemon.Stop()
	resp.Stopped = true
	return nil
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	resp.Status = s.daemon.Status()
	return nil
}

func (s *service) Resume(_ ResumeRequest, resp *ResumeResponse) error {
	s.logger.Debug("resume requested")
	if err := s.daemon.Resume(s.ctx); err != nil {
		resp.Resumed = false
		resp.Message = err.Error()
		return nil
	}
	resp.Resumed = true
	resp.Message = "emergency latch cleared"
	return nil
}

func (s *service) Store(req StoreRequest, resp *StoreResponse) error {
	task, err := s.daemon.SubmitStore(req.ProductID, req.Position)
	if err != nil {
		return err
	}
	resp.Task = api.FromTask(*task)
	return nil
}

func (s *service) Retrieve(req RetrieveRequest, resp *RetrieveResponse) error {
	task, err := s.daemon.SubmitRetrieve(req.Position)
	if err != nil {
		return err
	}
	resp.Task = api.FromTask(*task)
	return nil
}

func (s *service) Refresh(_ RefreshRequest, resp *RefreshResponse) error {
	task, err := s.daemon.SubmitRefresh()
	if err != nil {
		return err
	}
	resp.Task = api.FromTask(*task)
	return nil
}

func (s *service) Positions(_ PositionsRequest, resp *PositionsResponse) error {
	resp.PositionListResponse = s.daemon.Positions()
	return nil
}

func (s *service) Tasks(_ TasksRequest, resp *TasksResponse) error {
	resp.TaskListResponse = s.daemon.Tasks()
	return nil
}

func (s *service) Find(req FindRequest, resp *FindResponse) error {
	resp.FindResponse = s.daemon.Find(req.ProductID)
	return nil
}

func (s *service) History(_ HistoryRequest, resp *HistoryResponse) error {
	resp.HistoryResponse = s.daemon.History()
	return nil
}

func (s *service) LogTail(req LogTailRequest, resp *LogTailResponse) error {
	wait := time.Duration(req.WaitMillis) * time.Millisecond
	if wait > 30*time.Second {
		wait = 30 * time.Second
	}
	result, err := logs.Tail(s.ctx, s.daemon.LogPath(), logs.TailOptions{
		Offset: req.Offset,
		Limit:  req.Limit,
		Follow: req.Follow,
		Wait:   wait,
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	resp.Lines = result.Lines
	resp.Offset = result.Offset
	return nil
}

func (s *service) Statistics(_ StatisticsRequest, resp *StatisticsResponse) error {
	resp.Statistics = s.daemon.Statistics()
	return nil
}
