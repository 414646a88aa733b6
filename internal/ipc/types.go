package ipc

import "github.com/Aryan-Kanada/FSMFINAL/internal/api"

// StartRequest asks the daemon to start processing.
type StartRequest struct{}

// StartResponse reports the outcome of a start request.
type StartResponse struct {
	Started bool   `json:"started"`
	Message string `json:"message"`
}

// StopRequest asks the daemon to stop processing.
type StopRequest struct{}

// StopResponse acknowledges a stop request.
type StopResponse struct {
	Stopped bool `json:"stopped"`
}

// StatusRequest asks for the daemon status snapshot.
type StatusRequest struct{}

// StatusResponse carries the daemon status snapshot.
type StatusResponse struct {
	Status api.DaemonStatus `json:"status"`
}

// ResumeRequest asks the daemon to clear an emergency latch.
type ResumeRequest struct{}

// ResumeResponse reports the outcome of a resume request.
type ResumeResponse struct {
	Resumed bool   `json:"resumed"`
	Message string `json:"message"`
}

// StoreRequest queues a store task. Position 0 means first empty.
type StoreRequest struct {
	ProductID string `json:"product_id"`
	Position  int    `json:"position"`
}

// StoreResponse carries the accepted store task.
type StoreResponse struct {
	Task api.TaskView `json:"task"`
}

// RetrieveRequest queues a retrieve task.
type RetrieveRequest struct {
	Position int `json:"position"`
}

// RetrieveResponse carries the accepted retrieve task.
type RetrieveResponse struct {
	Task api.TaskView `json:"task"`
}

// RefreshRequest queues an LED refresh task.
type RefreshRequest struct{}

// RefreshResponse carries the accepted refresh task.
type RefreshResponse struct {
	Task api.TaskView `json:"task"`
}

// PositionsRequest asks for the rack snapshot.
type PositionsRequest struct{}

// PositionsResponse carries the rack snapshot.
type PositionsResponse struct {
	api.PositionListResponse
}

// TasksRequest asks for the queue snapshot.
type TasksRequest struct{}

// TasksResponse carries the queue snapshot.
type TasksResponse struct {
	api.TaskListResponse
}

// FindRequest asks for the positions holding a product.
type FindRequest struct {
	ProductID string `json:"product_id"`
}

// FindResponse carries the matching positions.
type FindResponse struct {
	api.FindResponse
}

// HistoryRequest asks for the store/retrieve audit trail.
type HistoryRequest struct{}

// HistoryResponse carries the audit trail.
type HistoryResponse struct {
	api.HistoryResponse
}

// LogTailRequest reads from the daemon log file. Offset -1 asks for the
// last Limit lines; WaitMillis bounds follow-mode blocking.
type LogTailRequest struct {
	Offset     int64 `json:"offset"`
	Limit      int   `json:"limit"`
	Follow     bool  `json:"follow"`
	WaitMillis int   `json:"wait_millis"`
}

// LogTailResponse carries log lines and the offset to resume from.
type LogTailResponse struct {
	Lines  []string `json:"lines"`
	Offset int64    `json:"offset"`
}

// StatisticsRequest asks for the occupancy summary.
type StatisticsRequest struct{}

// StatisticsResponse carries the occupancy summary.
type StatisticsResponse struct {
	Statistics api.StatisticsView `json:"statistics"`
}
