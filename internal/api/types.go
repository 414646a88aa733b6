package api

import "time"

// PositionView is the wire representation of one rack position.
type PositionView struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Row          int       `json:"row"`
	Column       int       `json:"column"`
	State        string    `json:"state"`
	ProductID    string    `json:"product_id,omitempty"`
	StoredAt     time.Time `json:"stored_at,omitzero"`
	LEDShadow    bool      `json:"led"`
	ButtonShadow bool      `json:"button"`
}

// TaskView is the wire representation of one queued operation.
type TaskView struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Position    int       `json:"position,omitempty"`
	ProductID   string    `json:"product_id,omitempty"`
	Status      string    `json:"status"`
	Result      string    `json:"result,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	StartedAt   time.Time `json:"started_at,omitzero"`
	CompletedAt time.Time `json:"completed_at,omitzero"`
}

// StatisticsView summarizes rack occupancy.
type StatisticsView struct {
	Total            int     `json:"total"`
	Occupied         int     `json:"occupied"`
	Empty            int     `json:"empty"`
	OccupancyPercent float64 `json:"occupancy_percent"`
	UniqueProducts   int     `json:"unique_products"`
}

// DaemonStatus is the top-level status payload.
type DaemonStatus struct {
	Running          bool           `json:"running"`
	PID              int            `json:"pid"`
	System           string         `json:"system"`
	EmergencyLatched bool           `json:"emergency_latched"`
	QueueAccepting   bool           `json:"queue_accepting"`
	QueueSize        int            `json:"queue_size"`
	ActiveTask       *TaskView      `json:"active_task,omitempty"`
	Statistics       StatisticsView `json:"statistics"`
	LockFilePath     string         `json:"lock_file_path,omitempty"`
}

// PositionListResponse carries the full rack snapshot plus a printable grid.
type PositionListResponse struct {
	Positions []PositionView `json:"positions"`
	Grid      [][]string     `json:"grid"`
}

// TaskListResponse carries the queue snapshot.
type TaskListResponse struct {
	Active    *TaskView  `json:"active,omitempty"`
	Pending   []TaskView `json:"pending"`
	Completed []TaskView `json:"completed"`
	Failed    []TaskView `json:"failed"`
}

// AuditView is the wire representation of one store/retrieve mutation.
type AuditView struct {
	Kind      string    `json:"kind"`
	Position  int       `json:"position"`
	ProductID string    `json:"product_id"`
	At        time.Time `json:"at"`
}

// HistoryResponse carries the bounded audit trail, oldest first.
type HistoryResponse struct {
	Records []AuditView `json:"records"`
}

// FindResponse carries the positions holding a product.
type FindResponse struct {
	ProductID string         `json:"product_id"`
	Positions []PositionView `json:"positions"`
}

// SubmitResponse acknowledges an accepted task.
type SubmitResponse struct {
	TaskID   string `json:"task_id"`
	Position int    `json:"position,omitempty"`
	Message  string `json:"message"`
}
