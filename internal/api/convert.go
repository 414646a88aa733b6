package api

import (
	"github.com/Aryan-Kanada/FSMFINAL/internal/queue"
	"github.com/Aryan-Kanada/FSMFINAL/internal/rack"
)

// FromPosition converts a rack position into its wire form.
func FromPosition(p rack.Position) PositionView {
	return PositionView{
		ID:           p.ID,
		Name:         p.Name(),
		Row:          p.Row,
		Column:       p.Column,
		State:        string(p.State),
		ProductID:    p.ProductID,
		StoredAt:     p.StoredAt,
		LEDShadow:    p.LEDShadow,
		ButtonShadow: p.ButtonShadow,
	}
}

// FromPositions converts a rack snapshot.
func FromPositions(positions []rack.Position) []PositionView {
	views := make([]PositionView, 0, len(positions))
	for _, p := range positions {
		views = append(views, FromPosition(p))
	}
	return views
}

// FromTask converts a task into its wire form.
func FromTask(t queue.Task) TaskView {
	return TaskView{
		ID:          t.ID,
		Kind:        string(t.Kind),
		Position:    t.TargetPosition,
		ProductID:   t.ProductID,
		Status:      string(t.Status),
		Result:      t.Result,
		CreatedAt:   t.CreatedAt,
		StartedAt:   t.StartedAt,
		CompletedAt: t.CompletedAt,
	}
}

// FromTasks converts a task slice.
func FromTasks(tasks []queue.Task) []TaskView {
	views := make([]TaskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, FromTask(t))
	}
	return views
}

// FromAudit converts an audit record into its wire form.
func FromAudit(r rack.AuditRecord) AuditView {
	return AuditView{
		Kind:      string(r.Kind),
		Position:  r.Position,
		ProductID: r.ProductID,
		At:        r.At,
	}
}

// FromAuditRecords converts an audit trail.
func FromAuditRecords(records []rack.AuditRecord) []AuditView {
	views := make([]AuditView, 0, len(records))
	for _, r := range records {
		views = append(views, FromAudit(r))
	}
	return views
}

// FromStatistics converts rack statistics.
func FromStatistics(s rack.Statistics) StatisticsView {
	return StatisticsView{
		Total:            s.Total,
		Occupied:         s.Occupied,
		Empty:            s.Empty,
		OccupancyPercent: s.OccupancyPercent,
		UniqueProducts:   s.UniqueProducts,
	}
}
