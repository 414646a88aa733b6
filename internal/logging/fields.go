package logging

// Standardized attribute keys shared across components. Using constants keeps
// log queries stable when call sites move around.
const (
	FieldComponent = "component"
	FieldEventType = "event_type"
	FieldErrorHint = "error_hint"
	FieldImpact    = "impact"

	FieldTaskID    = "task_id"
	FieldTaskKind  = "task_kind"
	FieldPosition  = "position"
	FieldProductID = "product_id"
	FieldDriver    = "driver"
)
