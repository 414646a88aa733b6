// Package logging builds the shared slog logger and attribute helpers used by
// every rackd component. The console handler renders compact single-line
// output for interactive use; the JSON handler targets log collectors.
package logging
