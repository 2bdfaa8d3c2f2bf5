package trace

import "github.com/google/uuid"

// Context parameterizes one Trace run: the feature toggles read at each
// instruction, plus the identifier threaded through any error it returns.
type Context struct {
	// RunID identifies this run in errors and logs. The zero value is
	// replaced with a freshly generated UUID before tracing starts, so
	// callers that don't care about correlating runs can leave it unset.
	RunID uuid.UUID

	// ConstantPropagation toggles recording a known constant value on an
	// Entry (currently the class name `new` stashes on its Uninitialized
	// entry); when false, entries never carry a Value.
	ConstantPropagation bool

	// ExceptionPropagation toggles whether EdgeCatch successors are traced
	// at all; when false, exception handlers are left untraced, as if the
	// method's exception table were empty.
	ExceptionPropagation bool

	// Strict promotes the first Conflict the trace would have recorded into
	// a returned error instead of only accumulating it in Result.Conflicts.
	Strict bool
}
