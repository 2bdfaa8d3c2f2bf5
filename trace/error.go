package trace

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/go-jvmtools/classgraph/cfg"
)

// Error wraps a tracer failure with the block and instruction offset where
// it occurred and the RunID of the Trace run it happened under. A RunID set
// on the Context given to TraceAll is shared by every method; a zero RunID
// is replaced by a fresh one in each Trace run.
type Error struct {
	RunID  uuid.UUID
	Block  cfg.BlockID
	Offset int
	Err    error
}

func (e Error) Error() string {
	return fmt.Sprintf("trace[%s]: block %d, offset %d: %v", e.RunID, e.Block, e.Offset, e.Err)
}

func (e Error) Unwrap() error { return e.Err }

// ErrPassLimitExceeded is returned when the fixed point does not settle
// within MaxPasses iterations.
type ErrPassLimitExceeded struct {
	Block    cfg.BlockID
	Attempts int
}

func (e ErrPassLimitExceeded) Error() string {
	return fmt.Sprintf("trace: block %d did not reach a fixed point after %d passes", e.Block, e.Attempts)
}

// ErrStackUnderflow describes an instruction that pops more values than the
// current frame's stack holds. The tracer does not return it: Frame.Pop on
// an empty stack yields a fresh Top entry.
type ErrStackUnderflow struct {
	Block  cfg.BlockID
	Offset int
}

func (e ErrStackUnderflow) Error() string {
	return fmt.Sprintf("trace: stack underflow in block %d at offset %d", e.Block, e.Offset)
}

// ErrUninitializedThis describes a method that returns normally while
// `this` is still uninitialized (the constructor never called super() or
// this()). The tracer does not check for this case and does not return it.
type ErrUninitializedThis struct {
	Block cfg.BlockID
}

func (e ErrUninitializedThis) Error() string {
	return fmt.Sprintf("trace: block %d returns with an uninitialized this", e.Block)
}

// ErrStrictConflict is returned by Trace when the context requests strict
// mode: the first Conflict the trace would have recorded is promoted to
// this error instead of only being appended to Result.Conflicts.
type ErrStrictConflict struct {
	RunID    uuid.UUID
	Conflict Conflict
}

func (e ErrStrictConflict) Error() string {
	return fmt.Sprintf("trace[%s]: strict mode: %s", e.RunID, e.Conflict)
}
