// Package noise holds the in-memory representation of a composed noise
// algorithm and the machinery to build and evaluate it.
//
// # Data Model
//
// An algorithm is a DAG of nodes stored in a per-build arena (the Store).
// Nodes reference children by Handle (an index into the arena), never by
// pointer, so a sub-expression can be shared by any number of parents
// without cloning or reference counting. A child's handle is always
// strictly smaller than its parent's, which statically rules out cycles.
//
// # Lifecycle
//
// Nodes are created only by a Builder during a single build pass. Finish
// designates the root and seals the arena into an immutable Graph. A whole
// generation is retired wholesale when a newer Graph supersedes it; there
// is no per-node deletion.
//
// # Evaluation
//
// Graph.Eval is a pure recursive function of (handle, x, y). It reads the
// arena, never writes, allocates nothing beyond stack frames, and always
// returns the same float32 for the same inputs. That referential
// transparency is what makes concurrent region sampling safe without locks.
// Numeric edge cases (division by zero, NaN operands) follow IEEE-754 and
// propagate; evaluation never returns an error.
package noise
