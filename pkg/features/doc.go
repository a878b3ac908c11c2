// Package features evaluates ordered feature declarations into an
// enabled/disabled state.
//
// Declarations are grouped into passes. Within a pass they are evaluated
// strictly in order and a dependency expression may only reference features
// that already hold a terminal state: features of earlier passes, or features
// declared earlier in the same pass. Every name of a pass is registered as
// unresolved before evaluation starts, so a forward or cyclic reference is
// reported instead of silently reading a default.
//
// A declaration whose dependencies hold is probed (or takes its default when
// it has no probe). Required features that end up disabled abort evaluation
// with their user-facing message.
package features
