// Package refs recovers the set of objects a callable's behavior
// depends on, by a bounded single pass over its instruction stream.
//
// # Why a walk at all?
//
// An instruction stream names what it touches, but not how the names
// relate: accessing foo.bar compiles to a load of "foo" followed by a
// load of attribute "bar", with no explicit link between them. The
// walker reconstructs that link by simulating just enough of the
// evaluation stack — a single top-of-stack register — and resolving
// each name against a snapshot of the callable's bindings.
//
// # Guarantees
//
//   - The walk never executes the callable.
//   - The walk never fails its caller: every resolution error is
//     downgraded to a diagnostic, with that one reference dropped.
//   - Output order is commit order and is reproducible, so folding
//     the result into a fingerprint is deterministic.
//
// The one exception is NewContext, which fails fast when a callable's
// declared captures cannot be paired with its closure cells; a
// fingerprint computed from a broken context would be silently wrong
// for every reference, not just one.
package refs
