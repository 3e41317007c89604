// Package assertions provides assertion helpers for checkers tests.
//
// Every helper returns nil when the expectation holds and an error matching
// checkers.ErrAssertion when it does not, so a test body can simply return
// the result:
//
//	func(x, y, total int) error {
//		return assertions.AreEqual(x+y, total)
//	}
//
// Check combines several assertions and returns the first failure. Every
// helper accepts an optional message that replaces the default one.
//
// Supported assertions:
//   - Truth (IsTrue, IsFalse)
//   - Equality with numeric coercion (AreEqual, AreNotEqual)
//   - Identity of reference values (AreSame, AreNotSame)
//   - Membership and size (IsIn, IsNotIn, IsEmpty, IsNotEmpty, HasLength)
//   - Nil checks (IsNil, IsNotNil)
//   - Strings (Contains, StartsWith, EndsWith, Matches)
//   - JSON documents (JSONPath, MatchesSchema)
//   - Errors and panics (ExpectError, ExpectPanic)
package assertions
