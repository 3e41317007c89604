// Package checkers is the test model and case-generation engine.
//
// A Test wraps a Go function together with its setup and teardown fixtures,
// suite memberships and parameterizations. A TestRun expands every Test into
// TestCases, one per parameterization, wiring run-scope fixtures, run
// variables and suite membership into each case. A TestCase runs its setup
// fixtures, the test body and all of its teardown fixtures, and reports a
// TestResult that is PASSED, FAILED (an assertion did not hold) or ERROR
// (anything else went wrong).
//
// Tests are declared on a Module:
//
//	var mod = checkers.NewModule("calculator_test", "Calculator checks.")
//
//	var _ = mod.MustTest("add", func(x, y, total int) error {
//		return assertions.AreEqual(x+y, total)
//	}, checkers.WithArgs("x", "y", "total"),
//		checkers.WithParams(map[string]map[string]any{
//			"1_1_2": {"x": 1, "y": 1, "total": 2},
//		}))
//
// Execution is single-threaded and synchronous.
package checkers
