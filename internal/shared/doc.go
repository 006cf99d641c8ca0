// Package shared holds helpers used by more than one package of the risk
// pipeline that belong to no single domain or layer.
//
// The testutil subpackage captures slog output so tests can assert on the
// structured records a component emits:
//
//	logger, logs := testutil.NewTestLogger(t)
//	engine := risk.NewEngine(logger)
//	...
//	testutil.AssertLogContains(t, logs, slog.LevelWarn, "alert quota not reached")
//
// Nothing here may import a domain package, so every package can use it from
// its own tests without creating a cycle.
package shared
