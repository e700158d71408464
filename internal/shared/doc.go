// Package shared holds helpers used by more than one FootLens package.
//
// testutil provides a capturing slog handler and raw injury CSV fixtures for tests.
package shared
