// Package testutil holds shared test harness code: log capture and a fake
// unpacker runner.
package testutil
