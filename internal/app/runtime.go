package app

import (
	"os"
	"strconv"
	"sync/atomic"
)

const testModeEnv = "OMS_TEST_MODE"

var testMode atomic.Pointer[bool]

// InTestMode reports whether binaries should return before touching
// Postgres, Redis or the network. OMS_TEST_MODE is read on first use.
func InTestMode() bool {
	if v := testMode.Load(); v != nil {
		return *v
	}
	return RefreshTestMode()
}

// RefreshTestMode re-reads OMS_TEST_MODE and returns the new value.
func RefreshTestMode() bool {
	on, _ := strconv.ParseBool(os.Getenv(testModeEnv))
	testMode.Store(&on)
	return on
}
