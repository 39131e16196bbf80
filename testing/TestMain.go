// Package testing puts the binaries into test mode. cmd/*/main_test.go
// imports it for its side effect.
package testing

import (
	"os"
	stdtesting "testing"
)

const tokenSecret = "oms-test-secret-0123456789abcdef0123"

func init() {
	prepareEnv()
}

func prepareEnv() {
	_ = os.Setenv("OMS_TEST_MODE", "1")
	if os.Getenv("AUTH_TOKEN_SECRET") == "" {
		_ = os.Setenv("AUTH_TOKEN_SECRET", tokenSecret)
	}
}

// TestMain can be delegated to from a package that needs the same env.
func TestMain(m *stdtesting.M) {
	prepareEnv()
	os.Exit(m.Run())
}
