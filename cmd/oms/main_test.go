package main

import (
	"testing"

	_ "github.com/saddlefit/oms/testing"
)

func TestMainReturnsInTestMode(t *testing.T) {
	main()
}
