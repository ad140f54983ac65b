//go:build tools

// Package tools pins tool dependencies (mockgen, invoked via go generate)
// so go.mod and go.sum stay in sync on a fresh checkout.
package tools

import (
	_ "go.uber.org/mock/mockgen"
)
