package wiring_test

import (
	"testing"

	"github.com/grindlemire/graft"
)

// Every node must declare exactly the dependencies it resolves with
// graft.Dep; an undeclared or unused dependency fails this check.
func TestGraftDepsDeclared(t *testing.T) {
	graft.AssertDepsValid(t, "../../internal")
}
