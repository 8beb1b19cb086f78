package master

import (
	"fmt"

	"github.com/notargets/gocvfem/topology"
)

// UnsupportedError is the panic value of an operation called on a master
// element that does not provide it.
type UnsupportedError struct {
	Kind topology.Kind
	Op   string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%v master element does not support %s", e.Kind, e.Op)
}

func unsupported(k topology.Kind, op string) {
	panic(&UnsupportedError{Kind: k, Op: op})
}
