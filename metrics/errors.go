package metrics

import (
	"errors"
	"fmt"
)

// GeometryError reports a degenerate or inverted element: a Jacobian
// determinant at or below the positivity threshold.
type GeometryError struct {
	Element int
	Ip      int
	Det     float64
	Tol     float64
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("non-positive jacobian in element %d at integration point %d: det = %.6e (threshold %.3e)",
		e.Element, e.Ip, e.Det, e.Tol)
}

// AtElement relabels a GeometryError raised by a single element evaluation
// with the element's index k. Other errors are returned unchanged.
func AtElement(err error, k int) error {
	var gerr *GeometryError
	if !errors.As(err, &gerr) {
		return err
	}
	relabeled := *gerr
	relabeled.Element = k
	return &relabeled
}
