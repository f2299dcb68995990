package arc

import "errors"

var (
	errSegmentNotFound      = errors.New("arc: segment not found in table")
	errSegmentArity         = errors.New("arc: segment has more than two contributing regions")
	errSegmentLabelMismatch = errors.New("arc: segment's two contributors don't include the querying region")
	errInconsistentRun      = errors.New("arc: arc run crosses a label boundary without a junction")
)
