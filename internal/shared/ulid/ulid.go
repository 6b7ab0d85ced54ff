package ulid

import (
	"github.com/oklog/ulid/v2"
)

// NewULID generates a new ULID string.
var NewULID = func() string {
	return ulid.Make().String()
}

// NewRunID generates the identifier attached to every log line of one analyzer run.
// ULIDs sort by creation time, so run ids of consecutive runs sort in order.
var NewRunID = func() string {
	return "run-" + NewULID()
}
