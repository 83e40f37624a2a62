package loadgen

import "time"

// HTTP status code constants.
const (
	StatusOK            = 200
	StatusAccepted      = 202
	StatusUnprocessable = 422
)

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Runner configuration constants.
const (
	SnapshotPollInterval = 500 * time.Millisecond
	SnapshotWaitTimeout  = 30 * time.Second
	PercentageMultiplier = 100
)

// Error code the service answers when no candidate survives the
// recommendation filters. Counted as an expected outcome, not a failure.
const codeEmptyCandidatePool = "empty_candidate_pool"

// scoreTolerance bounds the float drift accepted when recomputing
// recommendation scores from their components.
const scoreTolerance = 1e-6
