package worker

// FeedState represents where a feed is in its relay lifecycle.
type FeedState string

// Feed states. Abandoned is terminal for the lifetime of the process:
// the only way to retry an abandoned feed is a full restart.
const (
	StateUnvalidated FeedState = "unvalidated" // not yet checked
	StateValidating  FeedState = "validating"  // source probe in progress
	StateRunning     FeedState = "running"     // worker live
	StateExited      FeedState = "exited"      // worker observed dead
	StateRelaunching FeedState = "relaunching" // revalidating and respawning
	StateAbandoned   FeedState = "abandoned"   // excluded for the rest of the run
)
