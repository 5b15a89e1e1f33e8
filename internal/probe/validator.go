// Package probe checks that a feed's upstream source is reachable and
// currently yielding media.
package probe

import (
	"context"
	"time"

	"github.com/AlexxIT/go2rtc/pkg/rtsp"

	"github.com/smazurov/camrelay/internal/logging"
)

// DefaultTimeout bounds a single validation attempt.
const DefaultTimeout = 5 * time.Second

// Validator reports whether a source is currently reachable and yields media.
// Implementations must be purely advisory: no side effects beyond the probe
// connection itself.
type Validator interface {
	Validate(ctx context.Context, sourceURL string) bool
}

// RTSP validates sources by dialing them with an RTSP client and requesting a
// session description. A source is considered healthy when it answers
// DESCRIBE with at least one media stream within the timeout.
type RTSP struct {
	// Timeout bounds the whole attempt (dial + describe). Zero means
	// DefaultTimeout.
	Timeout time.Duration

	logger logging.Logger
}

// NewRTSP creates an RTSP validator with the default timeout.
func NewRTSP(logger logging.Logger) *RTSP {
	return &RTSP{Timeout: DefaultTimeout, logger: logger}
}

// Validate dials sourceURL and requests its media description. The probe
// connection is stopped on every path: success, failure, and timeout.
func (p *RTSP) Validate(ctx context.Context, sourceURL string) bool {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client := rtsp.NewClient(sourceURL)
	client.Backchannel = false

	result := make(chan bool, 1)
	go func() {
		if err := client.Dial(); err != nil {
			p.logger.Debug("Source dial failed", "error", err)
			result <- false
			return
		}
		if err := client.Describe(); err != nil {
			p.logger.Debug("Source describe failed", "error", err)
			result <- false
			return
		}
		result <- len(client.Medias) > 0
	}()

	select {
	case ok := <-result:
		_ = client.Stop()
		return ok
	case <-ctx.Done():
		// Closing the transport unblocks the probe goroutine.
		_ = client.Stop()
		p.logger.Debug("Source probe timed out", "timeout", timeout)
		return false
	}
}
