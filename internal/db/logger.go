package db

import (
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"sync"
	"syscall"
	"time"

	"gorm.io/gorm/logger"
)

var transientMarkers = []string{
	"connection refused",
	"connection reset",
	"broken pipe",
	"unexpected eof",
	"i/o timeout",
	"no such host",
	"server closed the connection",
}

// IsTransient reports whether err looks like a dropped or unreachable connection
// rather than a problem with the statement itself.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.EPIPE) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, m := range transientMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

// TransientFilter is a GORM logger that reports connectivity failures once per
// outage as a warning and passes everything else through. The outage ends at the
// first statement that succeeds.
type TransientFilter struct {
	logger.Interface

	mu     sync.Mutex
	outage bool
}

// NewTransientFilter wraps next.
func NewTransientFilter(next logger.Interface) *TransientFilter {
	return &TransientFilter{Interface: next}
}

func (f *TransientFilter) LogMode(level logger.LogLevel) logger.Interface {
	return &TransientFilter{Interface: f.Interface.LogMode(level)}
}

func (f *TransientFilter) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if IsTransient(err) {
		f.mu.Lock()
		first := !f.outage
		f.outage = true
		f.mu.Unlock()
		if first {
			f.Interface.Warn(ctx, "database connectivity problem, further errors suppressed until recovery: %v", err)
		}
		return
	}
	if err == nil {
		f.mu.Lock()
		f.outage = false
		f.mu.Unlock()
	}
	f.Interface.Trace(ctx, begin, fc, err)
}
