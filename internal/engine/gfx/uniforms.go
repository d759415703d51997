package gfx

import (
	"sync"

	"go.uber.org/zap"
)

// MissReporter logs each missing uniform once per program.
type MissReporter struct {
	log  *zap.Logger
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewMissReporter returns a reporter writing to log.
func NewMissReporter(log *zap.Logger) *MissReporter {
	return &MissReporter{log: log, seen: make(map[string]struct{})}
}

// Report records a lookup miss of uniform in program.
func (r *MissReporter) Report(program, uniform string) {
	key := program + "\x00" + uniform

	r.mu.Lock()
	_, dup := r.seen[key]
	if !dup {
		r.seen[key] = struct{}{}
	}
	r.mu.Unlock()

	if !dup {
		r.log.Warn("uniform not found, write dropped",
			zap.String("program", program),
			zap.String("uniform", uniform),
		)
	}
}

// Count returns the number of distinct misses reported.
func (r *MissReporter) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.seen)
}
