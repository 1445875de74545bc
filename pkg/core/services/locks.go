package services

import "sync"

// ScheduleLocks grants exclusive run ownership per schedule. An auto-assign
// run or a publish transition holds the schedule's lock for its whole
// duration; a second caller fails fast instead of queuing, so retry storms
// cannot pile up behind a slow run. Different schedules never contend.
type ScheduleLocks struct {
	mu   sync.Mutex
	held map[string]bool
}

// NewScheduleLocks creates an empty lock registry
func NewScheduleLocks() *ScheduleLocks {
	return &ScheduleLocks{held: make(map[string]bool)}
}

// TryAcquire takes the lock for a schedule without blocking. Returns false
// if another operation already holds it.
func (l *ScheduleLocks) TryAcquire(scheduleID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[scheduleID] {
		return false
	}
	l.held[scheduleID] = true
	return true
}

// Release frees the lock for a schedule
func (l *ScheduleLocks) Release(scheduleID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, scheduleID)
}
