package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersRegistered      uint64
	LoginsSucceeded      uint64
	LoginsFailed         uint64
	LoginsRateLimited    uint64
	Logouts              uint64
	PasswordCheckCount   uint64
	PasswordCheckTotalNs int64
	RecordsCreated       uint64
	RecordsUpdated       uint64
	RecordsDeleted       uint64
}

// InMemoryRecorder keeps counters in process memory.
// Served by the /metrics endpoint and inspected directly in tests.
type InMemoryRecorder struct {
	usersRegistered      uint64
	loginsSucceeded      uint64
	loginsFailed         uint64
	loginsRateLimited    uint64
	logouts              uint64
	passwordCheckCount   uint64
	passwordCheckTotalNs int64
	recordsCreated       uint64
	recordsUpdated       uint64
	recordsDeleted       uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UsersRegistered:      atomic.LoadUint64(&m.usersRegistered),
		LoginsSucceeded:      atomic.LoadUint64(&m.loginsSucceeded),
		LoginsFailed:         atomic.LoadUint64(&m.loginsFailed),
		LoginsRateLimited:    atomic.LoadUint64(&m.loginsRateLimited),
		Logouts:              atomic.LoadUint64(&m.logouts),
		PasswordCheckCount:   atomic.LoadUint64(&m.passwordCheckCount),
		PasswordCheckTotalNs: atomic.LoadInt64(&m.passwordCheckTotalNs),
		RecordsCreated:       atomic.LoadUint64(&m.recordsCreated),
		RecordsUpdated:       atomic.LoadUint64(&m.recordsUpdated),
		RecordsDeleted:       atomic.LoadUint64(&m.recordsDeleted),
	}
}

// IncUserRegistered increments the registration counter.
func (m *InMemoryRecorder) IncUserRegistered() {
	atomic.AddUint64(&m.usersRegistered, 1)
}

// IncLogin increments the login counter for status.
func (m *InMemoryRecorder) IncLogin(status string) {
	switch status {
	case LoginSuccess:
		atomic.AddUint64(&m.loginsSucceeded, 1)
	case LoginRateLimited:
		atomic.AddUint64(&m.loginsRateLimited, 1)
	default:
		atomic.AddUint64(&m.loginsFailed, 1)
	}
}

// IncLogout increments the logout counter.
func (m *InMemoryRecorder) IncLogout() {
	atomic.AddUint64(&m.logouts, 1)
}

// ObservePasswordCheck records how long a credential check took.
func (m *InMemoryRecorder) ObservePasswordCheck(duration time.Duration) {
	atomic.AddUint64(&m.passwordCheckCount, 1)
	atomic.AddInt64(&m.passwordCheckTotalNs, duration.Nanoseconds())
}

// IncRecordCreated increments record created counter.
func (m *InMemoryRecorder) IncRecordCreated() {
	atomic.AddUint64(&m.recordsCreated, 1)
}

// IncRecordUpdated increments record updated counter.
func (m *InMemoryRecorder) IncRecordUpdated() {
	atomic.AddUint64(&m.recordsUpdated, 1)
}

// IncRecordDeleted increments record deleted counter.
func (m *InMemoryRecorder) IncRecordDeleted() {
	atomic.AddUint64(&m.recordsDeleted, 1)
}
