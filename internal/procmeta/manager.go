package procmeta

import (
	"sync"
)

// Manager records the outcome of attribute reads for one discovery pass.
// It provides command-query separation for concurrent readers.
type Manager struct {
	mu         sync.RWMutex
	attributes map[int32]*Attributes // PID -> attributes
	readErrors map[int32]error       // PID -> read errors
	issues     map[int32][]string    // PID -> list of warnings
}

// NewManager creates an empty Manager.
func NewManager() *Manager {
	return &Manager{
		attributes: make(map[int32]*Attributes),
		readErrors: make(map[int32]error),
		issues:     make(map[int32][]string),
	}
}

// Get retrieves attributes for a PID (query).
// Returns nil if the read failed or never happened.
func (m *Manager) Get(pid int32) *Attributes {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.attributes[pid]
}

// GetError retrieves the read error for a PID (query).
func (m *Manager) GetError(pid int32) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.readErrors[pid]
}

// GetIssues retrieves the warnings recorded for a PID (query).
func (m *Manager) GetIssues(pid int32) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.issues[pid]
}

// Set stores attributes for a PID (command).
// If attributes already exist, they are replaced.
func (m *Manager) Set(pid int32, attrs *Attributes) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attributes[pid] = attrs
}

// SetError stores a read error for a PID (command).
func (m *Manager) SetError(pid int32, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readErrors[pid] = err
}

// AddIssues appends warnings for a PID (command).
func (m *Manager) AddIssues(pid int32, issues []string) {
	if len(issues) == 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.issues[pid] = append(m.issues[pid], issues...)
}

// Len returns the number of PIDs with a recorded outcome.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.attributes) + len(m.readErrors)
}
