// Package cregs owns processor control/enable bits.
//
// Ownership boundary:
// - the global control-register lock
// - the floating-enable read surface used by floating-style workers
package cregs

import "sync"

// File is the control-register authority. Only floating-style workers read
// it on the dispatch path; integer units are enabled unconditionally.
type File interface {
	FloatingEnabled() bool
	SetFloatingEnabled(enabled bool)
}

// MutexFile guards the register bits with one global lock.
type MutexFile struct {
	mu       sync.Mutex
	fpEnable bool
}

// NewMutexFile starts with floating execution enabled.
func NewMutexFile() *MutexFile {
	return &MutexFile{fpEnable: true}
}

func (f *MutexFile) FloatingEnabled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fpEnable
}

func (f *MutexFile) SetFloatingEnabled(enabled bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fpEnable = enabled
}
