package util

import "runtime"

// GetHeapAllocMB reports current heap allocation in megabytes, used for
// debug logging after a full conversion pass.
func GetHeapAllocMB() uint64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.Alloc / 1024 / 1024
}
