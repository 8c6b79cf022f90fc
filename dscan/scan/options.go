package scan

import (
	"runtime"

	internal "github.com/diskscan/diskscan/dscan"
)

// Options configures a duplicate scan.
type Options struct {
	PrefixBytes        int64    // Bytes hashed by the prefix filter (0 = default)
	HashAlgorithm      string   // "md5" or "sha256" ("" = default)
	WorkerCount        int      // Concurrent hash/walk workers (0 = derive from CPUs)
	IncludeZeroByte    bool     // Report zero-byte files as a duplicate group
	IncludeSystemFiles bool     // Keep OS junk files (._*, .DS_Store) in the scan
	IgnorePatterns     []string // gitignore-style patterns skipped during traversal
}

// withDefaults fills zero values with the application defaults.
func (o Options) withDefaults() Options {
	if o.PrefixBytes <= 0 {
		o.PrefixBytes = internal.DefaultPrefixBytes
	}
	if o.HashAlgorithm == "" {
		o.HashAlgorithm = internal.DefaultHashAlgorithm
	}
	if o.WorkerCount <= 0 {
		// I/O bound workload: CPU cores * 2, bounded for responsiveness
		// and against resource exhaustion.
		o.WorkerCount = min(max(runtime.NumCPU()*2, 4), 32)
	}
	return o
}
