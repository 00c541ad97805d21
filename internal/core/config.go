package core

import (
	"runtime"

	"github.com/pkg/errors"
)

// Constants for batch reduction.
const (
	DefaultChunkSize = 4096
	MinChunkSize     = 64
	MaxThreads       = 1024
)

// BatchConfig holds parameters for reducing many dividends against one modulus.
type BatchConfig struct {
	NumThreads int  // Worker goroutines; 1 runs inline
	ChunkSize  int  // Dividends handed to a worker at a time
	Verbose    bool // Progress logging
}

// DefaultBatchConfig creates a configuration with default values.
func DefaultBatchConfig() BatchConfig {
	return BatchConfig{
		NumThreads: runtime.NumCPU(),
		ChunkSize:  DefaultChunkSize,
		Verbose:    false,
	}
}

// Validate checks the configuration for values the batch reducer cannot use.
func (c BatchConfig) Validate() error {
	if c.NumThreads < 1 || c.NumThreads > MaxThreads {
		return errors.Errorf("num threads %d out of range [1, %d]", c.NumThreads, MaxThreads)
	}
	if c.ChunkSize < MinChunkSize {
		return errors.Errorf("chunk size %d below minimum %d", c.ChunkSize, MinChunkSize)
	}
	return nil
}

// ComputeNumChunks returns how many chunks of chunkSize cover n dividends.
func ComputeNumChunks(n, chunkSize int) int {
	if chunkSize <= 0 {
		panic("chunk size must be positive")
	}
	return (n + chunkSize - 1) / chunkSize
}

// EffectiveThreads caps the worker count by the amount of work available.
func EffectiveThreads(numChunks int, config BatchConfig) int {
	threads := config.NumThreads
	if threads > numChunks {
		threads = numChunks
	}
	if threads < 1 {
		threads = 1
	}
	return threads
}
