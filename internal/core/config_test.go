package core

import (
	"testing"
)

func TestDefaultBatchConfigValid(t *testing.T) {
	cfg := DefaultBatchConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.ChunkSize != DefaultChunkSize {
		t.Errorf("ChunkSize = %d, want %d", cfg.ChunkSize, DefaultChunkSize)
	}
}

func TestBatchConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		threads int
		chunk   int
		wantErr bool
	}{
		{"Ok", 4, 1024, false},
		{"MinChunk", 1, MinChunkSize, false},
		{"ZeroThreads", 0, 1024, true},
		{"TooManyThreads", MaxThreads + 1, 1024, true},
		{"SmallChunk", 4, MinChunkSize - 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := BatchConfig{NumThreads: tt.threads, ChunkSize: tt.chunk}
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(threads=%d, chunk=%d) error = %v, wantErr %t", tt.threads, tt.chunk, err, tt.wantErr)
			}
		})
	}
}

func TestComputeNumChunks(t *testing.T) {
	tests := []struct {
		n, chunk int
		want     int
	}{
		{0, 64, 0},
		{1, 64, 1},
		{64, 64, 1},
		{65, 64, 2},
		{10000, 4096, 3},
	}
	for _, tt := range tests {
		if got := ComputeNumChunks(tt.n, tt.chunk); got != tt.want {
			t.Errorf("ComputeNumChunks(%d, %d) = %d, want %d", tt.n, tt.chunk, got, tt.want)
		}
	}
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("ComputeNumChunks with chunk=0 should panic")
		}
	}()
	ComputeNumChunks(10, 0)
}

func TestEffectiveThreads(t *testing.T) {
	cfg := BatchConfig{NumThreads: 8, ChunkSize: DefaultChunkSize}
	if got := EffectiveThreads(3, cfg); got != 3 {
		t.Errorf("EffectiveThreads(3) = %d, want 3", got)
	}
	if got := EffectiveThreads(100, cfg); got != 8 {
		t.Errorf("EffectiveThreads(100) = %d, want 8", got)
	}
	if got := EffectiveThreads(0, cfg); got != 1 {
		t.Errorf("EffectiveThreads(0) = %d, want 1", got)
	}
}
