package allocator

import "testing"

// TestNewDefaults exercises scenario 1 of the design's concrete
// scenarios: a freshly initialized pool has one free block, sized
// P - H, and Stats reports (65536, 0, 65504, 0, 0, 32, 8).
func TestNewDefaults(t *testing.T) {
	p, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	stats := p.Stats()

	want := Stats{
		PoolSize:      65536,
		Allocated:     0,
		Free:          65504,
		Count:         0,
		Fragmentation: 0,
		HeaderSize:    32,
		Alignment:     8,
	}

	if stats != want {
		t.Fatalf("Stats() = %+v, want %+v", stats, want)
	}

	count := 0
	p.Iterate(func(b BlockView) bool {
		count++

		if !b.Free {
			t.Error("sole block of a fresh pool should be free")
		}

		if b.Size != 65504 {
			t.Errorf("sole block size = %d, want 65504", b.Size)
		}

		return true
	})

	if count != 1 {
		t.Fatalf("expected exactly one block, saw %d", count)
	}
}

func TestNewValidation(t *testing.T) {
	t.Run("ZeroPoolSize", func(t *testing.T) {
		if _, err := New(WithPoolSize(0)); err == nil {
			t.Fatal("expected error for zero pool size")
		}
	})

	t.Run("NonPowerOfTwoAlignment", func(t *testing.T) {
		if _, err := New(WithAlignment(3)); err == nil {
			t.Fatal("expected error for non-power-of-two alignment")
		}
	})

	t.Run("PoolSmallerThanHeader", func(t *testing.T) {
		if _, err := New(WithPoolSize(4), WithAlignment(8)); err == nil {
			t.Fatal("expected error when pool size can't fit one header")
		}
	})

	t.Run("PayloadNotAlignedMultiple", func(t *testing.T) {
		// Header size at alignment 8 is 32; a pool of 33 bytes leaves a
		// 1-byte payload, not a multiple of 8.
		if _, err := New(WithPoolSize(33), WithAlignment(8)); err == nil {
			t.Fatal("expected error when payload isn't a multiple of alignment")
		}
	})

	t.Run("ValidCustomConfig", func(t *testing.T) {
		p, err := New(WithPoolSize(128), WithAlignment(16), WithMagic(0x1234))
		if err != nil {
			t.Fatalf("New: %v", err)
		}

		stats := p.Stats()
		if stats.PoolSize != 128 || stats.Alignment != 16 {
			t.Fatalf("unexpected stats: %+v", stats)
		}
	})
}

func TestWithReporterCapturesDiagnostics(t *testing.T) {
	var lines []string

	p, err := New(WithReporter(func(line string) {
		lines = append(lines, line)
	}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := p.Free(0); err != nil {
		t.Fatalf("Free(none): %v", err)
	}

	if len(lines) != 1 {
		t.Fatalf("expected exactly one diagnostic line, got %d: %v", len(lines), lines)
	}
}
