package filament

import (
	"bytes"
	"fmt"
	"testing"
)

// TestBufferSteadyStateZeroAlloc verifies a cleared buffer appends
// within its retained capacity without touching the allocator
func TestBufferSteadyStateZeroAlloc(t *testing.T) {
	b := New()
	payload := []byte("steady state payload")

	// First pass may allocate; steady state must not.
	b.Append(payload)
	b.Clear()

	allocs := testing.AllocsPerRun(100, func() {
		b.Clear()
		if err := b.Append(payload); err != nil {
			t.Fatal(err)
		}
	})
	if allocs != 0 {
		t.Errorf("steady-state Append allocated %.1f times per cycle, want 0", allocs)
	}
}

// TestPoolSteadyStateZeroAlloc verifies a warmed pool recycles
// buffers without allocating
func TestPoolSteadyStateZeroAlloc(t *testing.T) {
	p := NewPool(PoolConfig{})
	p.Warmup(4)
	payload := []byte("pooled payload")

	allocs := testing.AllocsPerRun(100, func() {
		b := p.Get()
		b.Append(payload)
		p.Put(b)
	})
	if allocs != 0 {
		t.Errorf("warmed Get/Put cycle allocated %.1f times, want 0", allocs)
	}
}

func BenchmarkBufferAppendInline(b *testing.B) {
	buf := New()
	payload := []byte("0123456789abcdef") // 16 bytes

	b.ReportAllocs()
	b.SetBytes(int64(len(payload)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf.Clear()
		buf.Append(payload)
	}
}

func BenchmarkBufferAppendSizes(b *testing.B) {
	sizes := []int{16, 64, 255, 256, 1024, 4096, 65536}
	for _, size := range sizes {
		payload := bytes.Repeat([]byte{'x'}, size)
		b.Run(fmt.Sprintf("size_%d", size), func(b *testing.B) {
			buf := New()
			b.ReportAllocs()
			b.SetBytes(int64(size))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				buf.Clear()
				buf.Append(payload)
			}
		})
	}
}

func BenchmarkBufferCrossover(b *testing.B) {
	// Fresh buffer per iteration so every run pays the inline to
	// heap migration.
	payload := bytes.Repeat([]byte{'x'}, InitialCapacity)

	b.ReportAllocs()
	b.SetBytes(int64(len(payload)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf := New()
		buf.Append(payload)
	}
}

func BenchmarkBufferAppendByte(b *testing.B) {
	buf := New()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if buf.Len() >= 200 {
			buf.Clear()
		}
		buf.AppendByte('x')
	}
}

func BenchmarkBufferString(b *testing.B) {
	buf := New()
	buf.AppendString("a reasonably sized result string")

	b.Run("String", func(b *testing.B) {
		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			if s := buf.String(); len(s) == 0 {
				b.Fatal("empty result")
			}
		}
	})
	b.Run("UnsafeString", func(b *testing.B) {
		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			if s := buf.UnsafeString(); len(s) == 0 {
				b.Fatal("empty result")
			}
		}
	})
}

func BenchmarkBufferCopyTo(b *testing.B) {
	src := New()
	src.AppendString("copy source content, inline sized")
	dst := New()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := src.CopyTo(dst); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkBufferClone(b *testing.B) {
	src := New()
	src.AppendString("clone source content, inline sized")

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c, err := src.Clone()
		if err != nil || c == nil {
			b.Fatal("nil clone")
		}
	}
}
