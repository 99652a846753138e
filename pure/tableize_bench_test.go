package pure_test

import (
	"fmt"
	"testing"

	"github.com/on-the-ground/collatz_ive_go/collatz"
	"github.com/on-the-ground/collatz_ive_go/pure"
)

// repeated queries, as in a batch file that asks the same ranges many times
var benchRanges = [][2]uint64{{1, 10}, {100, 200}, {201, 210}, {900, 1000}, {1, 10000}}

func BenchmarkEngineMaxCycleLength(b *testing.B) {
	engine := collatz.New(collatz.WithCapacity(1 << 16))
	for i := 0; i < b.N; i++ {
		r := benchRanges[i%len(benchRanges)]
		_, _ = engine.MaxCycleLength(r[0], r[1])
	}
}

func BenchmarkTableizedMaxCycleLength(b *testing.B) {
	sizes := []uint32{2, 8, 32}
	for _, size := range sizes {
		b.Run(fmt.Sprintf("TrieSize_%d", size), func(b *testing.B) {
			engine := collatz.New(collatz.WithCapacity(1 << 16))
			maxOf := pure.TableizeI2O2(engine.MaxCycleLength, size)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				r := benchRanges[i%len(benchRanges)]
				_, _ = maxOf(r[0], r[1])
			}
		})
	}
}
