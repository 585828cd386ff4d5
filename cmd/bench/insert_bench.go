package main

import (
	"fmt"
	"runtime"
	"time"

	"math/rand/v2"

	"github.com/dustin/go-humanize"

	"github.com/INLOpen/scapegoat"
)

func main() {
	const N = 200000

	// prepare keys
	r := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	random := make([]string, N)
	sorted := make([]string, N)
	for i := 0; i < N; i++ {
		random[i] = fmt.Sprintf("user%016x", r.Uint64())
		sorted[i] = fmt.Sprintf("user%09d", i)
	}

	configs := []struct {
		name string
		keys []string
		opts []scapegoat.Option
	}{
		{"random-alpha-default", random, nil},
		{"random-alpha-0.55", random, []scapegoat.Option{scapegoat.WithAlpha(0.55)}},
		{"random-alpha-0.9", random, []scapegoat.Option{scapegoat.WithAlpha(0.9)}},
		{"random-presized", random, []scapegoat.Option{scapegoat.WithCapacity(N)}},
		{"sorted-alpha-default", sorted, nil},
		{"sorted-alpha-0.55", sorted, []scapegoat.Option{scapegoat.WithAlpha(0.55)}},
		{"sorted-alpha-0.9", sorted, []scapegoat.Option{scapegoat.WithAlpha(0.9)}},
	}

	fmt.Printf("Running lightweight scapegoat insert microbench (N=%d)\n", N)

	for _, cfg := range configs {
		runtime.GC()
		time.Sleep(50 * time.Millisecond)
		fmt.Printf("\nConfig: %s\n", cfg.name)

		tree := scapegoat.New(cfg.opts...)

		var msBefore, msAfter runtime.MemStats
		runtime.ReadMemStats(&msBefore)
		start := time.Now()

		for i, key := range cfg.keys {
			tree.Insert(key, uint16(i), uint32(i))
		}

		dur := time.Since(start)
		runtime.ReadMemStats(&msAfter)

		nsPerOp := float64(dur.Nanoseconds()) / float64(N)
		allocDiff := msAfter.TotalAlloc - msBefore.TotalAlloc
		stats := tree.Stats()

		fmt.Printf("Duration: %s, ns/op: %.1f, TotalAlloc diff: %s, Len: %d, Height: %d/%d, Rebuilds: %d (%s nodes)\n",
			dur, nsPerOp, humanize.IBytes(allocDiff), tree.Len(),
			stats.Height, stats.HeightBound, stats.Rebuilds, humanize.Comma(int64(stats.RebuiltNodes)))
	}
}
