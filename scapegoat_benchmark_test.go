package scapegoat

import (
	"fmt"
	"math/rand/v2"
	"testing"
)

// generateRandomKeys generates a slice of unique random user keys.
func generateRandomKeys(n int) []string {
	keys := make([]string, n)
	seen := make(map[string]struct{})
	r := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))

	for i := 0; i < n; {
		key := fmt.Sprintf("user%d", r.IntN(n*10))
		if _, ok := seen[key]; !ok {
			keys[i] = key
			seen[key] = struct{}{}
			i++
		}
	}
	return keys
}

const benchmarkSize = 10000 // Number of keys to insert/search

func BenchmarkTree_Insert(b *testing.B) {
	keys := generateRandomKeys(benchmarkSize)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tr := New()
		for j := 0; j < benchmarkSize; j++ {
			tr.Insert(keys[j], uint16(j), uint32(j))
		}
	}
}

// BenchmarkTree_InsertSorted measures the worst case for a plain BST, where
// every insert extends the rightmost path and rebuilds do all the balancing.
func BenchmarkTree_InsertSorted(b *testing.B) {
	keys := make([]string, benchmarkSize)
	for i := range keys {
		keys[i] = fmt.Sprintf("user%08d", i)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tr := New()
		for j := 0; j < benchmarkSize; j++ {
			tr.Insert(keys[j], 1, uint32(j))
		}
	}
}

func BenchmarkTree_InsertPresized(b *testing.B) {
	keys := generateRandomKeys(benchmarkSize)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tr := New(WithCapacity(benchmarkSize))
		for j := 0; j < benchmarkSize; j++ {
			tr.Insert(keys[j], uint16(j), uint32(j))
		}
	}
}

func BenchmarkMap_Insert(b *testing.B) {
	keys := generateRandomKeys(benchmarkSize)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m := make(map[string]uint32)
		for j := 0; j < benchmarkSize; j++ {
			m[keys[j]] = uint32(j)
		}
	}
}

func BenchmarkTree_Search(b *testing.B) {
	keys := generateRandomKeys(benchmarkSize)
	tr := New()
	b.StopTimer() // Stop timer for setup
	for j := 0; j < benchmarkSize; j++ {
		tr.Insert(keys[j], 1, 1)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = tr.Search(keys[i%benchmarkSize])
	}
}

func BenchmarkMap_Search(b *testing.B) {
	keys := generateRandomKeys(benchmarkSize)
	m := make(map[string]uint32)
	b.StopTimer() // Stop timer for setup
	for j := 0; j < benchmarkSize; j++ {
		m[keys[j]] = 1
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m[keys[i%benchmarkSize]]
	}
}

// BenchmarkTree_Merge measures repeat bans for keys already in the tree,
// which never allocate or rebuild.
func BenchmarkTree_Merge(b *testing.B) {
	keys := generateRandomKeys(benchmarkSize)
	tr := New()
	for j := 0; j < benchmarkSize; j++ {
		tr.Insert(keys[j], 1, 1)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tr.Insert(keys[i%benchmarkSize], uint16(i%4), uint32(i))
	}
}

func BenchmarkTree_Range(b *testing.B) {
	tr := New()
	keys := generateRandomKeys(benchmarkSize)
	b.StopTimer() // Stop timer for setup
	for _, key := range keys {
		tr.Insert(key, 1, 1)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tr.Range(func(BanRecord) bool { return true })
	}
}
