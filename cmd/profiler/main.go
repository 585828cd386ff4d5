package main

import (
	"fmt"
	"log"
	"math/rand/v2"
	"net/http"
	_ "net/http/pprof" // Import for side effects: registers pprof handlers
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/INLOpen/scapegoat"
)

func main() {
	// เปิด pprof endpoint ผ่าน HTTP server ใน goroutine แยก
	go func() {
		fmt.Println("Starting pprof server on http://localhost:6060/debug/pprof/")
		if err := http.ListenAndServe("localhost:6060", nil); err != nil {
			log.Fatalf("pprof server failed: %v", err)
		}
	}()

	time.Sleep(100 * time.Millisecond)

	numItems, order := parseArgs()

	fmt.Println("Starting scapegoat insertion workload...")
	fmt.Printf(" - Items to insert: %d\n", numItems)
	fmt.Printf(" - Key order: %s\n", order)

	keys := makeKeys(numItems, order)

	runtime.GC()
	tree := scapegoat.New(scapegoat.WithCapacity(numItems))

	// คีย์เรียงลำดับจะบังคับให้เกิดการ rebuild บ่อยที่สุด
	for i, key := range keys {
		tree.Insert(key, uint16(i%1024), uint32(i))
	}

	stats := tree.Stats()
	fmt.Printf("Finished inserting %d items. Nodes: %d, height: %d (bound %d), rebuilds: %d\n",
		numItems, stats.Nodes, stats.Height, stats.HeightBound, stats.Rebuilds)
	fmt.Println("Program is keeping alive for profiling. Press Ctrl+C to exit.")

	select {}
}

// parseArgs แยกวิเคราะห์ arguments จาก command-line
// Usage: go run ./cmd/profiler [sequential|random] [num_items]
// Example: go run ./cmd/profiler sequential 5000000
func parseArgs() (numItems int, order string) {
	order = "random"
	numItems = 2_000_000

	if len(os.Args) > 1 {
		order = os.Args[1]
	}
	if len(os.Args) > 2 {
		if n, err := strconv.Atoi(os.Args[2]); err == nil {
			numItems = n
		}
	}
	return numItems, order
}

// makeKeys สร้างคีย์ตามลำดับที่ระบุ
func makeKeys(n int, order string) []string {
	keys := make([]string, n)
	for i := range keys {
		keys[i] = fmt.Sprintf("user%09d", i)
	}

	if order != "sequential" {
		rand.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })
	}
	return keys
}
