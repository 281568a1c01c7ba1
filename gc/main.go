package main

import (
	"flag"
	"fmt"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/gomemlab/slab"
)

var previousPause time.Duration

func gcPause() time.Duration {
	runtime.GC()
	var stats debug.GCStats
	debug.ReadGCStats(&stats)
	pause := stats.PauseTotal - previousPause
	previousPause = stats.PauseTotal
	return pause
}

// Holds a few million fixed-size objects on the slab arena vs. the Go
// heap and reports the GC pause difference. The arena is one mmap-ed
// region with no interior pointers, so the collector never scans it.
func main() {
	entries := 0
	size := 0
	mode := ""
	flag.IntVar(&entries, "entries", 5000000, "number of live objects")
	flag.IntVar(&size, "size", 48, "object size in bytes")
	flag.StringVar(&mode, "mode", "slab", "slab or heap")
	flag.Parse()

	debug.SetGCPercent(10)
	fmt.Println("Mode:              ", mode)
	fmt.Println("Number of entries: ", entries)
	fmt.Println("Object size:       ", size)

	switch mode {
	case "slab":
		arena := 4 << 20
		for arena < entries*(size+2)*2 {
			if uint64(arena) == 1<<32 {
				fmt.Println("workload does not fit a 4 GiB arena; lower -entries or -size")
				return
			}
			arena <<= 1
		}
		c, err := slab.New(size, slab.Options{ArenaSize: arena})
		if err != nil {
			panic(err)
		}
		defer c.Close()

		keep := make([][]byte, entries)
		for i := range keep {
			buf, err := c.Alloc()
			if err != nil {
				panic(err)
			}
			keep[i] = buf
		}
		fmt.Println("GC pause with slab arena: ", gcPause())

	case "heap":
		keep := make([][]byte, entries)
		for i := range keep {
			keep[i] = make([]byte, size)
		}
		fmt.Println("GC pause with Go heap:    ", gcPause())

	default:
		fmt.Println("unknown mode:", mode)
	}
}
