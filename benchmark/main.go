package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/gomemlab/slab"
)

func main() {
	ops := 0
	size := 0
	freeRatio := 0
	seed := int64(0)
	flag.IntVar(&ops, "ops", 2000000, "number of operations")
	flag.IntVar(&size, "size", 0, "object size in bytes (0 = random 16..512)")
	flag.IntVar(&freeRatio, "free-ratio", 50, "percentage of frees in the mix")
	flag.Int64Var(&seed, "seed", 42, "workload seed")
	flag.Parse()

	faker := gofakeit.New(seed)
	if size == 0 {
		size = int(faker.Uint16()%497) + 16
	}
	if freeRatio < 0 || freeRatio > 100 {
		fmt.Println("free-ratio must be within 0..100")
		os.Exit(1)
	}

	c, err := slab.New(size, slab.Options{ArenaSize: 256 << 20})
	if err != nil {
		fmt.Println("setup failed:", err)
		os.Exit(1)
	}
	defer c.Close()

	fmt.Println("Operations:     ", ops)
	fmt.Println("Object size:    ", size)
	fmt.Println("Free ratio:     ", freeRatio, "%")
	fmt.Println("Objects/slab:   ", c.ObjectsPerSlab())

	allocLat := newPercentile(ops)
	freeLat := newPercentile(ops)
	var live [][]byte

	start := time.Now()
	for i := 0; i < ops; i++ {
		if int(faker.Uint8())%100 < freeRatio && len(live) > 0 {
			j := int(faker.Uint32()) % len(live)
			t0 := time.Now()
			c.Free(live[j])
			freeLat.add(float64(time.Since(t0).Nanoseconds()))
			live[j] = live[len(live)-1]
			live = live[:len(live)-1]
		} else {
			t0 := time.Now()
			buf, err := c.Alloc()
			if err != nil {
				fmt.Println("alloc failed:", err)
				os.Exit(1)
			}
			allocLat.add(float64(time.Since(t0).Nanoseconds()))
			live = append(live, buf)
		}
	}
	elapsed := time.Since(start)

	st := c.Stats()
	fmt.Printf("Total:        %v (%.0f ops/s)\n", elapsed, float64(ops)/elapsed.Seconds())
	fmt.Printf("Alloc ns:     avg %.0f  p50 %.0f  p99 %.0f\n", allocLat.avg(), allocLat.at(50), allocLat.at(99))
	fmt.Printf("Free ns:      avg %.0f  p50 %.0f  p99 %.0f\n", freeLat.avg(), freeLat.at(50), freeLat.at(99))
	fmt.Printf("Slabs:        %d free / %d partial / %d full\n", st.FreeSlabs, st.PartialSlabs, st.FullSlabs)
	fmt.Printf("Utilization:  %.1f%%\n", st.Utilization()*100)
}
