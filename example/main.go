package main

import (
	"fmt"

	"github.com/gomemlab/slab"
)

func main() {
	c, err := slab.New(41)
	if err != nil {
		panic(err)
	}
	defer c.Close()

	fmt.Println("order:", c.SlabOrder(), "objects/slab:", c.ObjectsPerSlab())

	var bufs [][]byte
	for i := 0; i < 1000; i++ {
		buf, err := c.Alloc()
		if err != nil {
			panic(err)
		}
		copy(buf, fmt.Sprintf("object-%d", i))
		bufs = append(bufs, buf)
	}

	for i, buf := range bufs {
		if i%2 == 0 {
			c.Free(buf)
		}
	}
	c.Shrink()

	data, _ := c.Stats().MarshalJSON()
	fmt.Println(string(data))
}
