package main

import "slices"

// percentile collects latency samples for the workload report.
type percentile struct {
	data   []float64
	sorted bool
}

func newPercentile(capacity int) *percentile {
	return &percentile{data: make([]float64, 0, capacity)}
}

func (p *percentile) add(v float64) {
	p.sorted = false
	p.data = append(p.data, v)
}

func (p *percentile) sort() {
	if !p.sorted {
		slices.Sort(p.data)
		p.sorted = true
	}
}

func (p *percentile) at(pct float64) float64 {
	if len(p.data) == 0 {
		return 0
	}
	p.sort()
	i := int(pct / 100 * float64(len(p.data)))
	if i >= len(p.data) {
		i = len(p.data) - 1
	}
	return p.data[i]
}

func (p *percentile) avg() float64 {
	if len(p.data) == 0 {
		return 0
	}
	var sum float64
	for _, v := range p.data {
		sum += v
	}
	return sum / float64(len(p.data))
}
