package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentile(t *testing.T) {
	assert := assert.New(t)

	p := newPercentile(8)
	for _, v := range []float64{5, 1, 3, 2, 4} {
		p.add(v)
	}

	assert.Equal(float64(3), p.avg())
	assert.Equal(float64(1), p.at(0))
	assert.Equal(float64(3), p.at(50))
	assert.Equal(float64(5), p.at(99))
	assert.Equal(float64(5), p.at(100))
}

func TestPercentileEmpty(t *testing.T) {
	assert := assert.New(t)

	// A run that never exercises one of the paths, say -free-ratio 0,
	// reports from an empty collector.
	p := newPercentile(0)
	assert.Equal(float64(0), p.avg())
	assert.Equal(float64(0), p.at(50))
	assert.Equal(float64(0), p.at(100))
}
