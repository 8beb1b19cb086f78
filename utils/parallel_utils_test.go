package utils

import (
	"fmt"
	"math"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartitionMap(t *testing.T) {
	getHisto := func(K, Np int) (histo map[int]int) {
		pm := NewPartitionMap(Np, K)
		histo = make(map[int]int)
		for np := 0; np < pm.ParallelDegree; np++ {
			kMin, kMax := pm.GetBucketRange(np)
			histo[kMax-kMin]++
		}
		return
	}
	getTotal := func(histo map[int]int) (total int) {
		for key, count := range histo {
			total += key * count
		}
		return
	}
	// Fewer items than teams collapses the team count
	assert.Equal(t, map[int]int{1: 2}, getHisto(2, 32))
	assert.Equal(t, map[int]int{1: 32}, getHisto(32, 32))
	assert.Equal(t, map[int]int{8: 32}, getHisto(256, 32))
	assert.Equal(t, map[int]int{8: 1, 9: 31}, getHisto(287, 32))
	assert.Equal(t, 287, getTotal(getHisto(287, 32)))
	for n := 64; n < 2000; n++ {
		var (
			keys   [2]float64
			keyNum int
		)
		histo := getHisto(n, 32)
		for key := range histo {
			keys[keyNum] = float64(key)
			keyNum++
		}
		if keyNum == 2 {
			assert.Equal(t, 1., math.Abs(keys[0]-keys[1])) // Maximum imbalance of 1
		}
		assert.Equal(t, n, getTotal(histo))
	}
	// buckets are contiguous and cover the range
	for maxIndex := 10; maxIndex < 300; maxIndex++ {
		pm := NewPartitionMap(5, maxIndex)
		next := 0
		for bn := 0; bn < pm.ParallelDegree; bn++ {
			kMin, kMax := pm.GetBucketRange(bn)
			assert.Equal(t, next, kMin)
			next = kMax
		}
		assert.Equal(t, maxIndex, next)
	}
}

func TestPartitionMap_Run(t *testing.T) {
	var (
		K     = 103
		pm    = NewPartitionMap(7, K)
		count int64
		seen  = make([]int32, K)
	)
	err := pm.Run(func(bn, kMin, kMax int) error {
		for k := kMin; k < kMax; k++ {
			atomic.AddInt32(&seen[k], 1)
			atomic.AddInt64(&count, 1)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(K), count)
	for k := range seen {
		assert.Equal(t, int32(1), seen[k])
	}
	err = pm.Run(func(bn, kMin, kMax int) error {
		if bn >= 3 {
			return fmt.Errorf("bucket %d", bn)
		}
		return nil
	})
	require.Error(t, err)
	assert.Equal(t, "bucket 3", err.Error())
}
