package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBucketMode(t *testing.T) {
	buckets := []RatingBucket{
		{Count: 3, Value: 1},
		{Count: 8, Value: 2},
		{Count: 1, Value: 3},
	}
	assert.Equal(t, 2.0, BucketMode(buckets))
}

func TestBucketModeTieKeepsFirst(t *testing.T) {
	buckets := []RatingBucket{
		{Count: 5, Value: 1.5},
		{Count: 5, Value: 4.5},
	}
	assert.Equal(t, 1.5, BucketMode(buckets))
}

func TestBucketModeEmpty(t *testing.T) {
	assert.Equal(t, NoDataScore, BucketMode(nil))
	assert.Equal(t, NoDataScore, BucketMode([]RatingBucket{}))
}

func TestBucketMedian(t *testing.T) {
	// 总数12，中点6：累计 3 < 6，3+8=11 >= 6 → 第二个桶
	buckets := []RatingBucket{
		{Count: 3, Value: 1},
		{Count: 8, Value: 2},
		{Count: 1, Value: 3},
	}
	assert.Equal(t, 2.0, BucketMedian(buckets))
}

func TestBucketMedianFirstBucket(t *testing.T) {
	buckets := []RatingBucket{
		{Count: 10, Value: 1},
		{Count: 2, Value: 5},
	}
	assert.Equal(t, 1.0, BucketMedian(buckets))
}

func TestBucketMedianEmpty(t *testing.T) {
	assert.Equal(t, NoDataScore, BucketMedian(nil))
}

func TestExpandedMedianEven(t *testing.T) {
	// 展开为 [1,1,1,2,2,2,2,2,2,2,2,3]，中间两位均为2
	buckets := []RatingBucket{
		{Count: 3, Value: 1},
		{Count: 8, Value: 2},
		{Count: 1, Value: 3},
	}
	assert.Equal(t, 2.0, ExpandedMedian(buckets))
}

func TestExpandedMedianOdd(t *testing.T) {
	buckets := []RatingBucket{
		{Count: 2, Value: 1},
		{Count: 1, Value: 3},
		{Count: 2, Value: 5},
	}
	assert.Equal(t, 3.0, ExpandedMedian(buckets))
}

func TestExpandedMedianMidpointAverage(t *testing.T) {
	buckets := []RatingBucket{
		{Count: 1, Value: 1},
		{Count: 1, Value: 4},
	}
	assert.Equal(t, 2.5, ExpandedMedian(buckets))
}

func TestExpandedMedianEmpty(t *testing.T) {
	assert.Equal(t, NoDataScore, ExpandedMedian([]RatingBucket{}))
}

// 两种中位数算法在偏斜直方图上结果不同，这正是它们分开存在的原因
func TestMedianAlgorithmsDiverge(t *testing.T) {
	buckets := []RatingBucket{
		{Count: 2, Value: 1},
		{Count: 2, Value: 3},
	}
	// 桶中位数：累计2*2=4 >= 4 → 第一个桶的值
	assert.Equal(t, 1.0, BucketMedian(buckets))
	// 真中位数：[1,1,3,3] → (1+3)/2
	assert.Equal(t, 2.0, ExpandedMedian(buckets))
}
