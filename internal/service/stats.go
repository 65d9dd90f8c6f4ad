package service

import "sort"

// RatingBucket 统计函数的直方图输入：Count 个候选人，代表值 Value
type RatingBucket struct {
	Count int
	Value float64
}

// NoDataScore 空直方图的回退常量。调用方必须把它当作"无数据"哨兵，
// 而不是真实统计量。
const NoDataScore = 2.5

// BucketMode 返回计数最大的桶的代表值，并列时取迭代顺序中先出现的桶
func BucketMode(buckets []RatingBucket) float64 {
	if len(buckets) == 0 {
		return NoDataScore
	}
	best := buckets[0]
	for _, b := range buckets[1:] {
		if b.Count > best.Count {
			best = b
		}
	}
	return best.Value
}

// BucketMedian 直方图桶中位数：按给定顺序累计计数，
// 返回累计首次达到总数一半的桶的代表值。这是桶级中位数，不做插值。
//
// 与 ExpandedMedian 并非等价算法：在并列或偏斜的直方图上两者会给出
// 不同结果。两条路径分别服务不同视图，不能静默合并成一个"中位数"。
func BucketMedian(buckets []RatingBucket) float64 {
	if len(buckets) == 0 {
		return NoDataScore
	}
	total := 0
	for _, b := range buckets {
		total += b.Count
	}

	running := 0
	for _, b := range buckets {
		running += b.Count
		if running*2 >= total {
			return b.Value
		}
	}
	return buckets[len(buckets)-1].Value
}

// ExpandedMedian 把每个桶展开成 Count 份代表值后求真中位数
// （偶数个取中间两数均值）。见 BucketMedian 关于两种中位数的说明。
func ExpandedMedian(buckets []RatingBucket) float64 {
	var values []float64
	for _, b := range buckets {
		for i := 0; i < b.Count; i++ {
			values = append(values, b.Value)
		}
	}
	if len(values) == 0 {
		return NoDataScore
	}

	sort.Float64s(values)
	n := len(values)
	if n%2 == 1 {
		return values[n/2]
	}
	return (values[n/2-1] + values[n/2]) / 2
}
