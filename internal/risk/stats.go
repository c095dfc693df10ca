package risk

import "math"

// =============================================================================
// 통계 유틸리티
// =============================================================================

// Mean 평균 계산
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev 표준편차 계산 (표본, n-1)
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := Mean(values)
	var sumSq float64
	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(len(values)-1))
}

// Percentile 백분위수 계산 (오름차순 정렬된 입력, 선형 보간)
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}

	idx := p / 100.0 * float64(len(sorted)-1)
	lower := int(math.Floor(idx))
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	// 선형 보간
	weight := idx - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// TailMean 정렬된 입력에서 threshold 이하 값들의 평균 (CVaR용)
// threshold 이하 값이 없으면 threshold 자체를 반환
func TailMean(sorted []float64, threshold float64) float64 {
	var sum float64
	var count int
	for _, v := range sorted {
		if v > threshold {
			break
		}
		sum += v
		count++
	}
	if count == 0 {
		return threshold
	}
	return sum / float64(count)
}
