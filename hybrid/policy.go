package hybrid

import "math"

// adHocBatchFactor is how many batches' worth of candidates brute force
// must beat by to win the policy switch — a fixed stand-in for
// VecSimIndex_PreferAdHocSearch's cost-model heuristic (which factors in
// measured per-distance-computation cost; this module has no such
// measurement, so it uses a constant multiplier instead).
const adHocBatchFactor = 10

// preferAdHoc reports whether brute-force scoring every filter survivor
// is expected to be cheaper than running k-sized ANN batches: true when
// the filter's estimated result set is small relative to a handful of
// typical batches, or small relative to the index itself.
func preferAdHoc(filterEstimated, k, indexSize int) bool {
	if filterEstimated <= 0 {
		return true
	}
	if indexSize <= 0 {
		return false
	}
	if filterEstimated <= k*adHocBatchFactor {
		return true
	}

	return filterEstimated*4 <= indexSize
}

// computeBatchSize is prepareResults' auto batch-size formula:
// ceil(n_res_left * index_size / child_num_estimated), at least 1. With no
// child estimate it returns n_res_left (at least 1).
func computeBatchSize(nResLeft, indexSize, childEstimated int) int {
	if childEstimated <= 0 {
		return maxInt(nResLeft, 1)
	}

	size := int(math.Ceil(float64(nResLeft) * float64(indexSize) / float64(childEstimated)))

	return maxInt(size, 1)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}

	return b
}
