package utils

// CreateRankList creates 1-based ranks for count items that are already sorted.
func CreateRankList(count int) []int {
	if count <= 0 {
		return []int{}
	}
	ranks := make([]int, count)
	for i := range ranks {
		ranks[i] = i + 1
	}
	return ranks
}
