package salaryrate

import (
	"sort"
	"strconv"
	"strings"
)

// SortRates orders rates by year, month and branch.
func SortRates(rates []Rate) {
	sort.SliceStable(rates, func(i, j int) bool {
		a, b := rates[i], rates[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if a.Month != b.Month {
			return a.Month < b.Month
		}
		return CompareBranchIDs(a.BranchID, b.BranchID) < 0
	})
}

// CompareBranchIDs compares numerically when both ids are integers so that
// branch 9 sorts before branch 10, and lexically otherwise.
func CompareBranchIDs(a, b string) int {
	ai, errA := strconv.Atoi(a)
	bi, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		}
		return 0
	}
	return strings.Compare(a, b)
}
