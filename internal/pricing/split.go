package pricing

import "errors"

// MinPerTarget is the smallest quantity a single post/video may receive when
// one purchase is split across several targets. Fixed across platforms and
// service types.
const MinPerTarget = 50

var ErrPerTargetFloor = errors.New("per-target quantity below minimum")

// PerTarget divides a purchase evenly across n targets.
func PerTarget(totalQty, n int) int {
	if n <= 0 {
		return 0
	}
	return totalQty / n
}

// CheckTargets rejects a selection once the even split would drop any target
// below MinPerTarget.
func CheckTargets(totalQty, n int) error {
	if n <= 0 {
		return errors.New("no targets selected")
	}
	if PerTarget(totalQty, n) < MinPerTarget {
		return ErrPerTargetFloor
	}
	return nil
}

// SplitQuantities distributes totalQty across n targets: an even floor split,
// with the remainder folded into the first target so nothing is lost.
func SplitQuantities(totalQty, n int) []int {
	if n <= 0 {
		return nil
	}
	per := totalQty / n
	out := make([]int, n)
	for i := range out {
		out[i] = per
	}
	out[0] += totalQty - per*n
	return out
}
