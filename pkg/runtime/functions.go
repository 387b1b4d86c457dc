package runtime

import (
	"math"
	"math/rand"
	"sort"
)

// Logical and relational results are numeric: 1 for true, 0 for false.
// A NaN operand makes the result NaN.

func bool2f(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func anyNaN(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}

func OR(a, b float64) float64 {
	if anyNaN(a, b) {
		return math.NaN()
	}
	return bool2f(a != 0 || b != 0)
}

func AND(a, b float64) float64 {
	if anyNaN(a, b) {
		return math.NaN()
	}
	return bool2f(a != 0 && b != 0)
}

func XOR(a, b float64) float64 {
	if anyNaN(a, b) {
		return math.NaN()
	}
	return bool2f((a != 0) != (b != 0))
}

func NOT(a float64) float64 {
	if math.IsNaN(a) {
		return math.NaN()
	}
	return bool2f(a == 0)
}

func GT(a, b float64) float64 {
	if anyNaN(a, b) {
		return math.NaN()
	}
	return bool2f(a > b)
}

func GE(a, b float64) float64 {
	if anyNaN(a, b) {
		return math.NaN()
	}
	return bool2f(a >= b)
}

func LT(a, b float64) float64 {
	if anyNaN(a, b) {
		return math.NaN()
	}
	return bool2f(a < b)
}

func LE(a, b float64) float64 {
	if anyNaN(a, b) {
		return math.NaN()
	}
	return bool2f(a <= b)
}

func EQ(a, b float64) float64 {
	if anyNaN(a, b) {
		return math.NaN()
	}
	return bool2f(a == b)
}

func NE(a, b float64) float64 {
	if anyNaN(a, b) {
		return math.NaN()
	}
	return bool2f(a != b)
}

// Sign returns -1, 0 or 1 for the sign of v. A NaN argument counts as
// zero, so a NaN conditional takes the zero branch.
func Sign(v float64) float64 {
	switch {
	case math.IsNaN(v) || v == 0:
		return 0
	case v < 0:
		return -1
	}
	return 1
}

// IsNull returns 1 when v is NaN, else 0.
func IsNull(v float64) float64 {
	return bool2f(math.IsNaN(v))
}

// LogBase returns the logarithm of v in the given base.
func LogBase(v, base float64) float64 {
	return math.Log(v) / math.Log(base)
}

// RoundTo rounds v to the nearest multiple of unit.
func RoundTo(v, unit float64) float64 {
	if unit == 0 {
		return math.NaN()
	}
	return math.Round(v/unit) * unit
}

func DegToRad(deg float64) float64 { return deg * math.Pi / 180 }

func RadToDeg(rad float64) float64 { return rad * 180 / math.Pi }

// Rand returns a pseudorandom value in [0, v).
func Rand(v float64) float64 { return rand.Float64() * v }

// RandInt returns a pseudorandom whole number in [0, v).
func RandInt(v float64) float64 { return math.Floor(rand.Float64() * v) }

// Aggregates accept one or more values. A NaN argument makes the
// result NaN.

func Max(values ...float64) float64 {
	if anyNaN(values...) {
		return math.NaN()
	}
	m := values[0]
	for _, v := range values[1:] {
		m = math.Max(m, v)
	}
	return m
}

func Min(values ...float64) float64 {
	if anyNaN(values...) {
		return math.NaN()
	}
	m := values[0]
	for _, v := range values[1:] {
		m = math.Min(m, v)
	}
	return m
}

func Sum(values ...float64) float64 {
	s := 0.0
	for _, v := range values {
		s += v
	}
	return s
}

func Mean(values ...float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return Sum(values...) / float64(len(values))
}

func Median(values ...float64) float64 {
	if len(values) == 0 || anyNaN(values...) {
		return math.NaN()
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Mode returns the most frequent value; on a tie, the smallest of the
// tied values.
func Mode(values ...float64) float64 {
	if len(values) == 0 || anyNaN(values...) {
		return math.NaN()
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	best, bestCount := sorted[0], 0
	cur, curCount := sorted[0], 0
	for _, v := range sorted {
		if v == cur {
			curCount++
		} else {
			cur, curCount = v, 1
		}
		if curCount > bestCount {
			best, bestCount = cur, curCount
		}
	}
	return best
}

// Range returns the spread between the largest and smallest value.
func Range(values ...float64) float64 {
	return Max(values...) - Min(values...)
}
