package calculator

import (
	"math"
	"sort"
	"strconv"
)

func emptyInput(op string) error {
	return &EvalError{Kind: EmptyInput, Func: op, Detail: "at least one number is required"}
}

// Mean returns the arithmetic mean of xs.
func Mean(xs []float64) (float64, error) {
	if len(xs) == 0 {
		return 0, emptyInput("mean")
	}
	var s float64
	for _, x := range xs {
		s += x
	}
	if !math.IsInf(s, 0) {
		return s / float64(len(xs)), nil
	}
	// The sum overflowed. An incremental mean stays in range.
	var m float64
	for i, x := range xs {
		m += (x - m) / float64(i+1)
	}
	return m, nil
}

// Median returns the middle value of xs in sorted order, or the mean of the
// two middle values if len(xs) is even. xs is not modified.
func Median(xs []float64) (float64, error) {
	if len(xs) == 0 {
		return 0, emptyInput("median")
	}
	s := sorted(xs)
	k := len(s) / 2
	if len(s)%2 == 1 {
		return s[k], nil
	}
	return s[k-1]/2 + s[k]/2, nil
}

// Mode returns the most frequent value in xs. Among equally frequent values,
// the result is the smallest.
func Mode(xs []float64) (float64, error) {
	if len(xs) == 0 {
		return 0, emptyInput("mode")
	}
	s := sorted(xs)
	best, bestn := s[0], 0
	for i := 0; i < len(s); {
		j := i + 1
		for j < len(s) && s[j] == s[i] {
			j++
		}
		// Runs are visited in ascending order, so strict comparison keeps
		// the smallest value among ties.
		if j-i > bestn {
			best, bestn = s[i], j-i
		}
		i = j
	}
	return best, nil
}

// Variance returns the sample variance of xs, using n-1 degrees of freedom.
// The variance of a single value is 0.
func Variance(xs []float64) (float64, error) {
	if len(xs) == 0 {
		return 0, emptyInput("variance")
	}
	if len(xs) == 1 {
		return 0, nil
	}
	// Welford's algorithm.
	var m, ss float64
	for i, x := range xs {
		d := x - m
		m += d / float64(i+1)
		ss += d * (x - m)
	}
	return ss / float64(len(xs)-1), nil
}

// Stdev returns the sample standard deviation of xs. The standard deviation
// of a single value is 0.
func Stdev(xs []float64) (float64, error) {
	v, err := Variance(xs)
	if err != nil {
		return 0, &EvalError{Kind: EmptyInput, Func: "stdev", Detail: "at least one number is required"}
	}
	return math.Sqrt(v), nil
}

func sorted(xs []float64) []float64 {
	s := append([]float64(nil), xs...)
	sort.Float64s(s)
	return s
}

// StatisticNames lists the operations accepted by Statistic.
var StatisticNames = []string{"mean", "median", "mode", "stdev", "variance"}

// Statistic computes the statistic named by op, one of StatisticNames.
func Statistic(op string, xs []float64) (float64, error) {
	switch op {
	case "mean":
		return Mean(xs)
	case "median":
		return Median(xs)
	case "mode":
		return Mode(xs)
	case "stdev":
		return Stdev(xs)
	case "variance":
		return Variance(xs)
	default:
		return 0, &UnknownStatisticError{Op: op}
	}
}

// UnknownStatisticError is an error indicating a statistic name that is not
// one of StatisticNames.
type UnknownStatisticError struct {
	Op string
}

func (err *UnknownStatisticError) Error() string {
	return "unknown statistic " + strconv.Quote(err.Op)
}

// Summary holds every statistic of a data set.
type Summary struct {
	Count    int     `json:"count"`
	Sum      float64 `json:"sum"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	Mode     float64 `json:"mode"`
	Stdev    float64 `json:"stdev"`
	Variance float64 `json:"variance"`
}

// Statistics computes a Summary of xs.
func Statistics(xs []float64) (Summary, error) {
	if len(xs) == 0 {
		return Summary{}, emptyInput("statistics")
	}
	s := Summary{Count: len(xs), Min: xs[0], Max: xs[0]}
	for _, x := range xs {
		s.Sum += x
		s.Min = math.Min(s.Min, x)
		s.Max = math.Max(s.Max, x)
	}
	// None of these can fail on a non-empty input.
	s.Mean, _ = Mean(xs)
	s.Median, _ = Median(xs)
	s.Mode, _ = Mode(xs)
	s.Variance, _ = Variance(xs)
	s.Stdev = math.Sqrt(s.Variance)
	return s, nil
}
