package classifier

import (
	"fmt"
	"math"
	"math/rand"
)

// Split is a train/test partition of a dataset.
type Split struct {
	XTrain, XTest [][]float64
	YTrain, YTest []int
}

// TrainTestSplit shuffles the rows with a generator seeded by seed and puts
// ceil(testFraction*n) of them into the test partition. The same seed always
// yields the same partition.
func TrainTestSplit(X [][]float64, y []int, testFraction float64, seed int64) (Split, error) {
	if len(X) != len(y) {
		return Split{}, fmt.Errorf("%w: %d rows, %d labels", ErrShape, len(X), len(y))
	}
	if testFraction <= 0 || testFraction >= 1 {
		return Split{}, fmt.Errorf("test fraction %v must be between 0 and 1", testFraction)
	}

	n := len(X)
	nTest := int(math.Ceil(testFraction * float64(n)))
	if n < 2 || nTest >= n {
		return Split{}, fmt.Errorf("%w: %d rows cannot be split with test fraction %v", ErrNoSamples, n, testFraction)
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)

	var s Split
	for k, i := range perm {
		if k < nTest {
			s.XTest = append(s.XTest, X[i])
			s.YTest = append(s.YTest, y[i])
		} else {
			s.XTrain = append(s.XTrain, X[i])
			s.YTrain = append(s.YTrain, y[i])
		}
	}
	return s, nil
}
