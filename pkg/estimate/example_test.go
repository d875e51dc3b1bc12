package estimate_test

import (
	"fmt"

	"github.com/matzehuels/samplesize/pkg/estimate"
	"github.com/matzehuels/samplesize/pkg/zscore"
)

func ExampleCompare() {
	m, err := estimate.Compare(estimate.Input{
		P1:    0.2,
		P2:    0.1,
		Ratio: 1,
		Z:     zscore.For(95, 80),
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	m.Each(func(name string, e estimate.GroupEstimate) {
		fmt.Printf("%-9s n1=%d n2=%d total=%d\n", name, e.N1, e.N2, e.Total)
	})
	// Output:
	// kelsey    n1=201 n2=201 total=402
	// fleiss    n1=200 n2=200 total=400
	// fleiss_cc n1=219 n2=219 total=438
}
