package sim

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/avelard/roadcast/core/model"
)

// degenerateWidth is the estimate spread below which the triangular
// distribution collapses to a constant.
const degenerateWidth = 1e-9

// sampler draws effort values for one trial from its own random source.
// Sources are never shared between trials.
type sampler struct {
	src rand.Source
}

func newSampler(seed uint64) *sampler {
	return &sampler{src: rand.NewSource(seed)}
}

// effort draws one value from Triangle(best, likely, worst). When best and
// worst coincide the distribution degenerates to the constant best.
func (s *sampler) effort(it model.WorkItem) (float64, error) {
	if it.Worst-it.Best < degenerateWidth {
		return it.Best, nil
	}
	tri := distuv.NewTriangle(it.Best, it.Worst, it.Likely, s.src)
	v := tri.Rand()
	if math.IsNaN(v) || v <= 0 {
		return 0, fmt.Errorf("sampled effort %g from estimates (%g, %g, %g)", v, it.Best, it.Likely, it.Worst)
	}
	return v, nil
}
