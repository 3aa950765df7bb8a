package targets

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
)

var builders = map[string]func() (Target, error){
	"normal": func() (Target, error) { return NewStdNormal(), nil },
	"normal3d": func() (Target, error) {
		return NewNormal(0, 1, 3), nil
	},
	"gaussian2d": func() (Target, error) {
		cov := mat.NewSymDense(2, []float64{1.0, 0.8, 0.8, 1.0})
		return NewGaussian([]float64{0, 0}, cov)
	},
	"studentt": func() (Target, error) { return NewStudentT(4), nil },
	"doublewell": func() (Target, error) {
		return NewDoubleWell(), nil
	},
	"banana": func() (Target, error) { return NewBanana(), nil },
}

func Get(name string) (Target, error) {
	fn, ok := builders[name]
	if !ok {
		return nil, fmt.Errorf("unknown target: %s", name)
	}
	return fn()
}

func List() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
