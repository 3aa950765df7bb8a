package mcmc

import "sort"

// Variable names one free variable and its component count.
type Variable struct {
	Name string
	Size int
}

// Space resolves free-variable names to fixed slots in a flat Vector. The
// variable set is frozen at construction; position, momentum, and gradient
// buffers all share the layout.
type Space struct {
	vars    []Variable
	offsets map[string]int
	sizes   map[string]int
	dim     int
}

func NewSpace(vars ...Variable) *Space {
	s := &Space{
		vars:    make([]Variable, 0, len(vars)),
		offsets: make(map[string]int, len(vars)),
		sizes:   make(map[string]int, len(vars)),
	}
	for _, v := range vars {
		if v.Size < 1 {
			v.Size = 1
		}
		s.offsets[v.Name] = s.dim
		s.sizes[v.Name] = v.Size
		s.vars = append(s.vars, v)
		s.dim += v.Size
	}
	return s
}

// SpaceFromValues builds a Space from a named value map. Variables are laid
// out in sorted name order so the same map always yields the same layout.
func SpaceFromValues(values map[string][]float64) (*Space, error) {
	if len(values) == 0 {
		return nil, ErrEmptySpace
	}
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	vars := make([]Variable, 0, len(names))
	for _, name := range names {
		vars = append(vars, Variable{Name: name, Size: len(values[name])})
	}
	return NewSpace(vars...), nil
}

func (s *Space) Dim() int { return s.dim }

func (s *Space) Variables() []Variable { return s.vars }

func (s *Space) Slot(name string) (offset, size int, ok bool) {
	offset, ok = s.offsets[name]
	if !ok {
		return 0, 0, false
	}
	return offset, s.sizes[name], true
}

// CheckSame verifies that the map's key set equals the space's variable set.
func (s *Space) CheckSame(values map[string][]float64) error {
	var missing, extra []string
	for _, v := range s.vars {
		if _, ok := values[v.Name]; !ok {
			missing = append(missing, v.Name)
		}
	}
	for name := range values {
		if _, ok := s.offsets[name]; !ok {
			extra = append(extra, name)
		}
	}
	if len(missing) > 0 || len(extra) > 0 {
		sort.Strings(extra)
		return &MismatchError{Missing: missing, Extra: extra}
	}
	return nil
}

// Flatten packs named values into a flat Vector in slot order.
func (s *Space) Flatten(values map[string][]float64) (Vector, error) {
	if err := s.CheckSame(values); err != nil {
		return nil, err
	}
	x := make(Vector, s.dim)
	for _, v := range s.vars {
		vals := values[v.Name]
		if len(vals) != v.Size {
			return nil, &MismatchError{Missing: []string{v.Name}}
		}
		copy(x[s.offsets[v.Name]:], vals)
	}
	return x, nil
}

// Unflatten unpacks a flat Vector into a fresh named value map.
func (s *Space) Unflatten(x Vector) map[string][]float64 {
	values := make(map[string][]float64, len(s.vars))
	for _, v := range s.vars {
		entry := make([]float64, v.Size)
		copy(entry, x[s.offsets[v.Name]:s.offsets[v.Name]+v.Size])
		values[v.Name] = entry
	}
	return values
}
