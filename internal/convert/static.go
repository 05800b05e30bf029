package convert

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
)

// StaticConverter returns fixed output per source file name. Errors registered
// with Fail are returned instead of output.
type StaticConverter struct {
	mu      sync.Mutex
	outputs map[string][]byte
	errs    map[string]error
	calls   []string
}

// NewStaticConverter creates a converter serving outputs keyed by file base name.
func NewStaticConverter(outputs map[string]string) *StaticConverter {
	s := &StaticConverter{outputs: map[string][]byte{}, errs: map[string]error{}}
	for name, out := range outputs {
		s.outputs[name] = []byte(out)
	}
	return s
}

// Fail makes conversions of the named file return err.
func (s *StaticConverter) Fail(name string, err error) *StaticConverter {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs[name] = err
	return s
}

func (s *StaticConverter) Convert(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := filepath.Base(path)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, name)
	if err, ok := s.errs[name]; ok {
		return nil, err
	}
	out, ok := s.outputs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoOutput, name)
	}
	return append([]byte(nil), out...), nil
}

// Calls returns the base names converted so far, in call order.
func (s *StaticConverter) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}
