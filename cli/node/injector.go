package node

import (
	"reflect"

	"golang.org/x/xerrors"
)

// sliceInjector is a dependency injector that keeps the dependencies in the
// order of injection. A dependency injected later takes precedence over the
// previous ones of a compatible type.
//
// - implements node.Injector
type sliceInjector struct {
	deps []interface{}
}

// NewInjector returns an empty injector.
func NewInjector() Injector {
	return &sliceInjector{}
}

// Resolve implements node.Injector. It populates the value pointed by v with
// the latest dependency assignable to it.
func (inj *sliceInjector) Resolve(v interface{}) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr {
		return xerrors.Errorf("expected a pointer but got '%T'", v)
	}

	if rv.IsNil() {
		return xerrors.New("cannot resolve into a nil pointer")
	}

	target := rv.Elem()

	for i := len(inj.deps) - 1; i >= 0; i-- {
		dep := reflect.ValueOf(inj.deps[i])

		if dep.Type().AssignableTo(target.Type()) {
			target.Set(dep)
			return nil
		}
	}

	return xerrors.Errorf("couldn't find dependency for '%v'", target.Type())
}

// Inject implements node.Injector. Nil values are ignored.
func (inj *sliceInjector) Inject(v interface{}) {
	if v == nil {
		return
	}

	inj.deps = append(inj.deps, v)
}
