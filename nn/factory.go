package nn

import (
	"errors"
	"fmt"
	"reflect"
	"slices"

	"github.com/samber/lo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)


var (
	// ErrUnknownActivation is returned for activation names missing from the registry.
	ErrUnknownActivation = errors.New("nn: unknown activation")
	// ErrUnsupportedActivation is returned for specs that are neither a name nor a layer constructor.
	ErrUnsupportedActivation = errors.New("nn: unsupported activation spec")
)


// ActivationSpec selects an activation layer. It is either an ActivationName
// or an ActivationConstructor.
type ActivationSpec interface {
	activationSpec()
}

// ActivationName is lowercased, then matched against the registry.
type ActivationName string

// ActivationConstructor builds a fresh layer on every call.
type ActivationConstructor func() Layer

func (ActivationName) activationSpec()        {}
func (ActivationConstructor) activationSpec() {}


// built once; constructors only run when their key is resolved
var activationRegistry = map[string]ActivationConstructor{
	"sigmoid": func() Layer { return NewSigmoid() },
	"relu":    func() Layer { return NewRELU() },
	"dice":    func() Layer { return NewDice(DefaultDiceEpsilon) },
	"prelu":   func() Layer { return NewPReLU() },
	"softmax": func() Layer { return NewSoftmax(1) },
}


// ActivationNames lists the registry keys in sorted order.
func ActivationNames() []string {
	names := lo.Keys(activationRegistry)
	slices.Sort(names)
	return names
}



// ActivationLayer resolves spec to a new, ready to use activation layer.
// Each call constructs a new instance, so two "dice" layers never share alpha.
func ActivationLayer(spec ActivationSpec) (Layer, error) {
	switch s := spec.(type) {
	case ActivationName:
		ctor, ok := activationRegistry[cases.Lower(language.Und).String(string(s))]
		if !ok {
			return nil, fmt.Errorf("%w: %q (known: %v)", ErrUnknownActivation, string(s), ActivationNames())
		}
		return ctor(), nil

	case ActivationConstructor:
		if s == nil {
			return nil, fmt.Errorf("%w: nil constructor", ErrUnsupportedActivation)
		}
		layer := s()
		if layer == nil {
			return nil, fmt.Errorf("%w: constructor returned no layer", ErrUnsupportedActivation)
		}
		return layer, nil

	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedActivation, spec)
	}
}



var defaulterType = reflect.TypeOf((*defaulter)(nil)).Elem()

// ActivationSpecOf converts a dynamically typed value to an ActivationSpec.
// Accepted values are a string, an ActivationSpec, a func() Layer, or the reflect.Type
// of one of this package's activation layers (a new defaulted T is built per call).
// Layers that need constructor arguments, such as Linear, must be passed as a func() Layer.
// Anything else, including already constructed layers, is rejected with ErrUnsupportedActivation.
func ActivationSpecOf(v any) (ActivationSpec, error) {
	switch s := v.(type) {
	case string:
		return ActivationName(s), nil
	case ActivationSpec:
		return s, nil
	case func() Layer:
		return ActivationConstructor(s), nil
	case reflect.Type:
		return constructorForType(s)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedActivation, v)
	}
}

func constructorForType(t reflect.Type) (ActivationSpec, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil type", ErrUnsupportedActivation)
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	// defaulter is unexported, so only activation layers of this package qualify
	if t.Kind() != reflect.Struct || !reflect.PointerTo(t).Implements(defaulterType) {
		return nil, fmt.Errorf("%w: type %v cannot be built without arguments", ErrUnsupportedActivation, t)
	}

	return ActivationConstructor(func() Layer {
		d := reflect.New(t).Interface().(defaulter)
		d.setDefaults()
		return d.(Layer)
	}), nil
}


// ActivationLayerOf is ActivationSpecOf followed by ActivationLayer.
func ActivationLayerOf(v any) (Layer, error) {
	spec, err := ActivationSpecOf(v)
	if err != nil {
		return nil, err
	}
	return ActivationLayer(spec)
}
