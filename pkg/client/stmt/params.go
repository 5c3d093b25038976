// Copyright 2025 dbkit, Inc.
// SPDX-License-Identifier: Apache-2.0

package stmt

type paramsKind int

const (
	paramsEmpty paramsKind = iota
	paramsPositional
	paramsNamed
)

// Params is the parameter set for one execute attempt: empty (zero value),
// positional, or named. Named sets are converted to positional order before
// binding.
type Params struct {
	values []any
	named  map[string]any
	kind   paramsKind
}

// PositionalParams binds values in placeholder order.
func PositionalParams(values ...any) Params {
	return Params{kind: paramsPositional, values: values}
}

// NamedParams binds values by placeholder name.
func NamedParams(values map[string]any) Params {
	return Params{kind: paramsNamed, named: values}
}

// intoPositional resolves a named set against the statement's declared name
// list, producing a positional set in declared order.
func (p Params) intoPositional(names []string) (Params, error) {
	values := make([]any, 0, len(names))
	for _, name := range names {
		value, ok := p.named[name]
		if !ok {
			return Params{}, &MissingNamedParamError{Name: name}
		}
		values = append(values, value)
	}
	return Params{kind: paramsPositional, values: values}, nil
}
