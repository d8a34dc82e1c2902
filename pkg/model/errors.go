package model

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/rbmnet/pkg/errcode"
)

// ErrDanglingBond is wrapped by validation errors about bond indices that
// do not pair up inside a complex.
var ErrDanglingBond = errors.New("dangling bond")

// PatternValidationError is returned when a pattern, rule or other model
// component refers to sites, states, bonds or names that do not exist or do
// not fit together.
func PatternValidationError(monomer, site, reason string) error {
	msg := "Invalid pattern for <em>%s</em> site <em>%s</em>: %s"
	vars := []any{monomer, site, reason}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.PatternValidationError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: monomer %q site %q: %s",
			fn.Name(), monomer, site, reason),
	}
}

// danglingBondError reports a bond index that does not occur exactly twice.
func danglingBondError(monomer, site string, bond int) error {
	msg := "Bond <em>%d</em> on <em>%s</em> site <em>%s</em> has no partner"
	vars := []any{bond, monomer, site}
	return &gn.Error{
		Code: errcode.PatternValidationError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("monomer %q site %q bond %d: %w",
			monomer, site, bond, ErrDanglingBond),
	}
}

// DuplicateNameError is returned when a component with the same name is
// already registered in a category.
func DuplicateNameError(kind, name string) error {
	msg := "%s <em>%s</em> already exists"
	vars := []any{kind, name}
	return &gn.Error{
		Code: errcode.DuplicateNameError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("duplicate %s name %q", kind, name),
	}
}

// NoRulesError is returned when network generation is requested for a
// model without rules.
func NoRulesError(model string) error {
	msg := "Model <em>%s</em> has no rules"
	vars := []any{model}
	return &gn.Error{
		Code: errcode.NoRulesError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("model %q has no rules", model),
	}
}

// NoInitialConditionsError is returned when network generation is requested
// for a model without initial conditions.
func NoInitialConditionsError(model string) error {
	msg := "Model <em>%s</em> has no initial conditions"
	vars := []any{model}
	return &gn.Error{
		Code: errcode.NoInitialConditionsError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("model %q has no initial conditions", model),
	}
}

// SpeciesNotFoundError is returned when a concrete pattern does not match
// any generated species.
func SpeciesNotFoundError(pattern string) error {
	msg := "Species <em>%s</em> not found in the generated network"
	vars := []any{pattern}
	return &gn.Error{
		Code: errcode.SpeciesNotFoundError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("species %s not found", pattern),
	}
}

// HasCode reports whether err is a *gn.Error with the given code.
func HasCode(err error, code gn.ErrorCode) bool {
	var gnErr *gn.Error
	if errors.As(err, &gnErr) {
		return gnErr.Code == code
	}
	return false
}

// ExpressionError is returned when an expression cannot be resolved or
// evaluated.
func ExpressionError(name string, err error) error {
	msg := "Cannot evaluate <em>%s</em>"
	vars := []any{name}
	return &gn.Error{
		Code: errcode.ExpressionError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("expression %q: %w", name, err),
	}
}
