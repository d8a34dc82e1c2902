package netfile

import (
	"errors"
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/rbmnet/pkg/errcode"
)

// NetworkParseError is returned when the engine output does not follow the
// network grammar. It carries the 1-based line number and the line text.
// A zero line number means the problem concerns the stream as a whole.
func NetworkParseError(lineNum int, line, reason string, cause error) error {
	msg := "Cannot parse network line <em>%d</em> <em>%q</em>: %s"
	vars := []any{lineNum, line, reason}
	if lineNum == 0 {
		msg = "Cannot parse network: %s"
		vars = []any{reason}
	}

	var gnErr *gn.Error
	if errors.As(cause, &gnErr) {
		vars[len(vars)-1] = reason + ": " + fmt.Sprintf(gnErr.Msg, gnErr.Vars...)
		cause = gnErr.Err
	}
	err := fmt.Errorf("line %d %q: %s", lineNum, line, reason)
	if cause != nil {
		err = fmt.Errorf("line %d %q: %s: %w", lineNum, line, reason, cause)
	}
	return &gn.Error{
		Code: errcode.NetworkParseError,
		Msg:  msg,
		Vars: vars,
		Err:  err,
	}
}

// SimulationOutputError is returned when a simulation output table is
// malformed.
func SimulationOutputError(lineNum int, reason string, cause error) error {
	msg := "Cannot read simulation output line <em>%d</em>: %s"
	vars := []any{lineNum, reason}
	err := fmt.Errorf("simulation output line %d: %s", lineNum, reason)
	if cause != nil {
		err = fmt.Errorf("simulation output line %d: %s: %w", lineNum, reason, cause)
	}
	return &gn.Error{
		Code: errcode.SimulationOutputError,
		Msg:  msg,
		Vars: vars,
		Err:  err,
	}
}
