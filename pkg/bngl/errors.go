package bngl

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/rbmnet/pkg/errcode"
)

// PatternSyntaxError is returned for pattern text that does not follow the
// pattern grammar or names unknown monomers or compartments.
func PatternSyntaxError(pattern, reason string) error {
	msg := "Invalid pattern <em>%s</em>: %s"
	vars := []any{pattern, reason}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.PatternValidationError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: pattern %q: %s", fn.Name(), pattern, reason),
	}
}
