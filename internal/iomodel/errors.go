package iomodel

import (
	"errors"
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/rbmnet/pkg/errcode"
)

// ModelFileError is returned when a model file cannot be turned into a
// model. The reason names the offending entry.
func ModelFileError(path, reason string, cause error) error {
	msg := "Cannot load model from <em>%s</em>: %s"
	vars := []any{path, reason}

	var gnErr *gn.Error
	if errors.As(cause, &gnErr) {
		vars[1] = reason + ": " + fmt.Sprintf(gnErr.Msg, gnErr.Vars...)
		cause = gnErr.Err
	}
	err := fmt.Errorf("model file %s: %s", path, reason)
	if cause != nil {
		err = fmt.Errorf("model file %s: %s: %w", path, reason, cause)
	}
	return &gn.Error{
		Code: errcode.ModelFileError,
		Msg:  msg,
		Vars: vars,
		Err:  err,
	}
}
