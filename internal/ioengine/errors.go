package ioengine

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/rbmnet/pkg/errcode"
)

func EngineNotFoundError(locations []string, reason string) error {
	msg := "Cannot find BioNetGen (BNG2.pl): %s\nChecked locations:\n%s"
	list := "    " + strings.Join(locations, "\n    ")
	vars := []any{reason, list}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.EngineNotFoundError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: engine not found (%s) in %s",
			fn.Name(), reason, strings.Join(locations, ", ")),
	}
}

func EngineVersionError(version, minVersion string, err error) error {
	msg := "BioNetGen version <em>%s</em> is not supported, " +
		"minimal version is <em>%s</em>"
	vars := []any{version, minVersion}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	if err == nil {
		err = fmt.Errorf("version %s is older than %s", version, minVersion)
	}
	return &gn.Error{
		Code: errcode.EngineVersionError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: %w", fn.Name(), err),
	}
}

// NetworkGenerationError keeps the engine output verbatim, it is the only
// diagnostic a user gets about the model problems.
func NetworkGenerationError(modelName, output string, err error) error {
	msg := "BioNetGen failed for model <em>%s</em>:\n%s"
	vars := []any{modelName, output}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.NetworkGenerationError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: network generation failed: %w\n%s",
			fn.Name(), err, output),
	}
}
