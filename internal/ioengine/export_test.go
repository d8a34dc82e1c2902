package ioengine

import "io"

var (
	ResetEnginePath = resetEnginePath
	CheckVersion    = checkVersion
)

// SetStdout redirects verbose engine output.
func (e *Engine) SetStdout(w io.Writer) {
	e.stdout = w
}
