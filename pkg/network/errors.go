package network

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/rbmnet/pkg/errcode"
)

// UnknownRuleError is returned when a reaction refers to a rule that the
// model does not have. It means the network was generated from a different
// model than the one being assembled.
func UnknownRuleError(rule string, reaction int) error {
	msg := "Reaction <em>%d</em> refers to unknown rule <em>%s</em>"
	vars := []any{reaction + 1, rule}
	return &gn.Error{
		Code: errcode.UnknownRuleError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("reaction %d: unknown rule %q", reaction+1, rule),
	}
}
