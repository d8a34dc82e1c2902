// Package main provides the rbmnet CLI application.
// rbmnet generates reaction networks and ODEs of rule-based models.
package main

import "github.com/gnames/rbmnet/cmd"

func main() {
	cmd.Execute()
}
