// Package main is the entry point for the mmbracket CLI, which predicts
// NCAA tournament matchups from historical box scores and fills the bracket.
package main

import "github.com/pable/mmbracket/cmd"

func main() {
	cmd.Execute()
}
