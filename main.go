// Package main is the entry point for the matchchart CLI tool, which renders
// species matchup heat-maps from battle simulation results.
package main

import "github.com/pable/go-matchup-chart/cmd"

func main() {
	cmd.Execute()
}
