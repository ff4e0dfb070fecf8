package main

import "github.com/agentic-research/legends/cmd"

func main() {
	cmd.Execute()
}
