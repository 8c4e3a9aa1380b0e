package main

import "github.com/mcoot/commander-tracker/internal/cli"

func main() {
	cli.Execute()
}
