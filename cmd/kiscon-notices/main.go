package main

import "github.com/daehan-lim/kiscon-notices/internal/cli"

func main() {
	cli.Execute()
}
