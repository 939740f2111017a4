package main

import "izpack/internal/cli"

func main() {
	cli.Execute()
}
