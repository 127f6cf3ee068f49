package main

import "github.com/ppiankov/toolfence/internal/cli"

func main() {
	cli.Execute()
}
