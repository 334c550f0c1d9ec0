package main

import (
	"crebforge/internal/cli"
)

func main() {
	cli.Execute()
}
