package main

import (
	"ferryclock/internal/adapters/cli"
)

func main() {
	cli.Execute()
}
