package main

import "brt/internal/cli"

func main() {
	cli.Execute()
}
