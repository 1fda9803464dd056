package main

import "github.com/reoring/shapeval/internal/cli"

func main() {
	cli.Execute()
}
