package main

import "nationaldynamics/internal/cli"

func main() {
	cli.Execute()
}
