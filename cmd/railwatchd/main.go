package main

import "railwatch/server/internal/cli"

func main() {
	cli.Execute()
}
