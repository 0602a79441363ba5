package main

import "noteapp/internal/cli"

func main() {
	cli.Execute()
}
