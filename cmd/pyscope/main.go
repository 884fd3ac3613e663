package main

import "github.com/mvp-joe/pyscope/internal/cli"

func main() {
	cli.Execute()
}
