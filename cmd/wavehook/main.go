package main

import "github.com/tessro/wavehook/internal/cli"

func main() {
	cli.Execute()
}
