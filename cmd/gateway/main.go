package main

import "github.com/ferg-cod3s/rq-challenge/internal/cli"

func main() {
	cli.Execute()
}
