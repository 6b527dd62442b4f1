package main

import "pranchashop/internal/cli"

func main() {
	cli.Execute()
}
