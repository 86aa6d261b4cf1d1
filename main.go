package main

import "github.com/Alturino/perfumery/cmd"

func main() {
	cmd.Start()
}
