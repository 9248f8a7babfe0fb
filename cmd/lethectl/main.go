package main

import "github.com/lethe-storage/lethe/cmd/lethectl/cmd"

func main() {
	cmd.Execute()
}
