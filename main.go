package main

import "github.com/maepreville/psh/cmd"

func main() {
	cmd.Execute()
}
