package main

import "github.com/jansssss/jbfPL/cmd"

func main() {
	cmd.Execute()
}
