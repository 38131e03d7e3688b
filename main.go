package main

import "ghdl/cmd"

func main() {
	cmd.Execute()
}
