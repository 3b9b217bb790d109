package main

import "Jaffer/client/jaffer-cli/cmd"

func main() {
	cmd.Execute()
}
