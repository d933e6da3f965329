package main

import "mspro-labs/bean-thinking/cmd"

func main() {
	cmd.Execute()
}
