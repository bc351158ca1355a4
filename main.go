package main

import "pixflow/cmd"

func main() {
	cmd.Execute()
}
