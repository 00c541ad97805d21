package main

import "barrettgo/cmd/barrett/cmd"

func main() {
	cmd.Execute()
}
