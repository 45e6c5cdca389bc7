package main

import "playtest_server/cmd"

func main() {
	cmd.Execute()
}
