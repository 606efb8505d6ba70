package main

import "record-resolver/cmd"

func main() {
	cmd.Execute()
}
