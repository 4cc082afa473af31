package main

import "github.com/zeeshan01001/pathfinder/cmd"

func main() {
	cmd.Execute()
}
