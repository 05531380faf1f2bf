package main

import "github.com/devskit/eventcore/eventcore/cmd"

func main() {
	cmd.Execute()
}
