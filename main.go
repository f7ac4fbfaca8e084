package main

import "github.com/brogergvhs/pagedump/cmd"

func main() {
	cmd.Execute()
}
