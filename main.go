package main

import "github.com/memendex/mx/cmd"

func main() {
	cmd.Execute()
}
