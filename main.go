package main

import "github.com/sheenazien8/lazydb/cmd"

func main() {
	cmd.Execute()
}
