package main

import "github.com/Tiliavir/floatsync/cmd"

func main() {
	cmd.Execute()
}
