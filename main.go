package main

import "github.com/matchday/courtside/cmd"

func main() {
	cmd.Execute()
}
