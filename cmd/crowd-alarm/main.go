package main

import "github.com/oshokin/crowd-alarm/cmd/crowd-alarm/cmd"

func main() {
	cmd.Execute()
}
