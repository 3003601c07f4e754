package main

import "github.com/wzrazsh/dialogue-recorder/cmd"

func main() {
	cmd.Execute()
}
