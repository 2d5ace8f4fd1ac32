package main

import "pos2cmine/cmd"

func main() {
	cmd.Execute()
}
