package main

import "github.com/iksnae/devbook/cmd"

func main() {
	cmd.Execute()
}
