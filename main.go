package main

import "github.com/iksnae/smartnotes/cmd"

func main() {
	cmd.Execute()
}
