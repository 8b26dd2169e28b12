package main

import "github.com/edutools/edutools/cmd"

func main() {
	cmd.Execute()
}
