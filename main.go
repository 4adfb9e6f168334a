package main

import "github.com/gss/competition-registration/cmd"

func main() {
	cmd.Execute()
}
