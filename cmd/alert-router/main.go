package main

import "github.com/oshokin/alert-router/cmd/alert-router/cmd"

func main() {
	cmd.Execute()
}
