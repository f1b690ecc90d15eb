package main

import "github.com/oshokin/alert-router/cmd/alert-status/cmd"

func main() {
	cmd.Execute()
}
