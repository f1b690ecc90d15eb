package main

import "github.com/oshokin/alert-router/cmd/alert-trigger/cmd"

func main() {
	cmd.Execute()
}
