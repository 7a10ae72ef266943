package main

import (
	"github.com/elie222/inbox-zero-sub003/cmd"
)

// version will be set by goreleaser during build
var version = "dev"

func main() {
	cmd.SetVersion(version)
	cmd.Execute()
}
