package main

import (
	"github.com/robotalks/rtecom/pkg/cli/sh"
	"github.com/robotalks/rtecom/pkg/env"

	_ "github.com/robotalks/rtecom/pkg/cli/cmds/rtecom"
)

//go-build: CGO_ENABLED=0

func init() {
	env.SetupFlags()
}

func main() {
	sh.Main()
}
