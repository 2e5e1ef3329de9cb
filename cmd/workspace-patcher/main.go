package main

import "github.com/oshokin/workspace-patcher/cmd/workspace-patcher/cmd"

func main() {
	cmd.Execute()
}
