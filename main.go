package main

import "github.com/khanhnv2901/webcomply/cmd"

var execCmd = cmd.Execute

func main() {
	execCmd()
}
