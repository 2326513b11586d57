package main

import "github.com/masmgr/revlens-go/cmd"

func main() {
	cmd.Run()
}
