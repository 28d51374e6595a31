package main

import "github.com/zerowidth/tlmgr-complete/cmd"

func main() {
	cmd.Main()
}
