package main

import "github.com/theirongolddev/msj/cmd"

func main() {
	cmd.Execute()
}
