package main

import "github.com/structforge/winmdgen/cmd"

func main() {
	cmd.Execute()
}
