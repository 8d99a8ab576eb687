package main

import "github.com/samhoang/capable/cmd"

func main() {
	cmd.Execute()
}
