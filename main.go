package main

import "github.com/KaramelBytes/sodash/cmd"

func main() {
	cmd.Execute()
}
