package main

import "github.com/naka-gawa/recent-contributors/cmd"

func main() {
	cmd.Execute()
}
