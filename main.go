package main

import "github.com/inovacc/doubleblind/cmd"

func main() {
	cmd.Execute()
}
