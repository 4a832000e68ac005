package main

import "github.com/vibast-solutions/ms-go-redsys/cmd"

func main() {
	cmd.Execute()
}
