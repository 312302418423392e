package main

import "freshcart/cmd/client/cmd"

func main() {
	cmd.Execute()
}
