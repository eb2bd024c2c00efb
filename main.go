package main

import "base-janitor/cmd"

func main() {
	cmd.Execute()
}
