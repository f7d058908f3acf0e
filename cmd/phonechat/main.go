package main

import "github.com/diogo/phonechat/internal/commands"

func main() {
	commands.Execute()
}
