package main

import "github.com/budgetchat/chat-mirror/cmd"

func main() {
	cmd.Execute()
}
