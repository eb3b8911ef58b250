package main

import "github.com/iksnae/webex-summarizer/cmd"

func main() {
	cmd.Execute()
}
