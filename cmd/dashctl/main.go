package main

import "github.com/bottrapper/dashauth/cmd/dashctl/cmd"

func main() {
	cmd.Execute()
}
