package main

import "github.com/CosmoTheDev/repolens/cmd"

func main() {
	cmd.Execute()
}
