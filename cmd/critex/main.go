package main

import "github.com/MeKo-Tech/critex/cmd/critex/cmd"

func main() {
	cmd.Execute()
}
