package main

import (
	"github.com/axellelanca/creatorverse/cmd"
	_ "github.com/axellelanca/creatorverse/cmd/cli"
	_ "github.com/axellelanca/creatorverse/cmd/server"
)

func main() {
	cmd.Execute()
}
