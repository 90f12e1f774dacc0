package main

import (
	"github.com/Travisun/hexo-goose-builder/cmd"
)

func main() {
	cmd.Execute()
}
