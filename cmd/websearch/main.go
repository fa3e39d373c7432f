package main

import (
	"github.com/bornholm/websearch/internal/command"
	"github.com/bornholm/websearch/internal/command/ask"
	"github.com/bornholm/websearch/internal/command/history"
	"github.com/bornholm/websearch/internal/command/search"
)

var version = "dev"

func main() {
	command.Main(
		"websearch",
		version,
		"Search the web through a fallback chain of providers",
		search.Search(),
		ask.Ask(),
		history.History(),
	)
}
