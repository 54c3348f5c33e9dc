package main

import (
	"github.com/glucolog/insights/cmd/admin/command"
)

func main() {
	command.Execute()
}
