package main

import (
	"github.com/glucolog/insights/api"
)

func main() {
	api.MainLoop()
}
