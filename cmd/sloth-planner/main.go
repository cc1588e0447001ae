package main

import (
	"os"

	"github.com/TanoojVardhan/sloth-planner/plannerservice"
)

func main() {
	if err := plannerservice.Run(); err != nil {
		os.Exit(1)
	}
}
