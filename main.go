package main

import (
	"os"

	"github.com/va6996/tickerdesk/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
