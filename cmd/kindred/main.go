// Command kindred serves and queries a family tree's relationship graph.
package main

import (
	"os"

	"github.com/scrypster/kindred/pkg/logger"
)

func main() {
	err := newRootCmd().Execute()
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}
