// Command chefling demonstrates the dependency resolution engine on a small
// kitchen object graph.
package main

import (
	"context"
	"os"
)

func main() {
	if err := execute(context.Background()); err != nil {
		os.Exit(1)
	}
}
