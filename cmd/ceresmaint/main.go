package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	_ "ceresmaint/internal/plugins/nodestat"
	_ "ceresmaint/internal/plugins/removeempty"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
