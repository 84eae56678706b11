// Package main provides the entry point for the preinstall CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/Aman-CERP/preinstall/cmd/preinstall/cmd"
	perrors "github.com/Aman-CERP/preinstall/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		// Failed checks have already printed their own messages.
		if !errors.Is(err, cmd.ErrChecksFailed) {
			fmt.Fprint(os.Stderr, perrors.FormatForCLI(err))
		}
		os.Exit(1)
	}
}
