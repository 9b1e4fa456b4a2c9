// Command ventasync is the offline-first product and sale tracker CLI.
package main

import (
	"github.com/ventasync/ventasync/internal/presentation/cli/commands"
)

func main() {
	commands.Execute()
}
