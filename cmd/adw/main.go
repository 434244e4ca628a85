// Command adw is the entry point for the autonomous developer workflow engine.
package main

import "github.com/adw-dev/adw/internal/cmd"

func main() {
	cmd.Execute()
}
