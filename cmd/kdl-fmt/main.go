package main

import "os"

// main is the entry point for kdl-fmt. Build-time variables live in root.go.
func main() {
	os.Exit(Execute())
}
