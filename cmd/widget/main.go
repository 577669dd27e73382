// Command widget replays scripted widget sessions against a page.
//
//	widget replay scenario.yaml
//	widget replay --pretty --verbose scenario.yaml
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
