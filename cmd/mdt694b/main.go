/*
Copyright © 2025 Optomech Instruments
*/
package main

import "github.com/optomech/go-mdt694b/cmd"

func main() {
	cmd.Execute()
}
