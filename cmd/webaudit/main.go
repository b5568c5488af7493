package main

import "github.com/codelens/webaudit/cmd/webaudit/cmd"

func main() {
	cmd.Execute()
}
