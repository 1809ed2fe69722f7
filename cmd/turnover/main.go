package main

import "github.com/example/turnover-report/cmd"

func main() {
	cmd.Execute()
}
