package main

import "github.com/oss-insights/issue-report/cmd"

func main() {
	cmd.Execute()
}
