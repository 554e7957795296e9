package main

import "github.com/bhavya-srm/swisstraffic-buddy/cmd"

func main() {
	cmd.Execute()
}
