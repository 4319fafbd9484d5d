package main

import "github.com/Alijeyrad/officehours_backend/cmd"

func main() {
	cmd.Execute()
}
