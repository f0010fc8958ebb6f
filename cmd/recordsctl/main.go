package main

import (
	"github.com/joho/godotenv"

	"github.com/wardbook/records/cmd/recordsctl/command"
)

func main() {
	_ = godotenv.Load()
	command.Execute()
}
