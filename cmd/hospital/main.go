package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/wardbook/records/api"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using the environment")
	}

	api.MainLoop()
}
