package main

import (
	"log"

	"eventrest/cmd"

	_ "eventrest/migrations"
)

func main() {
	if err := cmd.Start(); err != nil {
		log.Fatal(err)
	}
}
