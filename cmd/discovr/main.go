package main

import (
	"os"

	"horse.fit/discovr/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:]))
}
