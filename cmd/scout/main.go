package main

import (
	"os"

	"fernweh.fit/scout/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:]))
}
