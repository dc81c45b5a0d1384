// briefd is the document intelligence server.
package main

import (
	_ "go.uber.org/automaxprocs"

	"github.com/thrust-io/briefd/internal/briefd"
)

func main() {
	briefd.NewApp().Run()
}
