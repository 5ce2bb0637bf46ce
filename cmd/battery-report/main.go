package main

import (
	"os"

	batteryreport "github.com/TheCacophonyProject/battery-reporter/internal/battery-report"
	"github.com/TheCacophonyProject/battery-reporter/internal/logging"
)

var version = "<not set>"

func main() {
	log := logging.NewLogger("info")
	if err := batteryreport.Run(os.Args[1:], version); err != nil {
		log.Fatal(err)
	}
}
