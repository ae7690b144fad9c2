package main

import (
	"os"

	"github.com/SC0R9I0N/qr-class-manager/internal/cli"

	"github.com/sirupsen/logrus"
)

func main() {
	if err := cli.NewApp().Run(os.Args); err != nil {
		logrus.Fatal(err)
	}
}
