package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{
		DisableColors: !term.IsTerminal(int(os.Stderr.Fd())),
		FullTimestamp: true,
	})
	if err := Execute(); err != nil {
		logrus.WithError(err).Error("lutextract failed")
		os.Exit(1)
	}
}
