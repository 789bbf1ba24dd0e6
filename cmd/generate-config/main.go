package main

import (
	"flag"
	"os"

	"card-shoggoths-server/internal/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

// writes the default configuration as YAML, suitable as a starting config.yaml
func main() {
	out := flag.String("o", "", "write to this file instead of stdout")
	flag.Parse()

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			logrus.WithError(err).Fatal("could not create output file")
		}
		defer f.Close()
		w = f
	}

	if err := yaml.NewEncoder(w).Encode(config.DefaultConfig()); err != nil {
		logrus.WithError(err).Fatal("could not encode config")
	}
}
