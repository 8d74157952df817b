package main

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v2"
)

type config struct {
	Workers   int       `yaml:"workers"`
	ChunkSize int       `yaml:"chunk_size"`
	Floor     float64   `yaml:"floor"`
	Forward   []float64 `yaml:"forward"`
}

func loadConfig(path string) (*config, error) {
	conf := &config{}
	if path == "" {
		return conf, nil
	}
	r, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	if err := yaml.NewDecoder(r).Decode(conf); err != nil && err != io.EOF {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if conf.Forward != nil && len(conf.Forward) != 3 {
		return nil, fmt.Errorf("%s: forward needs 3 values, got %d", path, len(conf.Forward))
	}
	return conf, nil
}
