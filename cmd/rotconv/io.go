package main

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/binzume/rotconv/rotation"
)

// readBatch reads a YAML or JSON batch from path, or from stdin for "" and "-".
func readBatch(path string, stdin io.Reader) (*rotation.Batch, error) {
	r := stdin
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	b := &rotation.Batch{}
	if err := yaml.NewDecoder(r).Decode(b); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

func writeBatch(w io.Writer, b *rotation.Batch) error {
	return writeYAML(w, b)
}

func argOrStdin(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return "-"
}

func writeYAML(w io.Writer, v interface{}) error {
	out, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}
