package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/binzume/rotconv/rotation"
)

type options struct {
	configFile string
	verbose    bool
	workers    int
	floor      float64

	config *config
}

func (o *options) addFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.configFile, "config", "", "YAML config file")
	fs.BoolVarP(&o.verbose, "verbose", "v", false, "debug logging")
	fs.IntVar(&o.workers, "workers", 0, "goroutines per operation (0: config or 1)")
	fs.Float64Var(&o.floor, "floor", 0, "divisor floor of matrix to quaternion conversion (0: config or default)")
}

// complete loads the config file and applies the flags set on the command
// line on top of it.
func (o *options) complete(fs *pflag.FlagSet) error {
	if o.verbose {
		log.SetLevel(log.DebugLevel)
	}
	conf, err := loadConfig(o.configFile)
	if err != nil {
		return err
	}
	if fs.Changed("workers") {
		conf.Workers = o.workers
	}
	if fs.Changed("floor") {
		conf.Floor = o.floor
	}
	o.config = conf
	log.WithFields(log.Fields{"workers": conf.Workers, "floor": conf.Floor}).Debug("config")
	return nil
}

func (o *options) converter() *rotation.Converter {
	return &rotation.Converter{
		Floor:     o.config.Floor,
		Workers:   o.config.Workers,
		ChunkSize: o.config.ChunkSize,
	}
}

func newRootCommand() *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:           "rotconv",
		Short:         "Convert batches of 3D rotations",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(c *cobra.Command, args []string) error {
			return o.complete(c.Flags())
		},
	}
	o.addFlags(cmd.PersistentFlags())

	cmd.AddCommand(
		newConvertCommand(o),
		newComposeCommand(o),
		newApplyCommand(o),
		newGLTFCommand(o),
		newLossCommand(o),
		newDatasetCommand(o),
		newVMDCommand(o),
		newUnityCommand(o),
	)
	return cmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
