// Package cmd holds the colfmt command line: a cobra root command with one
// subcommand per registered constructor, configured from flags, COLFMT_
// environment variables and an optional YAML config file.
package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/bjaus/colfmt/internal/logger"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	// Version of this software, filled in by ldflags.
	Version string
	// BuildTime of this software, filled in by ldflags.
	BuildTime string
)

const envPrefix = "COLFMT"

func setupVersionBuild() {
	if Version == "" {
		Version = "v0.0.0"
	}
	if BuildTime == "" {
		BuildTime = "not recorded"
	}
}

var subcommandFns = map[string]func(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command{}

// NewRootCommand creates the top level command with every registered
// subcommand.
func NewRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	setupVersionBuild()
	var (
		configFile string
		logLevel   string
	)
	rc := &cobra.Command{
		Use:   "colfmt",
		Short: "colfmt - catalog driven report formatting",
		Long: `Formats rows from CSV, JSON or SQL sources through the formatters named by a
catalog perspective and renders them as csv, html, json, tables and more.

Version: ` + Version + `
Build Time: ` + BuildTime + "\n",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			if err := setAllConfig(v, cmd.Flags(), envPrefix); err != nil {
				return err
			}
			level, err := logger.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logger.Init(level)
			logrus.SetOutput(stderr)
			return nil
		},
	}
	flags := rc.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "YAML configuration file")
	flags.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	for _, subcomFn := range subcommandFns {
		rc.AddCommand(subcomFn(stdin, stdout, stderr))
	}
	rc.SetIn(stdin)
	rc.SetOut(stdout)
	rc.SetErr(stderr)
	return rc
}

// setAllConfig takes a FlagSet to be the definition of all configuration
// options, as well as their defaults. It then reads from the command line, the
// environment, and a config file (if specified), and applies the configuration
// in that priority order. Each flag holds a pointer to its value, so
// setAllConfig modifies the configuration variables directly.
//
// Environment variables are the flag names upper cased with dashes replaced
// by underscores, prefixed with envPrefix and an underscore.
func setAllConfig(v *viper.Viper, flags *pflag.FlagSet, envPrefix string) error {
	if err := v.BindPFlags(flags); err != nil {
		return err
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if c := v.GetString("config"); c != "" {
		v.SetConfigFile(c)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("error reading configuration file '%s': %w", c, err)
		}
	}

	var flagErr error
	flags.VisitAll(func(f *pflag.Flag) {
		if flagErr != nil || f.Changed {
			// A flag set on the command line wins. Setting it again would
			// append to slice values instead of replacing them.
			return
		}
		var value string
		if f.Value.Type() == "stringSlice" {
			// v.GetString is empty for a real slice from a config file.
			value = strings.Join(v.GetStringSlice(f.Name), ",")
		} else {
			value = v.GetString(f.Name)
		}
		flagErr = f.Value.Set(value)
	})
	return flagErr
}
