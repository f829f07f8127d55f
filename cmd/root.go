// elscore: scoring and merging of called genomic loci.
// Copyright (c) 2017-2020 imec vzw.

// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version, and Additional Terms
// (see below).

// This program is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public
// License and Additional Terms along with this program. If not, see
// <https://github.com/ExaScience/elprep/blob/master/LICENSE.txt>.

// Package cmd implements the elscore command line.
package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/exascience/elscore/utils"
)

const (
	envPrefix  = "ELSCORE"
	configName = "elscore"
)

// Configuration keys, also used as flag names.
const (
	keyConfig              = "config"
	keyVerbose             = "verbose"
	keyReference           = "reference"
	keyRNA                 = "rna"
	keyUniformDepth        = "uniform-depth"
	keyDevelopmentFeatures = "development-features"
	keyStrandBiasErrorRate = "strand-bias-error-rate"
	keyChromDepth          = "chrom-depth"
	keyPloidy              = "ploidy"
	keyPloidySampleCount   = "ploidy-sample-count"
	keyPloidySample        = "ploidy-sample"
	keyExpectedQscore      = "expected-qscore"
	keyMaxQscore           = "max-qscore"
	keyStrand              = "strand"
	keyCovered             = "covered"
)

// app holds the state shared by the commands of one invocation.
type app struct {
	config *viper.Viper
	logger *zap.Logger
}

func (a *app) readConfig(cmd *cobra.Command) error {
	v := a.config
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if file := v.GetString(keyConfig); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %v: %w", file, err)
		}
		return nil
	}
	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config file: %w", err)
		}
	}
	return nil
}

// NewRootCommand returns the elscore command with all its subcommands.
func NewRootCommand() *cobra.Command {
	a := &app{config: viper.New(), logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   utils.ProgramName,
		Short: "Score and merge called genomic loci",
		Long: `elscore merges overlapping heterozygous indel calls, filters
conflicting calls, and computes the empirical variant scoring features of
called SNV sites. It also provides the statistics of the continuous
variant caller, and checks ploidy override files.

Settings are read from command line flags, ELSCORE_ environment variables,
and an elscore.yaml file in the working or home directory.`,
		Version:       utils.ProgramVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.readConfig(cmd); err != nil {
				return err
			}
			logger, err := newLogger(a.config.GetBool(keyVerbose))
			if err != nil {
				return err
			}
			a.logger = logger
			a.logger.Debug(strings.TrimSpace(ProgramMessage), zap.String("command", cmd.Name()))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}
	root.SetVersionTemplate(ProgramMessage)

	flags := root.PersistentFlags()
	flags.String(keyConfig, "", "config file (default elscore.yaml in the working or home directory)")
	flags.BoolP(keyVerbose, "v", false, "log with development settings at debug level")

	root.AddCommand(newScoreCommand(a))
	root.AddCommand(newPloidyCommand(a))
	root.AddCommand(newQscoreCommand(a))
	root.AddCommand(newFiltersCommand())
	return root
}
