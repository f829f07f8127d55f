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

package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/exascience/elscore/utils"
)

// ProgramMessage is printed by the version flag.
var ProgramMessage = fmt.Sprint(
	utils.ProgramName, " version ", utils.ProgramVersion,
	" compiled with ", runtime.Version(),
	" - see ", utils.ProgramURL, " for more information.\n",
)

func checkExist(parameter, filename string) error {
	if len(filename) == 0 {
		return fmt.Errorf("missing filename for command line parameter %v", parameter)
	}
	if filename == "-" {
		return nil
	}
	if filename[0] == '-' {
		return fmt.Errorf("missing filename before %v for command line parameter %v", filename, parameter)
	}
	if _, err := os.Stat(filename); err == nil {
		return nil
	} else if os.IsNotExist(err) {
		return fmt.Errorf("file %v does not exist for command line parameter %v", filename, parameter)
	} else if os.IsPermission(err) {
		return fmt.Errorf("no permission to read file %v for command line parameter %v", filename, parameter)
	} else {
		return fmt.Errorf("error %v when trying to access file %v for command line parameter %v", err, filename, parameter)
	}
}

// newLogger returns a production logger, or a development logger in
// verbose mode. Every entry carries a run identifier.
func newLogger(verbose bool) (*zap.Logger, error) {
	var logger *zap.Logger
	var err error
	if verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String("run", uuid.NewString())), nil
}
