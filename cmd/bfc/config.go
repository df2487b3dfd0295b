package main

import (
	"errors"
	"strings"

	"github.com/deepnoodle-ai/bfc/ast"
	"github.com/deepnoodle-ai/bfc/errz"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/viper"
)

// errTargetSize is reported for a --target-size below the language minimum.
var errTargetSize = errz.New(errz.ErrConfig, errz.E2001,
	"A target machine size of less than 30,000 is not supported by the language.")

var errNoOutput = errz.New(errz.ErrConfig, errz.E2001,
	"an output path is required (-o) unless assembly is requested with -S")

type config struct {
	Source     string
	Output     string
	TargetSize int
	Assembly   bool
	Comments   bool
	Assembler  string
	Linker     string
}

func loadConfig(source string) *config {
	return &config{
		Source:     source,
		Output:     viper.GetString("output"),
		TargetSize: viper.GetInt("target-size"),
		Assembly:   viper.GetBool("assembly"),
		Comments:   viper.GetBool("comments"),
		Assembler:  viper.GetString("assembler"),
		Linker:     viper.GetString("linker"),
	}
}

// validate reports every problem with the configuration at once, before any
// file is read.
func (c *config) validate() error {
	var result *multierror.Error
	if c.TargetSize < ast.MinCells {
		result = multierror.Append(result, errTargetSize)
	}
	if !c.Assembly && c.Output == "" {
		result = multierror.Append(result, errNoOutput)
	}
	if c.Source == "" {
		result = multierror.Append(result, errors.New("a source file is required"))
	}
	if result != nil {
		result.ErrorFormat = listFormat
	}
	return result.ErrorOrNil()
}

func listFormat(errs []error) string {
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n")
}
