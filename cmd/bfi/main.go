package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/deepnoodle-ai/bfc"
	"github.com/deepnoodle-ai/bfc/ast"
	"github.com/deepnoodle-ai/bfc/errz"
	"github.com/deepnoodle-ai/bfc/vm"
	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	cfgFile string
)

var errTargetSize = errz.New(errz.ErrConfig, errz.E2001,
	"A target machine size of less than 30,000 is not supported by the language.")

var rootCmd = &cobra.Command{
	Use:   "bfi [source]",
	Short: "Interpret tape-language programs",
	Long: `bfi runs a program written with the eight tape symbols.

With no source file the program is read from standard input up to the first
'!'. Whatever follows the '!' is the program's input.`,
	Version:       version,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runCmd,
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.Flags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.bfc.yaml)")
	flags.BoolP("verbose", "v", false, "Enable debug logging")
	flags.Bool("no-color", false, "Disable colored output")
	flags.Int("target-size", ast.MinCells, "Number of cells on the tape")
	flags.Bool("trace", false, "Log every executed step")
	flags.Int64("max-steps", 0, "Halt after this many steps (0 means no limit)")
	for _, name := range []string{"verbose", "no-color", "target-size", "trace", "max-steps"} {
		viper.BindPFlag(name, flags.Lookup(name))
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if home, err := homedir.Dir(); err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigName(".bfc")
		viper.SetConfigType("yaml")
	}
	viper.SetEnvPrefix("bfi")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fatal(fmt.Errorf("reading config: %w", err))
		}
	}
	processGlobalFlags()
}

func runCmd(cmd *cobra.Command, args []string) error {
	cells := viper.GetInt("target-size")
	if cells < ast.MinCells {
		return errTargetSize
	}

	stdin := bufio.NewReader(os.Stdin)
	var source, filename string
	if len(args) > 0 {
		filename = args[0]
		data, err := os.ReadFile(filename)
		if err != nil {
			return err
		}
		source = string(data)
	} else {
		if isTerminal(os.Stdin) {
			fmt.Fprintln(os.Stderr, "Enter the program, then '!' and its input:")
		}
		var err error
		if source, err = readSource(stdin); err != nil {
			return err
		}
	}

	opts := []bfc.Option{
		bfc.WithCells(cells),
		bfc.WithInput(stdin),
		bfc.WithOutput(os.Stdout),
	}
	if filename != "" {
		opts = append(opts, bfc.WithFilename(filename))
	}
	if maxSteps := viper.GetInt64("max-steps"); viper.GetBool("trace") || maxSteps > 0 {
		observer := vm.NewTraceObserver(log.Logger)
		observer.MaxSteps = maxSteps
		opts = append(opts, bfc.WithObserver(observer))
	}
	return bfc.Eval(cmd.Context(), source, opts...)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fatal(err)
	}
}
