package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/deepnoodle-ai/bfc"
	"github.com/deepnoodle-ai/bfc/ast"
	"github.com/deepnoodle-ai/bfc/op"
	"github.com/deepnoodle-ai/bfc/toolchain"
	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "bfc <source>",
	Short: "Compile tape-language programs to native executables",
	Long: `bfc translates a program written with the eight tape symbols into x86-64
assembly and, unless -S is given, assembles and links it with the system
"as" and "ld" into a standalone Linux executable.

Every character other than the eight symbols is commentary and ignored.`,
	Version:       version,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          compileCmd,
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.Long += "\n\nSymbols:\n" + symbolHelp()

	pflags := rootCmd.PersistentFlags()
	pflags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.bfc.yaml)")
	pflags.BoolP("verbose", "v", false, "Log each build step")
	pflags.Bool("no-color", false, "Disable colored output")
	pflags.Int("target-size", ast.MinCells, "Number of cells on the target tape")
	viper.BindPFlag("verbose", pflags.Lookup("verbose"))
	viper.BindPFlag("no-color", pflags.Lookup("no-color"))
	viper.BindPFlag("target-size", pflags.Lookup("target-size"))

	flags := rootCmd.Flags()
	flags.StringP("output", "o", "", "Path of the executable (or assembly with -S)")
	flags.BoolP("assembly", "S", false, "Emit assembly instead of an executable")
	flags.Bool("comments", false, "Annotate assembly with the source of each group")
	flags.String("assembler", toolchain.DefaultAssembler, "Assembler to invoke")
	flags.String("linker", toolchain.DefaultLinker, "Linker to invoke")
	viper.BindPFlag("output", flags.Lookup("output"))
	viper.BindPFlag("assembly", flags.Lookup("assembly"))
	viper.BindPFlag("comments", flags.Lookup("comments"))
	viper.BindPFlag("assembler", flags.Lookup("assembler"))
	viper.BindPFlag("linker", flags.Lookup("linker"))

	rootCmd.AddCommand(disCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if home, err := homedir.Dir(); err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigName(".bfc")
		viper.SetConfigType("yaml")
	}
	viper.SetEnvPrefix("bfc")
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

func compileCmd(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(args[0])
	if err := cfg.validate(); err != nil {
		return err
	}
	data, err := os.ReadFile(cfg.Source)
	if err != nil {
		return err
	}
	asm, err := bfc.Compile(string(data),
		bfc.WithCells(cfg.TargetSize),
		bfc.WithFilename(cfg.Source),
		bfc.WithComments(cfg.Comments),
	)
	if err != nil {
		return err
	}
	if cfg.Assembly {
		return writeAssembly(cfg.Output, asm)
	}
	tc, err := toolchain.Find(
		toolchain.WithAssembler(cfg.Assembler),
		toolchain.WithLinker(cfg.Linker),
	)
	if err != nil {
		return err
	}
	log.Debug().
		Str("source", cfg.Source).
		Str("output", cfg.Output).
		Int("cells", cfg.TargetSize).
		Str("assembler", tc.Assembler()).
		Str("linker", tc.Linker()).
		Msg("building")
	return tc.Build(cmd.Context(), asm, cfg.Output)
}

// symbolHelp lists the program symbols, one per line.
func symbolHelp() string {
	var b strings.Builder
	for _, code := range op.All() {
		fmt.Fprintf(&b, "  %c  %s\n", code.Symbol(), code)
	}
	return b.String()
}

func writeAssembly(path, asm string) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.WriteString(asm)
		return err
	}
	return os.WriteFile(path, []byte(asm), 0o644)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fatal(err)
	}
}
