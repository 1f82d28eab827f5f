package main

import (
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var rootFlags = struct {
	trace *string
}{}

var rootCmd = &cobra.Command{
	Use:   "ll1kit",
	Short: "Analyze a grammar for predictive (LL(1)) parsing",
	Long: `ll1kit computes FIRST sets, FOLLOW sets, and the LL(1) parsing table of a grammar.
It reports the cells claimed by more than one production, and it exports the
table in a portable JSON format.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setUpTracing,
}

func init() {
	rootFlags.trace = rootCmd.PersistentFlags().String("trace", "Error", "trace level [Debug|Info|Error]")
}

var traceKeys = []string{
	"ll1kit.grammar",
	"ll1kit.spec",
	"ll1kit.cli",
}

func setUpTracing(cmd *cobra.Command, args []string) error {
	gtrace.SyntaxTracer = gologadapter.New()
	level := tracing.TraceLevelFromString(*rootFlags.trace)
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(level)
	}
	initDisplay()
	tracer().Debugf("trace level is %v", level)
	return nil
}

// tracer traces with key 'll1kit.cli'.
func tracer() tracing.Trace {
	return tracing.Select("ll1kit.cli")
}

func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func Execute() error {
	defer runCleanUps()

	err := rootCmd.Execute()
	if err != nil {
		pterm.Error.Println(err)
		return err
	}
	return nil
}
