// Package cli is the blag command tree.
package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

type ExitCode int

const (
	exitCodeSuccess = 0
	exitCodeError   = 1
)

// streams are the process streams a command reads from and writes to.
type streams struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

// Run executes the command line of the current process.
func Run() ExitCode {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return Execute(ctx, os.Args[1:], streams{in: os.Stdin, out: os.Stdout, err: os.Stderr})
}

// Execute runs args against a fresh command tree.
func Execute(ctx context.Context, args []string, s streams) ExitCode {
	rootCmd := NewRootCmd(s)
	rootCmd.SetArgs(args)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		return exitCodeError
	}
	return exitCodeSuccess
}

// NewRootCmd builds the blag command: address and ASN queries, plus the serve subcommand.
func NewRootCmd(s streams) *cobra.Command {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:   "blag [flags] [address|asn ...]",
		Short: "Describes one or more IP addresses from a BLAG blocklist snapshot.",
		Example: "  blag --fetch\n" +
			"  blag 1.1.1.1\n" +
			"  blag -a -F ASN:13335\n" +
			"  blag -A 10 -T ASN:13335\n" +
			"  blag -I hosts.fsdb -k addr",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, opts, args, s)
		},
	}
	rootCmd.SetIn(s.in)
	rootCmd.SetOut(s.out)
	rootCmd.SetErr(s.err)

	opts.registerGlobal(rootCmd)
	opts.registerQuery(rootCmd)

	rootCmd.AddCommand(newServeCmd(opts, s))
	return rootCmd
}
