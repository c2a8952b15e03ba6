package main

import (
	"context"
	goflag "flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "hornevo",
		Short:         "Evolve horn antenna designs with NSGA-II",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	klogFlags := goflag.NewFlagSet("klog", goflag.ContinueOnError)
	klog.InitFlags(klogFlags)
	cmd.PersistentFlags().AddGoFlagSet(klogFlags)

	cmd.AddCommand(newRunCommand(), newValidateCommand())
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	ctx = klog.NewContext(ctx, klog.Background())

	err := newRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		klog.ErrorS(err, "hornevo failed")
		klog.Flush()
		os.Exit(1)
	}
	klog.Flush()
}
