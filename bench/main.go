// 压测入口：bench <algorithm> <length>，对固定种子的向量对计时并追加写入 TSV 日志
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ic-timon/simbench/bench/harness"
	"github.com/ic-timon/simbench/bench/logging"
	"github.com/ic-timon/simbench/simd"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(harness.ExitCode(err))
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bench <algorithm> <length>",
		Short: "Cosine similarity kernel benchmark",
		Long: fmt.Sprintf(`Runs the chosen kernel over two random float32 vectors of the given length,
prints timing statistics and appends one record to the log file.

Algorithms (case-insensitive): %s
Length accepts a k, m or g suffix, e.g. 12k or 256M.`, strings.Join(harness.AlgorithmNames(), ", ")),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runBench,
	}
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "YAML or TOML config file")
	pf.String("log-level", "", "diagnostic log level: debug, info, warn, error")
	pf.String("log-format", "", "diagnostic log format: console or json")

	f := rootCmd.Flags()
	f.Int("iterations", 0, "timed runs (default 1024)")
	f.String("log-file", "", "TSV record log (default benchmark-log.tsv)")
	f.Int("workers", 0, "parallel workers (default: number of CPUs)")
	f.String("executor", "", "parallel executor: goroutine, resident or ants")
	f.Bool("strict", false, "fail when the input has fewer blocks than workers")
	f.Bool("offheap", false, "generate the vectors outside the Go heap (needs cgo)")
	f.String("vectors", "", "read the vector pair from a file written by 'bench gen'")

	genCmd := &cobra.Command{
		Use:   "gen <length> <path>",
		Short: "Write a seeded random vector pair file",
		Args:  cobra.ExactArgs(2),
		RunE:  runGen,
	}
	genCmd.Flags().Uint32("seed1", 1, "seed of the first vector")
	genCmd.Flags().Uint32("seed2", 2, "seed of the second vector")
	rootCmd.AddCommand(genCmd)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "report [log.tsv]",
		Short: "Summarize the benchmark log per algorithm and length",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runReport,
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version and kernel information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "simbench v%s (%s) kernels=%s mask=%s workers=%d\n",
				version, commit, simd.ImplDesc(), simd.MaskStrategy(), simd.WorkerCount())
		},
	})
	return rootCmd
}

// loadConfig 合并配置：默认值 < 配置文件 < SIMBENCH_* 环境变量 < 显式指定的 flag
func loadConfig(cmd *cobra.Command) (*harness.Config, error) {
	cfg := harness.DefaultConfig()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		var err error
		if cfg, err = harness.LoadConfig(path); err != nil {
			return nil, err
		}
	}
	cfg.ApplyEnv()

	flags := cmd.Flags()
	if flags.Changed("iterations") {
		cfg.Iterations, _ = flags.GetInt("iterations")
	}
	if flags.Changed("log-file") {
		cfg.LogFile, _ = flags.GetString("log-file")
	}
	if flags.Changed("workers") {
		cfg.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("executor") {
		cfg.Executor, _ = flags.GetString("executor")
	}
	if flags.Changed("strict") {
		cfg.Strict, _ = flags.GetBool("strict")
	}
	if flags.Changed("offheap") {
		cfg.Offheap, _ = flags.GetBool("offheap")
	}
	if flags.Changed("vectors") {
		cfg.Vectors, _ = flags.GetString("vectors")
	}
	if flags.Changed("log-level") {
		cfg.Log.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-format") {
		cfg.Log.Format, _ = flags.GetString("log-format")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command) (*harness.Config, *zap.Logger, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func runBench(cmd *cobra.Command, args []string) error {
	if len(args) != 2 {
		fmt.Fprintln(cmd.ErrOrStderr(), cmd.UseLine())
		return &harness.ExitError{Code: harness.ExitUsage, Err: harness.ErrUsage}
	}
	cfg, logger, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	r := harness.NewRunner(cfg, logger)
	r.Stdout = cmd.OutOrStdout()
	_, err = r.Run(cmd.Context(), args)
	return err
}

func runGen(cmd *cobra.Command, args []string) error {
	length, err := harness.ParseLength(args[0])
	if err != nil {
		return &harness.ExitError{Code: harness.ExitLength, Err: err}
	}
	seed1, _ := cmd.Flags().GetUint32("seed1")
	seed2, _ := cmd.Flags().GetUint32("seed2")
	if err := harness.Generate(args[1], length, seed1, seed2); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote 2 vectors of %d floats to %s\n", length, args[1])
	return nil
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, logger, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	path := cfg.LogFile
	if len(args) == 1 {
		path = args[0]
	}
	return harness.SummarizeFile(cmd.OutOrStdout(), path, logger)
}
