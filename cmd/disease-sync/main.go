package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"disease-sync/internal/pipeline"
	"disease-sync/pkg/config"
	"disease-sync/pkg/json"
	"disease-sync/pkg/logger"
	"disease-sync/pkg/metrics"
	"disease-sync/pkg/sqlconn"
)

var version = "2.1.0"

func main() {
	_ = godotenv.Load() // optional .env for local runs
	os.Exit(runCLI(os.Args[1:], os.Stderr))
}

// runCLI executes one invocation and returns the process exit code. Failures
// raised before any command runs, such as an unknown subcommand or a bad
// flag, print the failing command's usage to stderr along with the error;
// failures from a running command print the error alone.
func runCLI(args []string, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)

	dispatched := false
	root.PersistentPreRun = func(*cobra.Command, []string) { dispatched = true }

	cmd, err := root.ExecuteC()
	if err == nil {
		return 0
	}

	fmt.Fprintln(stderr, err)
	if !dispatched {
		fmt.Fprint(stderr, cmd.UsageString())
	}
	return 1
}

// newRootCmd builds the command tree. The bare root runs a full sync.
func newRootCmd() *cobra.Command {
	var jsonOut bool

	root := &cobra.Command{
		Use:   "disease-sync",
		Short: "disease-sync - HOSxP visit data sync into the AI training table",
		Long: `disease-sync moves clinical visit data from the operational HOSxP database
into the denormalized ai_disease_training_data table used for model training.

Run without a subcommand for a full reload. The incremental subcommand upserts
recent visits, and health, preview and verify are read-only diagnostics.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(pipeline.Request{Mode: pipeline.ModeFull}, false)
		},
	}

	// Version command
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("disease-sync v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "incremental [hours]",
		Short: "Upsert visits from a trailing window (default 24 hours)",
		Long: `Upsert visits whose date falls inside the trailing window of the given
hours. Existing rows refresh their symptoms, disease name, medicines and age;
hn, vn, sex and visit_date keep their stored values.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hours := 24
			if len(args) == 1 {
				parsed, err := strconv.Atoi(args[0])
				if err != nil || parsed <= 0 {
					fmt.Fprintf(os.Stderr, "invalid window %q, using 24 hours\n", args[0])
				} else {
					hours = parsed
				}
			}
			return run(pipeline.Request{Mode: pipeline.ModeIncremental, WindowHours: hours}, false)
		},
	})

	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Report row counts for every involved table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(pipeline.Request{Mode: pipeline.ModeHealthCheck}, jsonOut)
		},
	}

	previewCmd := &cobra.Command{
		Use:   "preview",
		Short: "Display the top 10 transformed rows without persisting",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(pipeline.Request{Mode: pipeline.ModePreview}, jsonOut)
		},
	}

	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Report aggregate quality metrics of the training table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(pipeline.Request{Mode: pipeline.ModeVerify}, jsonOut)
		},
	}

	for _, cmd := range []*cobra.Command{healthCmd, previewCmd, verifyCmd} {
		cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the report as JSON instead of text")
		root.AddCommand(cmd)
	}

	return root
}

// run wires the pools and services for one request and renders its outcome.
func run(req pipeline.Request, jsonOut bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := logger.Init(logger.DefaultConfig(cfg.LogLevel)); err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	log := logger.With(
		zap.String("component", "disease-sync-cli"),
		zap.String("mode", req.Mode.String()))

	monitor := metrics.NewMonitor(req.Mode.String())
	logStartup(log, cfg)
	monitor.Checkpoint("configuration loaded")

	ctx := context.Background()

	source, err := sqlconn.Open(ctx, "source", cfg.Source.DSN(cfg.SourceDatabase, cfg.Pool), cfg.Pool)
	if err != nil {
		log.Error("source pool failed", zap.Error(err))
		return err
	}
	defer func() { _ = source.Close() }()
	monitor.Checkpoint("source pool created")

	dest, err := sqlconn.Open(ctx, "destination", cfg.Dest.DSN(cfg.DestDatabase, cfg.Pool), cfg.Pool)
	if err != nil {
		log.Error("destination pool failed", zap.Error(err))
		return err
	}
	defer func() { _ = dest.Close() }()
	monitor.Checkpoint("destination pool created")

	qb := pipeline.NewQueryBuilder(cfg.SourceDatabase, cfg.DestDatabase)
	orch := pipeline.NewOrchestrator(pipeline.Deps{
		Source:  source,
		Dest:    dest,
		Schema:  pipeline.NewSchemaManager(dest, qb, log),
		Engine:  pipeline.NewEngine(source, dest, qb, cfg.RowLimit, log),
		Health:  pipeline.NewHealthChecker(source, dest, qb, log),
		Verify:  pipeline.NewVerifier(dest, qb, log),
		Monitor: monitor,
		Logger:  log,
	})

	out, err := orch.Run(ctx, req)
	if err != nil {
		log.Error("run failed", zap.Error(err))
		return err
	}

	return render(out, jsonOut)
}

// logStartup records the banner the operators grep for in the run logs.
func logStartup(log *zap.Logger, cfg *config.Config) {
	cores, err := cpu.Counts(true)
	if err != nil || cores <= 0 {
		cores = runtime.NumCPU()
	}

	fields := []zap.Field{
		zap.String("version", version),
		zap.Int("cpu_cores", cores),
		zap.Int("workers", cfg.MaxWorkers),
		zap.String("source", cfg.Source.Redacted(cfg.SourceDatabase)),
		zap.String("destination", cfg.Dest.Redacted(cfg.DestDatabase)),
		zap.Int("batch_size", cfg.BatchSize),
		zap.Int("row_limit", cfg.RowLimit),
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		fields = append(fields, zap.Uint64("memory_total_mb", vm.Total/1024/1024))
	}

	log.Info("ai disease training data sync starting", fields...)
}

// render prints whichever report the mode produced; mutating modes report
// through the run logs alone.
func render(out pipeline.Outcome, jsonOut bool) error {
	switch out.Mode {
	case pipeline.ModeHealthCheck:
		if out.Health == nil {
			return nil
		}
		return emit(*out.Health, pipeline.RenderHealth(*out.Health), jsonOut)
	case pipeline.ModeVerify:
		if out.Verify == nil {
			return nil
		}
		return emit(*out.Verify, pipeline.RenderVerify(*out.Verify), jsonOut)
	case pipeline.ModePreview:
		records := out.Preview
		if records == nil {
			records = []pipeline.Record{}
		}
		return emit(records, pipeline.RenderPreview(records), jsonOut)
	default:
		return nil
	}
}

func emit(v interface{}, text string, jsonOut bool) error {
	if !jsonOut {
		fmt.Print(text)
		return nil
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
