package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/goccy/go-json"
	"github.com/schollz/progressbar/v3"

	"github.com/chinazagideon/mock-generator/internal/app"
	"github.com/chinazagideon/mock-generator/internal/format"
	"github.com/chinazagideon/mock-generator/internal/generator"
	"github.com/chinazagideon/mock-generator/internal/presets"
	"github.com/chinazagideon/mock-generator/internal/record"
	"github.com/chinazagideon/mock-generator/internal/schema"
	"github.com/chinazagideon/mock-generator/internal/service"
)

const usage = `Usage: mockgen <command> [flags]

Commands:
  generate      generate a dataset from a schema file or preset
  presets       list built-in presets
  generators    list generator tags
  jobs          manage saved jobs (add | list | run | logs | rm)
  connections   manage saved sink connections (add | list | test | rm)
  serve         run scheduled and file-watched jobs until interrupted
  mcp           serve the MCP protocol on stdin/stdout
  version       print the version
`

func main() {
	log.SetFlags(log.LstdFlags)
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "generate":
		err = runGenerate(args)
	case "presets":
		err = runPresets()
	case "generators":
		err = runGenerators()
	case "jobs":
		err = withApp(func(a *app.App) error { return runJobs(ctx, a, args) })
	case "connections":
		err = withApp(func(a *app.App) error { return runConnections(ctx, a, args) })
	case "serve":
		err = withApp(func(a *app.App) error { return a.Serve(ctx) })
	case "mcp":
		err = withApp(func(a *app.App) error { return a.ServeMCP(ctx) })
	case "version":
		fmt.Println(app.Version)
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func withApp(fn func(a *app.App) error) error {
	a, err := app.Open(app.DefaultConfig())
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

// seedFlag is an optional int64 flag; unset means an unseeded run.
type seedFlag struct{ v *int64 }

func (f *seedFlag) String() string {
	if f.v == nil {
		return ""
	}
	return strconv.FormatInt(*f.v, 10)
}

func (f *seedFlag) Set(s string) error {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("seed must be an integer: %w", err)
	}
	f.v = &v
	return nil
}

// ── generate ───────────────────────────────────────────────

func runGenerate(args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	schemaPath := fs.String("schema", "", "schema file (YAML or JSON)")
	presetName := fs.String("preset", "", "built-in preset instead of -schema")
	count := fs.Int("count", -1, "number of records (default: preset count, else 10)")
	var seed seedFlag
	fs.Var(&seed, "seed", "seed for reproducible output")
	formatName := fs.String("format", "", "json, csv, js or ts (default: preset format, else json)")
	output := fs.String("o", "", "output file (default: stdout)")
	extra := fs.String("extra", "", "JSON object merged into every record")
	progress := fs.Bool("progress", false, "show a progress bar on stderr")
	fs.Parse(args)

	var sc schema.Schema
	opts := generator.Options{Seed: seed.v, Format: format.Format(*formatName), OutputPath: *output}
	n := 10
	switch {
	case *presetName != "":
		p, err := presets.Get(*presetName)
		if err != nil {
			return err
		}
		sc, n = p.Schema, p.Count
		if opts.Seed == nil {
			opts.Seed = p.Seed
		}
		if opts.Format == "" {
			opts.Format = p.Format
		}
	case *schemaPath != "":
		var err error
		if sc, err = schema.LoadFile(*schemaPath); err != nil {
			return err
		}
	default:
		return errors.New("one of -schema or -preset is required")
	}
	if *count >= 0 {
		n = *count
	}
	opts.Format = format.Normalize(opts.Format)

	if *extra != "" {
		rec, err := record.Parse([]byte(*extra))
		if err != nil {
			return fmt.Errorf("parse -extra: %w", err)
		}
		opts.AdditionalData = rec
	}

	if *progress {
		bar := progressbar.NewOptions(n,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("generating"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		opts.Progress = func(done, _ int) { _ = bar.Set(done) }
		defer bar.Finish()
	}

	if opts.OutputPath == "" {
		ds, err := generator.Build(n, sc, opts)
		if err != nil {
			return err
		}
		out, err := format.Serialize(ds, opts.Format)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(append(out, '\n'))
		return err
	}

	ds, err := generator.GenerateData(n, sc, opts)
	if err != nil {
		return err
	}
	size := ""
	if info, err := os.Stat(opts.OutputPath); err == nil {
		size = " (" + humanize.Bytes(uint64(info.Size())) + ")"
	}
	fmt.Fprintf(os.Stderr, "Wrote %s records to %s%s\n", humanize.Comma(int64(len(ds))), opts.OutputPath, size)
	return nil
}

// ── catalogue ──────────────────────────────────────────────

func runPresets() error {
	all, err := presets.All()
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCOUNT\tFORMAT\tDESCRIPTION")
	for _, p := range all {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", p.Name, p.Count, p.Format, p.Description)
	}
	return w.Flush()
}

func runGenerators() error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TAG\tPARAMS\tDESCRIPTION")
	for _, d := range generator.List() {
		params := ""
		if d.Parameterized {
			params = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", d.Kind, params, d.Description)
	}
	return w.Flush()
}

// ── jobs ───────────────────────────────────────────────────

func runJobs(ctx context.Context, a *app.App, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: mockgen jobs add|list|run|logs|rm")
	}
	svc := a.Generation
	switch sub, rest := args[0], args[1:]; sub {
	case "add":
		fs := flag.NewFlagSet("jobs add", flag.ExitOnError)
		name := fs.String("name", "", "unique job name")
		schemaPath := fs.String("schema", "", "schema file, re-read on every run")
		presetName := fs.String("preset", "", "built-in preset instead of -schema")
		count := fs.Int("count", 0, "records per run (default: preset count)")
		var seed seedFlag
		fs.Var(&seed, "seed", "seed for reproducible runs")
		sinkType := fs.String("sink", "file", "sink type")
		sinkCfg := fs.String("sink-config", "", "sink configuration as a JSON object")
		target := fs.String("target", "", "file path, table, collection or bucket")
		mode := fs.String("mode", "", "append (default) or replace")
		trigger := fs.String("trigger", "manual", "manual, schedule or file_watch")
		triggerCfg := fs.String("trigger-config", "", "cron expression or watched path")
		extra := fs.String("extra", "", "JSON object merged into every record")
		disabled := fs.Bool("disabled", false, "save without scheduling")
		fs.Parse(rest)

		input := service.CreateJobInput{
			Name: *name, SchemaPath: *schemaPath, Preset: *presetName, Count: *count, Seed: seed.v,
			SinkType: *sinkType, Target: *target, WriteMode: *mode,
			TriggerType: *trigger, TriggerConfig: *triggerCfg, Enabled: !*disabled,
		}
		if *sinkCfg != "" {
			if err := json.Unmarshal([]byte(*sinkCfg), &input.SinkConfig); err != nil {
				return fmt.Errorf("parse -sink-config: %w", err)
			}
		}
		if *extra != "" {
			rec, err := record.Parse([]byte(*extra))
			if err != nil {
				return fmt.Errorf("parse -extra: %w", err)
			}
			input.AdditionalData = rec
		}
		job, err := svc.CreateJob(ctx, input)
		if err != nil {
			return err
		}
		fmt.Printf("Created job %s (%s)\n", job.Name, job.ID)
		return nil

	case "list":
		jobs, err := svc.ListJobs()
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tSINK\tTARGET\tTRIGGER\tLAST RUN\tSTATUS")
		for _, j := range jobs {
			lastRun := "never"
			if !j.LastRunAt.IsZero() {
				lastRun = humanize.Time(j.LastRunAt)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", j.Name, j.SinkType, j.Target, j.TriggerType, lastRun, j.LastStatus)
		}
		return w.Flush()

	case "run":
		if len(rest) != 1 {
			return errors.New("usage: mockgen jobs run <id|name>")
		}
		result, err := svc.RunJob(ctx, rest[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s: %s records written in %s\n", result.Status, humanize.Comma(int64(result.RowsWritten)), result.Duration)
		return nil

	case "logs":
		if len(rest) != 1 {
			return errors.New("usage: mockgen jobs logs <id|name>")
		}
		logs, err := svc.ListRunLogs(rest[0])
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "STARTED\tSTATUS\tGENERATED\tWRITTEN\tERROR")
		for _, l := range logs {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n", humanize.Time(l.StartedAt), l.Status, l.RowsGenerated, l.RowsWritten, l.Error)
		}
		return w.Flush()

	case "rm":
		if len(rest) != 1 {
			return errors.New("usage: mockgen jobs rm <id|name>")
		}
		return svc.DeleteJob(ctx, rest[0])

	default:
		return fmt.Errorf("unknown jobs command %q", sub)
	}
}

// ── connections ────────────────────────────────────────────

func runConnections(ctx context.Context, a *app.App, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: mockgen connections add|list|test|rm")
	}
	svc := a.Sinks
	switch sub, rest := args[0], args[1:]; sub {
	case "add":
		fs := flag.NewFlagSet("connections add", flag.ExitOnError)
		var in service.SinkConnInput
		fs.StringVar(&in.Name, "name", "", "unique connection name")
		fs.StringVar(&in.Driver, "driver", "", "sqlite, mysql, postgres, mongodb, bolt or dynamodb")
		fs.StringVar(&in.Host, "host", "", "host, URI, or file path for sqlite/bolt")
		fs.IntVar(&in.Port, "port", 0, "port")
		fs.StringVar(&in.Database, "database", "", "database name, or AWS region for dynamodb")
		fs.StringVar(&in.Username, "user", "", "username, or access key id for dynamodb")
		fs.StringVar(&in.SSLMode, "ssl", "", "ssl mode")
		fs.StringVar(&in.ExtraJSON, "extra", "", "driver options as JSON (e.g. {\"endpoint\":\"http://localhost:8000\"})")
		fs.Parse(rest)
		// Passwords come from the environment so they stay out of shell history.
		in.Password = os.Getenv("MOCKGEN_PASSWORD")

		conn, err := svc.CreateConnection(in)
		if err != nil {
			return err
		}
		fmt.Printf("Created connection %s (%s)\n", conn.Name, conn.ID)
		return nil

	case "list":
		conns, err := svc.ListConnections()
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tDRIVER\tHOST\tDATABASE\tID")
		for _, c := range conns {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", c.Name, c.Driver, c.Host, c.Database, c.ID)
		}
		return w.Flush()

	case "test":
		if len(rest) != 1 {
			return errors.New("usage: mockgen connections test <id|name>")
		}
		if err := svc.TestConnection(ctx, rest[0]); err != nil {
			return err
		}
		fmt.Println("ok")
		return nil

	case "rm":
		if len(rest) != 1 {
			return errors.New("usage: mockgen connections rm <id|name>")
		}
		conn, _, err := svc.ResolveConnection(ctx, rest[0])
		if err != nil {
			return err
		}
		return svc.DeleteConnection(conn.ID)

	default:
		return fmt.Errorf("unknown connections command %q", sub)
	}
}
