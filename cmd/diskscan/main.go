package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	internal "github.com/diskscan/diskscan/dscan"
	"github.com/diskscan/diskscan/dscan/config"
	"github.com/diskscan/diskscan/dscan/filter"
	"github.com/diskscan/diskscan/dscan/output"
	"github.com/diskscan/diskscan/dscan/scan"

	"github.com/urfave/cli/v2"
)

var logger = internal.GetLogger()

func main() {
	// SIGINT/SIGTERM cancel the context: in-flight traversal and hashing
	// stop promptly and no partial output is written.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		logger.Fatal().Err(err).Msg("command failed")
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:            internal.DefaultAppName,
		Usage:           "scan a directory tree for duplicate files and clean up safely",
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "path to config file"},
		},
		Before: func(c *cli.Context) error {
			if _, err := config.LoadConfig(c.String("config")); err != nil {
				return err
			}
			return nil
		},
		Commands: []*cli.Command{
			cmdDuplicates(),
			cmdBigFiles(),
			cmdBySuffix(),
			cmdByName(),
			cmdSuffixes(),
			cmdEmptyDirs(),
			cmdRenameDirs(),
			cmdRenameFiles(),
			cmdNormalize(),
			cmdRemoveAuto(),
			cmdRemoveInteractive(),
			cmdRemoveDirs(),
		},
	}
}

// rootArg validates the single directory argument common to scan commands.
func rootArg(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", fmt.Errorf("expected exactly one directory argument")
	}
	return c.Args().First(), nil
}

// scanOptions merges config file values with command-line overrides.
func scanOptions(c *cli.Context) scan.Options {
	cfg := config.AppConfig.Scan
	opts := scan.Options{
		PrefixBytes:        cfg.PrefixBytes,
		HashAlgorithm:      cfg.HashAlgorithm,
		WorkerCount:        cfg.WorkerCount,
		IncludeZeroByte:    cfg.IncludeZeroByte,
		IncludeSystemFiles: cfg.IncludeSystemFiles,
		IgnorePatterns:     cfg.IgnorePatterns,
	}
	if c.IsSet("prefix-bytes") {
		opts.PrefixBytes = c.Int64("prefix-bytes")
	}
	if c.IsSet("algorithm") {
		opts.HashAlgorithm = c.String("algorithm")
	}
	if c.IsSet("workers") {
		opts.WorkerCount = c.Int("workers")
	}
	if c.Bool("include-zero") {
		opts.IncludeZeroByte = true
	}
	if c.Bool("include-sys") {
		opts.IncludeSystemFiles = true
	}
	return opts
}

// reportSkipped surfaces the paths a listing walk could not read.
func reportSkipped(skipped []scan.SkippedPath) {
	for _, sp := range skipped {
		logger.Warn().Str("path", sp.Path).Str("reason", string(sp.Reason)).Msg("path skipped")
	}
}

func cmdDuplicates() *cli.Command {
	return &cli.Command{
		Name:      "duplicates",
		Usage:     "find duplicated files under a directory",
		ArgsUsage: "DIR",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "json", Usage: "file name to save the result as json"},
			&cli.Int64Flag{Name: "prefix-bytes", Usage: "bytes hashed by the prefix filter"},
			&cli.StringFlag{Name: "algorithm", Usage: "hash algorithm (md5 or sha256)"},
			&cli.IntFlag{Name: "workers", Usage: "concurrent workers"},
			&cli.BoolFlag{Name: "include-zero", Usage: "report zero-byte files as duplicates"},
			&cli.BoolFlag{Name: "include-sys", Usage: "include system files in scan"},
		},
		Action: func(c *cli.Context) error {
			root, err := rootArg(c)
			if err != nil {
				return err
			}

			result, err := scan.NewScanner().FindDuplicates(c.Context, root, scanOptions(c))
			if err != nil {
				return err
			}

			format, path := "console", ""
			if c.String("json") != "" {
				format, path = "json", c.String("json")
			} else if config.AppConfig.Output.Format == "json" {
				format, path = "json", config.AppConfig.Output.Path
			}
			sink, err := output.NewSink(format, path, os.Stdout)
			if err != nil {
				return err
			}
			return sink.WriteResult(result)
		},
	}
}

func cmdBigFiles() *cli.Command {
	return &cli.Command{
		Name:      "bigfiles",
		Usage:     "find files bigger than a threshold",
		ArgsUsage: "DIR",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "size", Aliases: []string{"s"}, Required: true, Usage: "filter bigger than ? MB"},
			&cli.StringFlag{Name: "json", Usage: "file name to save the result as json"},
		},
		Action: func(c *cli.Context) error {
			root, err := rootArg(c)
			if err != nil {
				return err
			}

			files, skipped, err := scan.ListFiles(c.Context, root, scanOptions(c))
			if err != nil {
				return err
			}
			reportSkipped(skipped)
			big := filter.LargerThan(files, c.Int64("size")*(1<<20))

			paths := make([]string, 0, len(big))
			for _, fd := range big {
				paths = append(paths, fd.Path)
			}
			sort.Strings(paths)
			return emitPaths(c, paths)
		},
	}
}

func cmdBySuffix() *cli.Command {
	return &cli.Command{
		Name:      "bysuffix",
		Usage:     "list files carrying the given suffixes",
		ArgsUsage: "DIR",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "suffix", Aliases: []string{"s"}, Required: true, Usage: "eg. mp4, png, jpg"},
			&cli.StringFlag{Name: "json", Usage: "file name to save the result as json"},
			&cli.BoolFlag{Name: "include-sys", Usage: "include system files in scan"},
		},
		Action: func(c *cli.Context) error {
			root, err := rootArg(c)
			if err != nil {
				return err
			}

			files, skipped, err := scan.ListFiles(c.Context, root, scanOptions(c))
			if err != nil {
				return err
			}
			reportSkipped(skipped)
			if !c.Bool("include-sys") {
				files = filter.ExcludeSystemFiles(files)
			}
			hits := filter.IncludeSuffixes(files, c.StringSlice("suffix"))

			paths := make([]string, 0, len(hits))
			for _, fd := range hits {
				paths = append(paths, fd.Path)
			}
			filter.SortByParentLength(paths)
			return emitPaths(c, paths)
		},
	}
}

func cmdByName() *cli.Command {
	return &cli.Command{
		Name:      "byname",
		Usage:     "find files whose names contain any of the given substrings",
		ArgsUsage: "DIR",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "name", Aliases: []string{"n"}, Required: true, Usage: "eg. From Russia with Love"},
			&cli.StringFlag{Name: "json", Usage: "file name to save the result as json"},
			&cli.BoolFlag{Name: "include-sys", Usage: "include system files in scan"},
		},
		Action: func(c *cli.Context) error {
			root, err := rootArg(c)
			if err != nil {
				return err
			}

			var names []string
			for _, n := range c.StringSlice("name") {
				if strings.TrimSpace(n) != "" {
					names = append(names, n)
				}
			}
			if len(names) == 0 {
				return fmt.Errorf("the names provided cannot be white spaces")
			}

			files, skipped, err := scan.ListFiles(c.Context, root, scanOptions(c))
			if err != nil {
				return err
			}
			reportSkipped(skipped)
			if !c.Bool("include-sys") {
				files = filter.ExcludeSystemFiles(files)
			}
			hits := filter.NameContains(files, names, nil)

			paths := make([]string, 0, len(hits))
			for _, fd := range hits {
				paths = append(paths, fd.Path)
			}
			sort.Strings(paths)
			return emitPaths(c, paths)
		},
	}
}

func cmdSuffixes() *cli.Command {
	return &cli.Command{
		Name:      "suffixes",
		Usage:     "count file suffix frequencies under a directory",
		ArgsUsage: "DIR",
		Action: func(c *cli.Context) error {
			root, err := rootArg(c)
			if err != nil {
				return err
			}

			files, skipped, err := scan.ListFiles(c.Context, root, scanOptions(c))
			if err != nil {
				return err
			}
			reportSkipped(skipped)
			counts := filter.CountSuffixes(files)

			suffixes := make([]string, 0, len(counts))
			for s := range counts {
				suffixes = append(suffixes, s)
			}
			sort.Slice(suffixes, func(i, j int) bool {
				return counts[suffixes[i]] > counts[suffixes[j]]
			})
			for _, s := range suffixes {
				label := s
				if label == "" {
					label = "(none)"
				}
				fmt.Fprintf(os.Stdout, "%s: %d\n", label, counts[s])
			}
			return nil
		},
	}
}

// emitPaths prints paths to stdout or persists them as a JSON path list.
func emitPaths(c *cli.Context, paths []string) error {
	if target := c.String("json"); target != "" {
		return output.WritePathList(target, paths)
	}
	for _, p := range paths {
		fmt.Fprintln(os.Stdout, p)
	}
	return nil
}
