package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/diskscan/diskscan/dscan/fileops"
	"github.com/diskscan/diskscan/dscan/filter"
	"github.com/diskscan/diskscan/dscan/output"
	"github.com/diskscan/diskscan/dscan/scan"

	"github.com/urfave/cli/v2"
)

func cmdEmptyDirs() *cli.Command {
	return &cli.Command{
		Name:      "emptydirs",
		Usage:     "list empty (or system-junk-only) directories",
		ArgsUsage: "DIR",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "json", Usage: "file name to save the result as json"},
		},
		Action: func(c *cli.Context) error {
			root, err := rootArg(c)
			if err != nil {
				return err
			}
			empties, err := fileops.FindEmptyDirs(root)
			if err != nil {
				return err
			}
			return emitPaths(c, empties)
		},
	}
}

func renameFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "old", Required: true, Usage: "old name"},
		&cli.StringFlag{Name: "new", Required: true, Usage: "new name"},
		&cli.BoolFlag{Name: "force", Usage: "perform real actions (NOT dry run)"},
		&cli.StringFlag{Name: "json", Usage: "file name to save the result as json"},
	}
}

// runRenames applies a name substitution over the candidate paths, deepest
// first so renaming a directory never invalidates a deeper pending path.
func runRenames(c *cli.Context, candidates []string) error {
	old, new := c.String("old"), c.String("new")
	dryRun := !c.Bool("force")

	sort.Slice(candidates, func(i, j int) bool {
		return len(candidates[i]) > len(candidates[j])
	})

	var plans []fileops.RenamePlan
	for _, path := range candidates {
		plan, err := fileops.RenameName(path, old, new, dryRun)
		if err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("rename failed")
			continue
		}
		if plan.OldPath != "" {
			plans = append(plans, plan)
		}
	}

	if target := c.String("json"); target != "" {
		paths := make([]string, 0, len(plans))
		for _, p := range plans {
			paths = append(paths, fmt.Sprintf("%s => %s", p.OldPath, p.NewPath))
		}
		return output.WritePathList(target, paths)
	}
	for _, p := range plans {
		fmt.Fprintf(os.Stdout, "old: %s\nnew: %s\n%s\n", p.OldPath, p.NewPath, strings.Repeat("-", 16))
	}
	if dryRun {
		fmt.Fprintln(os.Stdout, "Warning: this is a dry run, use --force to perform the rename.")
	}
	return nil
}

func cmdRenameDirs() *cli.Command {
	return &cli.Command{
		Name:      "renamedirs",
		Usage:     "replace a substring in directory names, recursively",
		ArgsUsage: "DIR",
		Flags:     renameFlags(),
		Action: func(c *cli.Context) error {
			root, err := rootArg(c)
			if err != nil {
				return err
			}

			var dirs []string
			err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
				if err != nil {
					return nil
				}
				if d.IsDir() && path != root && strings.Contains(d.Name(), c.String("old")) {
					dirs = append(dirs, path)
				}
				return nil
			})
			if err != nil {
				return err
			}
			return runRenames(c, dirs)
		},
	}
}

func cmdRenameFiles() *cli.Command {
	return &cli.Command{
		Name:      "renamefiles",
		Usage:     "replace a substring in file names, recursively",
		ArgsUsage: "DIR",
		Flags:     renameFlags(),
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

			var candidates []string
			for _, fd := range files {
				if strings.Contains(filepath.Base(fd.Path), c.String("old")) {
					candidates = append(candidates, fd.Path)
				}
			}
			return runRenames(c, candidates)
		},
	}
}

func cmdNormalize() *cli.Command {
	return &cli.Command{
		Name:      "normalize",
		Usage:     "rename matched files to sequential, OS-safe names",
		ArgsUsage: "DIR",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "regex", Usage: "regex to match source file names"},
			&cli.BoolFlag{Name: "only-media", Usage: "match only common media files"},
			&cli.StringFlag{Name: "prefix", Usage: "prefix for final file names"},
			&cli.StringFlag{Name: "separator", Value: "_", Usage: "separator for final file names"},
			&cli.BoolFlag{Name: "keep", Usage: "keep folder name as part of file name"},
			&cli.BoolFlag{Name: "exif-date", Usage: "include the EXIF capture date when available"},
			&cli.BoolFlag{Name: "force", Usage: "perform real actions (NOT dry run)"},
			&cli.StringFlag{Name: "json", Usage: "file name to save the plan as json"},
		},
		Action: func(c *cli.Context) error {
			root, err := rootArg(c)
			if err != nil {
				return err
			}
			hasRegex := c.String("regex") != ""
			if hasRegex == c.Bool("only-media") {
				return fmt.Errorf("exactly one of --regex or --only-media must be specified")
			}

			files, skipped, err := scan.ListFiles(c.Context, root, scanOptions(c))
			if err != nil {
				return err
			}
			reportSkipped(skipped)
			files = filter.ExcludeSystemFiles(files)

			var candidates []string
			if pattern := c.String("regex"); pattern != "" {
				re, err := regexp.Compile(pattern)
				if err != nil {
					return fmt.Errorf("bad --regex: %w", err)
				}
				for _, fd := range files {
					if re.MatchString(filepath.Base(fd.Path)) {
						candidates = append(candidates, fd.Path)
					}
				}
			} else {
				media := filter.IncludeSuffixes(files, append(append([]string{}, filter.ImageSuffixes...), filter.VideoSuffixes...))
				for _, fd := range media {
					candidates = append(candidates, fd.Path)
				}
			}

			steps, err := fileops.NormalizeNames(candidates, fileops.NormalizeOptions{
				Prefix:         c.String("prefix"),
				Separator:      c.String("separator"),
				KeepFolderName: c.Bool("keep"),
				UseCaptureDate: c.Bool("exif-date"),
				DryRun:         !c.Bool("force"),
			})
			if err != nil {
				return err
			}

			if target := c.String("json"); target != "" {
				paths := make([]string, 0, len(steps))
				for _, s := range steps {
					paths = append(paths, fmt.Sprintf("%s => %s", s.OldPath, s.NewPath))
				}
				return output.WritePathList(target, paths)
			}
			for _, s := range steps {
				fmt.Fprintf(os.Stdout, "%s\n%s\n%s\n%s\n", s.OldPath, s.MiddlePath, s.NewPath, strings.Repeat("-", 16))
			}
			if !c.Bool("force") {
				fmt.Fprintln(os.Stdout, "Warning: this is a dry run, use --force to perform the rename.")
			}
			return nil
		},
	}
}
