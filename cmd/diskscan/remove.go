package main

import (
	"github.com/diskscan/diskscan/dscan/config"
	"github.com/diskscan/diskscan/dscan/output"
	"github.com/diskscan/diskscan/dscan/ports"
	"github.com/diskscan/diskscan/dscan/remover"

	"github.com/urfave/cli/v2"
)

func removeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "json", Required: true, Usage: "json file describing the duplicated files"},
		&cli.BoolFlag{Name: "force", Usage: "perform real actions (NOT dry run)"},
	}
}

func underFlag() cli.Flag {
	return &cli.StringFlag{Name: "under", Usage: "only consider groups with a member below this directory"}
}

// loadGroups reads the persisted mapping and applies the --under restriction.
func loadGroups(c *cli.Context) (map[string][]string, error) {
	groups, err := output.ReadGroupsFile(c.String("json"))
	if err != nil {
		return nil, err
	}
	if under := c.String("under"); under != "" {
		groups = remover.RestrictToSubtree(groups, under)
	}
	return groups, nil
}

func newRemover(c *cli.Context, keepLongest bool) *remover.Remover {
	// --force is the only way out of dry-run
	return remover.New(ports.NewConsoleInteractor(nil, nil), remover.Options{
		DryRun:            !c.Bool("force"),
		ExcludeSuffixes:   config.AppConfig.Remove.ExcludeSuffixes,
		KeepLongestParent: keepLongest,
	})
}

func cmdRemoveAuto() *cli.Command {
	return &cli.Command{
		Name:  "remove-auto",
		Usage: "automatically remove duplicates, keeping one copy per group",
		Flags: append(removeFlags(),
			underFlag(),
			&cli.BoolFlag{Name: "long", Usage: "keep the file with the longest parent path"},
		),
		Action: func(c *cli.Context) error {
			groups, err := loadGroups(c)
			if err != nil {
				return err
			}
			return newRemover(c, c.Bool("long")).Automatic(groups)
		},
	}
}

func cmdRemoveInteractive() *cli.Command {
	return &cli.Command{
		Name:  "remove-interactive",
		Usage: "remove duplicates, asking which copy to keep",
		Flags: append(removeFlags(), underFlag()),
		Action: func(c *cli.Context) error {
			groups, err := loadGroups(c)
			if err != nil {
				return err
			}
			return newRemover(c, false).Interactive(groups)
		},
	}
}

func cmdRemoveDirs() *cli.Command {
	return &cli.Command{
		Name:  "remove-dirs",
		Usage: "remove the directories listed in a json path list",
		Flags: append(removeFlags(),
			&cli.BoolFlag{Name: "recursive", Usage: "recursively remove sub folders"},
		),
		Action: func(c *cli.Context) error {
			paths, err := output.ReadPathList(c.String("json"))
			if err != nil {
				return err
			}
			return newRemover(c, false).RemoveDirs(paths, c.Bool("recursive"))
		},
	}
}
