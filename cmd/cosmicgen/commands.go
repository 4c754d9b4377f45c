package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/thomaskoefod/cosmicgen/internal/audit"
	"github.com/thomaskoefod/cosmicgen/internal/config"
	"github.com/thomaskoefod/cosmicgen/internal/cosmic"
	"github.com/thomaskoefod/cosmicgen/internal/timing"
	"github.com/thomaskoefod/cosmicgen/internal/workbook"
	"github.com/thomaskoefod/cosmicgen/internal/zones"
	"github.com/thomaskoefod/cosmicgen/pkg/models"
)

// signFlags select the sign for commands that work on one.
type signFlags struct {
	date   string
	clock  string
	tz     string
	source string
	sign   string
}

func (f *signFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.date, "date", "", "Birth date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.clock, "time", "", "Local birth time (HH:MM)")
	cmd.Flags().StringVar(&f.tz, "tz", "", "UTC offset in hours (default from config)")
	cmd.Flags().StringVar(&f.source, "source", "sun", "Sign source: sun, moon or manual")
	cmd.Flags().StringVar(&f.sign, "sign", "", "Sign name; implies --source manual")
}

func (f *signFlags) inputs(defaultTZ float64) (cosmic.Inputs, error) {
	if f.sign != "" {
		return cosmic.Inputs{Source: cosmic.SourceManual, ManualSign: f.sign}, nil
	}

	source, err := cosmic.ParseSignSource(f.source)
	if err != nil {
		return cosmic.Inputs{}, err
	}
	if source == cosmic.SourceManual {
		return cosmic.Inputs{}, fmt.Errorf("--source manual needs --sign")
	}
	if f.date == "" {
		return cosmic.Inputs{}, fmt.Errorf("--date or --sign is required")
	}

	in := cosmic.Inputs{Source: source, TZOffset: defaultTZ}
	if in.BirthDate, err = cosmic.ParseDate(f.date); err != nil {
		return cosmic.Inputs{}, err
	}
	if in.Time, err = cosmic.ParseLocalTime(f.clock); err != nil {
		return cosmic.Inputs{}, err
	}
	if f.tz != "" {
		if in.TZOffset, err = cosmic.ParseOffset(f.tz); err != nil {
			return cosmic.Inputs{}, err
		}
	}
	return in, nil
}

// resolveSign loads the workbook and resolves the sign selected by f.
func (a *app) resolveSign(cmd *cobra.Command, f *signFlags) (models.Context, *workbook.Tables, error) {
	in, err := f.inputs(a.cfg.Inputs.TZOffset)
	if err != nil {
		return models.Context{}, nil, err
	}
	tables, err := a.loadTables()
	if err != nil {
		return models.Context{}, nil, err
	}

	ctx := cosmic.Resolve(commandContext(cmd), in, tables, a.positionResolver())
	if !ctx.Sign.Valid() {
		return ctx, tables, fmt.Errorf("unknown sign %q", in.ManualSign)
	}
	a.logger.Debug("sign resolved",
		zap.String("sign", ctx.Sign.String()),
		zap.String("source", in.Source.String()),
	)
	return ctx, tables, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newSignCmd(a *app) *cobra.Command {
	var (
		f      signFlags
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Resolve a sign and show its correspondences",
		Example: `  cosmicgen sign --date 1990-07-04
  cosmicgen sign --date 1990-07-04 --time 08:30 --tz 5.5 --source moon`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, _, err := a.resolveSign(cmd, &f)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), ctx)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderMarkdown(cosmic.Markdown(ctx)))
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the context as JSON")
	return cmd
}

func newAuditCmd(a *app) *cobra.Command {
	var (
		f      signFlags
		asJSON bool
	)
	inputs := map[string]*string{}
	flagNames := map[string]string{
		audit.Colours:    "colours",
		audit.Foods:      "foods",
		audit.Crystals:   "crystals",
		audit.Activities: "activities",
		audit.Elements:   "elements",
		audit.People:     "people",
	}

	cmd := &cobra.Command{
		Use:     "audit",
		Short:   "Check what you own, eat and do against a sign's avoid lists",
		Example: `  cosmicgen audit --sign Aries --colours "blue sofa, marble" --foods "ice cream"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, tables, err := a.resolveSign(cmd, &f)
			if err != nil {
				return err
			}
			in := map[string]string{}
			for name, v := range inputs {
				in[name] = *v
			}
			results := audit.Run(tables, ctx.Sign.String(), in)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), results)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderAudit(ctx, results))
			return nil
		},
	}
	f.register(cmd)
	for _, c := range audit.Categories() {
		v := new(string)
		inputs[c.Name] = v
		cmd.Flags().StringVar(v, flagNames[c.Name], "", c.Name+", comma separated")
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print results as JSON")
	return cmd
}

func newTimingCmd(a *app) *cobra.Command {
	var (
		activity   string
		date       string
		keepMaster bool
	)
	cmd := &cobra.Command{
		Use:   "timing",
		Short: "Rate a planned date for an activity",
		Long: `Rates a planned date by weekday and universal day number.
Without --activity it lists the activities of the workbook.`,
		Example: `  cosmicgen timing --activity "Signing contracts" --date 2024-01-03`,
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := a.loadTables()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if activity == "" {
				for _, name := range tables.Activities() {
					fmt.Fprintln(out, name)
				}
				return nil
			}

			rule, ok := tables.Activity(activity)
			if !ok {
				return fmt.Errorf("unknown activity %q", activity)
			}
			d, err := cosmic.ParseDate(date)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("keep-master") {
				keepMaster = a.cfg.Numerology.KeepMaster
			}
			fmt.Fprintln(out, renderTiming(timing.Evaluate(rule, d, keepMaster)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&activity, "activity", "a", "", "Activity name")
	cmd.Flags().StringVarP(&date, "date", "d", "", "Planned date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&keepMaster, "keep-master", true, "Keep master numbers 11, 22 and 33 (default from config)")
	return cmd
}

func newZoneCmd(a *app) *cobra.Command {
	var item, zone, shape string
	cmd := &cobra.Command{
		Use:     "zone",
		Short:   "Check an item (and shape) placed in a house zone",
		Example: `  cosmicgen zone --item Candle --zone North --shape Triangle`,
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := a.loadTables()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderZone(zones.Check(tables, item, zone, shape)))
			return nil
		},
	}
	cmd.Flags().StringVar(&item, "item", "", "Item name (required)")
	cmd.Flags().StringVar(&zone, "zone", "", "Zone name (required)")
	cmd.Flags().StringVar(&shape, "shape", "", "Shape name")
	cmd.MarkFlagRequired("item")
	cmd.MarkFlagRequired("zone")
	return cmd
}

func newItemsCmd(a *app) *cobra.Command {
	filter := workbook.ItemFilter{Element: workbook.AllFilter, Category: workbook.AllFilter}
	cmd := &cobra.Command{
		Use:   "items",
		Short: "List element items, optionally filtered",
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := a.loadTables()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderItems(tables.Items(filter)))
			return nil
		},
	}
	cmd.Flags().StringVar(&filter.Element, "element", workbook.AllFilter, "Element filter")
	cmd.Flags().StringVar(&filter.Category, "category", workbook.AllFilter, "Category filter")
	return cmd
}

func newEphemerisCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ephemeris",
		Short: "Manage the local ephemeris table",
	}

	importCmd := &cobra.Command{
		Use:   "import FILE.csv",
		Short: "Load body,jd,longitude rows into the local ephemeris table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer f.Close()

			db, err := a.openDB(true)
			if err != nil {
				return err
			}
			n, err := db.Import(commandContext(cmd), f)
			if err != nil {
				return err
			}
			a.logger.Info("ephemeris imported", zap.String("file", args[0]), zap.Int("rows", n))
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d positions into %s\n", n, a.cfg.Ephemeris.Database)
			return nil
		},
	}

	coverageCmd := &cobra.Command{
		Use:   "coverage",
		Short: "Show the Julian Day range held per body",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openDB(false)
			if err != nil {
				return fmt.Errorf("opening %s: %w", a.cfg.Ephemeris.Database, err)
			}
			var lines []string
			for _, body := range []models.Body{models.Sun, models.Moon} {
				from, to, rows, err := db.Coverage(commandContext(cmd), body)
				if err != nil {
					return err
				}
				if rows == 0 {
					lines = append(lines, fmt.Sprintf("%-4s  no data", body))
					continue
				}
				lines = append(lines, fmt.Sprintf("%-4s  %d rows  JD %.1f to %.1f", body, rows, from, to))
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(lines, "\n"))
			return nil
		},
	}

	cmd.AddCommand(importCmd)
	cmd.AddCommand(coverageCmd)
	return cmd
}

func newConfigCmd(a *app, opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the config file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(opts.configPath); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", opts.configPath)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("checking config file: %w", err)
			}
			if err := config.Save(a.cfg, opts.configPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", opts.configPath)
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(a.cfg); err != nil {
				return fmt.Errorf("encoding config: %w", err)
			}
			return enc.Close()
		},
	}

	cmd.AddCommand(initCmd)
	cmd.AddCommand(showCmd)
	return cmd
}
