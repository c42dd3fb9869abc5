package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/farelock/pkg/observability"
	"github.com/matzehuels/farelock/pkg/query"
)

// queryOpts holds the flags shared by the project and package commands.
type queryOpts struct {
	format  string // table or json
	browse  bool   // open the interactive browser
	save    bool   // record a report in the configured store
	version string // package commands only
}

func (o *queryOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.format, "format", "f", FormatTable, "output format: table, json")
	cmd.Flags().BoolVar(&o.browse, "browse", false, "browse the result interactively")
	cmd.Flags().BoolVar(&o.save, "save", false, "record a report in the configured store")
}

// projectCommand creates the "project" command group.
func (c *CLI) projectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Query the npm project containing a directory",
		Long: `Query the npm project containing a directory.

The nearest directory holding package.json or package-lock.json is the
project root. When no node_modules tree is found above it, farelock runs
"npm install --prod" in the project root first.`,
	}
	cmd.AddCommand(c.projectKindCommand("locks", query.KindProjectLocks, "List OpenFare locks of a project's dependencies"))
	cmd.AddCommand(c.projectKindCommand("configs", query.KindProjectConfigs, "List OpenFare configs of a project's dependencies"))
	return cmd
}

func (c *CLI) projectKindCommand(use, kind, short string) *cobra.Command {
	var opts queryOpts
	cmd := &cobra.Command{
		Use:   use + " [dir]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			abs, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolve %s: %w", dir, err)
			}
			return c.runQuery(cmd.Context(), query.Request{Kind: kind, Dir: abs}, opts)
		},
	}
	opts.register(cmd)
	return cmd
}

// packageCommand creates the "package" command group.
func (c *CLI) packageCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "package",
		Short: "Query a package from the npm registry",
		Long: `Query a package from the npm registry.

The package is installed into a temporary directory, which is removed
afterwards. Without --version the registry's latest version is used.`,
	}
	cmd.AddCommand(c.packageKindCommand("locks", query.KindPackageLocks, "List OpenFare locks of a registry package's dependencies"))
	cmd.AddCommand(c.packageKindCommand("configs", query.KindPackageConfigs, "List OpenFare configs of a registry package's dependencies"))
	return cmd
}

func (c *CLI) packageKindCommand(use, kind, short string) *cobra.Command {
	var opts queryOpts
	cmd := &cobra.Command{
		Use:     use + " <name>",
		Short:   short,
		Example: fmt.Sprintf("  %s package %s is-even --version 1.0.0\n  %s package %s @types/node", appName, use, appName, use),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runQuery(cmd.Context(), query.Request{Kind: kind, Name: args[0], Version: opts.version}, opts)
		},
	}
	opts.register(cmd)
	cmd.Flags().StringVar(&opts.version, "version", "", "package version (default: latest)")
	return cmd
}

// runQuery answers req and writes the result in the requested form.
func (c *CLI) runQuery(ctx context.Context, req query.Request, opts queryOpts) error {
	if err := validateFormat(opts.format); err != nil {
		return err
	}

	st, err := c.openStoreIf(ctx, opts.save)
	if err != nil {
		return err
	}
	defer st.Close()

	res, err := c.query(ctx, req)
	if err != nil {
		return err
	}

	if opts.save {
		report, err := res.Report()
		if err != nil {
			return err
		}
		if err := st.Save(ctx, report); err != nil {
			return err
		}
		printSuccess(os.Stderr, "Saved report %s", report.ID)
	}

	switch {
	case opts.browse:
		return browse(ctx, res)
	case opts.format == FormatJSON:
		return renderJSON(c.Out, res)
	default:
		renderTable(c.Out, res)
		return nil
	}
}

// query runs req behind a spinner that follows npm invocations.
func (c *CLI) query(ctx context.Context, req query.Request) (*query.Result, error) {
	prog := newProgress(c.Logger)

	sp := newSpinner(ctx, os.Stderr, "Looking up "+req.Subject())
	prev := observability.Provision()
	observability.SetProvisionHooks(&spinnerHooks{ProvisionHooks: prev, spinner: sp, command: c.config.NPM.Command})
	defer observability.SetProvisionHooks(prev)

	sp.Start()
	res, err := query.Run(ctx, c.newEngine(), req)
	sp.Stop()
	if err != nil {
		return nil, err
	}

	prog.done(fmt.Sprintf("Found %d packages, %d with %s", len(res.Entries), res.WithMetadata(), documentName(req.Kind)))
	return res, nil
}

// spinnerHooks shows the running npm command on the spinner and forwards
// events to the hooks it replaced.
type spinnerHooks struct {
	observability.ProvisionHooks
	spinner *Spinner
	command string
}

func (h *spinnerHooks) OnInstallStart(ctx context.Context, dir string, args []string) {
	h.spinner.Update(strings.Join(append([]string{h.command}, args...), " "))
	h.ProvisionHooks.OnInstallStart(ctx, dir, args)
}
