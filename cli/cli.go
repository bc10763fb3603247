package cli

import (
	"context"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/fala/cli/cmd"
	"github.com/ardnew/fala/lang/eval"
	"github.com/ardnew/fala/lang/lower"
	"github.com/ardnew/fala/pkg"
)

// CLI is the top-level command-line interface for fala.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit." short:"V"`

	Parse cmd.Parse `cmd:"" help:"Print the parse tree of a program."`
	Check cmd.Check `cmd:"" help:"Report semantic diagnostics."`
	Lower cmd.Lower `cmd:"" help:"Print the intermediate representation of a program."`
	Run   cmd.Run   `cmd:"" help:"Run a program."                                          default:"withargs"`
	Repl  cmd.Repl  `cmd:"" help:"Start an interactive session."`
	Init  cmd.Init  `cmd:"" help:"Write the current flags to the configuration file."`
}

// Run parses args and executes the selected command. exit is called by
// kong for --help, --version and usage errors.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	if err := mkdirAllRequired(); err != nil {
		return err
	}

	yamlPath := configPath(baseConfig + ".yaml")

	vars := kong.Vars{
		"version":            pkg.Version,
		"maxDepth":           strconv.Itoa(eval.DefaultMaxDepth),
		"maxRange":           strconv.Itoa(lower.DefaultMaxRange),
		cmd.ConfigIdentifier: yamlPath,
		cmd.CacheIdentifier:  pkg.CacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Apply logging flags before kong reports any parse error.
	cli.Log.scan(args)

	var groups []kong.Group
	for _, g := range []kong.Group{cli.Log.group(), cli.Pprof.group()} {
		if g.Key != "" {
			groups = append(groups, g)
		}
	}

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(groups),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			Summary:             true,
			Tree:                true,
			NoExpandSubcommands: true,
		}),
		kong.Configuration(kong.JSON, configPath(baseConfig+".json")),
		kong.Configuration(loadYAML, yamlPath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)

	cli.Log.start(ctx)

	defer cli.Pprof.start(ctx)()

	return ktx.Run()
}
