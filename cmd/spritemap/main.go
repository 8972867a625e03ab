package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/esimov/spritemap"
	"github.com/esimov/spritemap/utils"
	"golang.org/x/exp/slog"
	"golang.org/x/term"
)

const HelpBanner = `
┌─┐┌─┐┬─┐┬┌┬┐┌─┐┌┬┐┌─┐┌─┐
└─┐├─┘├┬┘│ │ ├┤ │││├─┤├─┘
└─┘┴  ┴└─┴ ┴ └─┘┴ ┴┴ ┴┴

Map icon spritemap builder.
    Version: %s

Usage:
    spritemap [build] [flags]     build the spritemaps
    spritemap import [flags]      import an icon archive into a set directory
    spritemap dist [flags]        package the spritemaps into a tarball

`

// Version indicates the current build version.
var Version string

// defaults holds the flag defaults which may be overridden from the environment.
type defaults struct {
	Config    string `env:"SPRITEMAP_CONFIG" envDefault:"config.json"`
	Icons     string `env:"SPRITEMAP_ICONS" envDefault:"iconsets"`
	Out       string `env:"SPRITEMAP_OUT" envDefault:"sprites"`
	Workers   int    `env:"SPRITEMAP_WORKERS"`
	ImportURL string `env:"SPRITEMAP_IMPORT_URL" envDefault:"https://github.com/mapbox/maki/tarball/main"`
	Dist      string `env:"SPRITEMAP_DIST" envDefault:"sprites.tar.gz"`
}

func main() {
	log.SetFlags(0)

	var def defaults
	if err := env.Parse(&def); err != nil {
		log.Fatalf(utils.DecorateText("Invalid environment: %v", utils.ErrorMessage), err)
	}

	interactive := term.IsTerminal(int(os.Stderr.Fd()))
	utils.Colored = interactive

	cmd, args := "build", os.Args[1:]
	if len(args) > 0 {
		switch args[0] {
		case "build", "import", "dist":
			cmd, args = args[0], args[1:]
		}
	}

	// Capture CTRL-C signal and restore the cursor visibility back.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		if interactive {
			utils.NewSpinner(os.Stderr, "", 0, true).RestoreCursor()
		}
	}()

	var err error
	switch cmd {
	case "build":
		err = build(ctx, def, args, interactive)
	case "import":
		err = importIcons(ctx, def, args)
	case "dist":
		err = dist(def, args)
	}
	if err != nil {
		stop()
		os.Exit(1)
	}
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, HelpBanner, Version)
		fs.PrintDefaults()
	}
	return fs
}

func build(ctx context.Context, def defaults, args []string, interactive bool) error {
	fs := newFlagSet("build")
	var (
		config      = fs.String("config", def.Config, "Config file")
		icons       = fs.String("icons", def.Icons, "Icon sets root directory")
		out         = fs.String("out", def.Out, "Destination directory")
		format      = fs.String("format", ".png", "Spritemap image format (.png, .bmp)")
		workers     = fs.Int("conc", def.Workers, "Number of icons to process concurrently")
		skipInvalid = fs.Bool("skip-invalid", false, "Skip the icons which fail to process")
		verbose     = fs.Bool("verbose", false, "Verbose logging")
	)
	fs.Parse(args)

	cfg, err := spritemap.LoadConfig(*config)
	if err != nil {
		printError("Failed to load the config", err)
		return err
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	proc := &spritemap.Processor{
		Config:      cfg,
		Provider:    &spritemap.DirProvider{Root: *icons, Workers: *workers},
		OutDir:      *out,
		Format:      *format,
		Workers:     *workers,
		SkipInvalid: *skipInvalid,
		Logger:      slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})),
	}
	return proc.Execute(ctx, &spritemap.Ops{
		Out:     os.Stderr,
		Spinner: interactive && !*verbose,
	})
}

func importIcons(ctx context.Context, def defaults, args []string) error {
	fs := newFlagSet("import")
	var (
		uri   = fs.String("url", def.ImportURL, "Icon archive URL (gzipped tarball)")
		dest  = fs.String("dest", filepath.Join(def.Icons, "maki"), "Destination set directory")
		scale = fs.Float64("scale", spritemap.DefaultImportScale, "Icon size multiplier")
	)
	fs.Parse(args)

	now := time.Now()
	im := &spritemap.Importer{URL: *uri, Dest: *dest, Scale: *scale}
	n, err := im.Import(ctx)
	if err != nil {
		printError("Failed to import the icons", err)
		return err
	}
	fmt.Fprintf(os.Stderr, "\n%d icons have been imported into: %s\n",
		n, utils.DecorateText(*dest, utils.SuccessMessage),
	)
	fmt.Fprintf(os.Stderr, "\nExecution time: %s\n",
		utils.DecorateText(utils.FormatTime(time.Since(now)), utils.SuccessMessage),
	)
	return nil
}

func dist(def defaults, args []string) error {
	fs := newFlagSet("dist")
	var (
		in  = fs.String("in", def.Out, "Spritemap directory")
		out = fs.String("out", def.Dist, "Destination archive")
	)
	fs.Parse(args)

	n, err := spritemap.Dist(*in, *out)
	if err != nil {
		printError("Failed to package the spritemaps", err)
		return err
	}
	fmt.Fprintf(os.Stderr, "\n%d files have been packaged as: %s\n",
		n, utils.DecorateText(filepath.Base(*out), utils.SuccessMessage),
	)
	return nil
}

// printError displays the reason of a failed command.
func printError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "%s%s",
		utils.DecorateText("\n"+msg, utils.ErrorMessage),
		utils.DecorateText(fmt.Sprintf("\n\tReason: %v\n", err), utils.DefaultMessage),
	)
}
