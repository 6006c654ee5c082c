// Package main is the entry point for the hexkit hex editor.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dshills/hexkit/internal/config"
	"github.com/dshills/hexkit/internal/engine/buffer"
	"github.com/dshills/hexkit/internal/hexview"
	"github.com/dshills/hexkit/internal/script"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	configPath string
	readOnly   bool
	dump       bool
	scriptPath string
	offset     int64
	length     int64
	file       string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfgPath := opts.configPath
	if cfgPath == "" {
		cfgPath = config.DefaultPath()
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	var bufOpts []buffer.Option
	if opts.readOnly {
		bufOpts = append(bufOpts, buffer.WithReadOnly())
	}
	buf, err := buffer.Open(opts.file, bufOpts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: opening %s: %v\n", opts.file, err)
		return 1
	}
	defer buf.Close()

	switch {
	case opts.scriptPath != "":
		if err := script.Run(buf, opts.scriptPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	case opts.dump:
		if err := hexview.Dump(os.Stdout, buf, cfg, opts.offset, opts.length); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	default:
		viewer, err := hexview.New(buf, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: creating viewer: %v\n", err)
			return 1
		}
		if err := viewer.WatchFile(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: file watching unavailable: %v\n", err)
		}
		if err := viewer.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	return 0
}

func parseFlags() options {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	flag.BoolVar(&opts.readOnly, "readonly", false, "Open the file in read-only mode")
	flag.BoolVar(&opts.readOnly, "R", false, "Open the file in read-only mode (shorthand)")
	flag.BoolVar(&opts.dump, "dump", false, "Print a hex dump to stdout instead of opening the viewer")
	flag.StringVar(&opts.scriptPath, "script", "", "Apply a Lua edit script and exit")
	flag.Int64Var(&opts.offset, "offset", 0, "Dump start offset")
	flag.Int64Var(&opts.length, "length", -1, "Dump length in bytes (-1 for the rest of the file)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "hexkit - terminal hex editor\n\n")
		fmt.Fprintf(os.Stderr, "Usage: hexkit [options] file\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  hexkit firmware.bin              Open the interactive viewer\n")
		fmt.Fprintf(os.Stderr, "  hexkit -dump -length 256 a.out   Dump the first 256 bytes\n")
		fmt.Fprintf(os.Stderr, "  hexkit -script patch.lua a.out   Apply a scripted binary patch\n")
		fmt.Fprintf(os.Stderr, "  hexkit -R /dev/stdin             View read-only\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("hexkit %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	opts.file = flag.Arg(0)

	return opts
}
