package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"sidbench/emu/log"
)

type mode byte

const (
	playMode    mode = iota // Replay a stimulus file
	songMode                // Play the demo song
	bodeMode                // Frequency response sweep
	spiMode                 // SPI register read/write check
	wavMode                 // Convert a PDM capture to WAV
	batchMode               // Run the jobs of the config file
	configMode              // Print the configuration
	versionMode             // Show sidbench version
)

type (
	CLI struct {
		Play    Play    `cmd:"" help:"Replay a register-write stimulus file."`
		Song    Song    `cmd:"" help:"Play the built-in 10 seconds demo song."`
		Bode    Bode    `cmd:"" help:"Play a logarithmic frequency sweep through the low-pass filter."`
		SPI     SPI     `cmd:"" name:"spi" help:"Check register writes and reads over SPI."`
		WAV     WAV     `cmd:"" name:"wav" help:"Convert a packed PDM capture to a WAV file."`
		Batch   Batch   `cmd:"" help:"Run all the jobs of the configuration file in parallel."`
		Config  Config  `cmd:"" help:"Print the configuration in use."`
		Version Version `cmd:"" help:"Show sidbench version."`

		ConfigPath string     `name:"config" help:"${config_help}" type:"path" placeholder:"FILE"`
		Log        logModMask `help:"${log_help}" placeholder:"mod0,mod1,..."`
		Report     *outfile   `name:"report" help:"Write the JSON run report." placeholder:"FILE|stdout|stderr"`
		Out        string     `name:"out" help:"${out_help}" type:"path" placeholder:"DIR"`

		mode mode
	}

	Play struct {
		Stimulus string  `arg:"" name:"/path/to/stimulus" help:"Stimulus file." type:"existingfile"`
		Name     string  `name:"name" help:"Base name of output files. (default: stimulus file name)"`
		Tail     float64 `name:"tail" help:"${tail_help}" default:"1.0"`
	}

	Song struct {
		Duration float64 `name:"duration" help:"Song duration in seconds." default:"10"`
		Record   string  `name:"record" help:"${record_help}" type:"path" placeholder:"FILE"`
	}

	Bode struct {
		Record string `name:"record" help:"${record_help}" type:"path" placeholder:"FILE"`
	}

	SPI struct{}

	WAV struct {
		In  string `arg:"" name:"in.bin" help:"Packed PDM capture." type:"existingfile"`
		Out string `arg:"" name:"out.wav" help:"WAV file to write." type:"path"`
	}

	Batch struct{}

	Config struct {
		Save string `name:"save" help:"Write the configuration to a file instead of stdout." type:"path" placeholder:"FILE"`
	}

	Version struct{}
)

var vars = kong.Vars{
	"config_help": "Configuration file. (default: built-in defaults)",
	"log_help":    "Enable logging for specified modules.",
	"out_help":    "Output directory. (overrides output.dir)",
	"tail_help":   "Seconds to keep running after the last stimulus event.",
	"record_help": "Record the register writes as a stimulus file.",
}

func parseArgs(args []string) CLI {
	var cfg CLI
	parser, err := kong.New(&cfg,
		kong.Name("sidbench"),
		kong.Description("Cycle-accurate stimulus and capture bench for the TT6581 synthesizer."),
		kong.UsageOnError(),
		kong.Help(printHelp),
		vars)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(args)
	checkf(err, "failed to parse command line")
	checkf(ctx.Error, "failed to parse command line")

	switch ctx.Command() {
	case "play </path/to/stimulus>":
		cfg.mode = playMode
	case "song":
		cfg.mode = songMode
	case "bode":
		cfg.mode = bodeMode
	case "spi":
		cfg.mode = spiMode
	case "wav <in.bin> <out.wav>":
		cfg.mode = wavMode
	case "batch":
		cfg.mode = batchMode
	case "config":
		cfg.mode = configMode
	case "version":
		cfg.mode = versionMode
	default:
		fatalf("unexpected command %q", ctx.Command())
	}
	return cfg
}

func printHelp(options kong.HelpOptions, ctx *kong.Context) error {
	if err := kong.DefaultHelpPrinter(options, ctx); err != nil {
		return err
	}
	loggingHelp := `
Log modules:
  The --log flag accepts a comma-separated list of modules.

  Valid log modules are:
%s

  As a special case, the following values are accepted:
    - no                     Disable all logging.
    - all                    Enable all logs.
`
	var strs []string
	for _, m := range log.ModuleNames() {
		strs = append(strs, "    - "+m)
	}

	fmt.Fprintf(os.Stderr, loggingHelp, strings.Join(strs, "\n"))
	return nil
}

type logModMask log.ModuleMask

// Decode decodes a comma-separated list of module names into a module mask.
//
// Implements kong.MapperValue interface.
func (lm logModMask) Decode(ctx *kong.DecodeContext) error {
	nolog := false
	allLogs := false

	tok := ctx.Scan.Pop()
	for _, v := range strings.Split(tok.Value.(string), ",") {
		switch v {
		case "all":
			allLogs = true
		case "no":
			nolog = true
		default:
			mod, ok := log.ModuleByName(v)
			if !ok {
				return fmt.Errorf("unknown log module %s", v)
			}
			lm |= logModMask(mod.Mask())
		}
	}

	if nolog {
		if allLogs {
			return fmt.Errorf("cannot use 'all' and 'no' together")
		}
		if lm != 0 {
			return fmt.Errorf("cannot combine 'no' with other log modules")
		}
		log.Disable()
		return nil
	}

	if allLogs {
		lm = logModMask(log.ModuleMaskAll)
	}

	log.EnableDebugModules(log.ModuleMask(lm))
	return nil
}

type outfile struct {
	w     io.Writer
	name  string
	close func() error
}

// Decode decodes FILE|stdout|stderr into an io.WriteCloser
// that writes to that file.
//
// Implements kong.MapperValue interface.
func (f *outfile) Decode(ctx *kong.DecodeContext) error {
	tok := ctx.Scan.Pop()
	f.name = tok.Value.(string)
	f.close = func() error { return nil }

	switch f.name {
	case "stdout":
		f.w = os.Stdout
	case "stderr":
		f.w = os.Stderr
	default:
		fd, err := os.Create(f.name)
		if err != nil {
			return err
		}
		f.w = fd
		f.close = fd.Close
	}
	return nil
}

func (f *outfile) String() string              { return f.name }
func (f *outfile) Write(p []byte) (int, error) { return f.w.Write(p) }
func (f *outfile) Close() error                { return f.close() }

func checkf(err error, format string, args ...any) {
	if err == nil {
		return
	}
	fatalf(format+".\n"+err.Error(), args...)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "fatal error:")
	fmt.Fprintf(os.Stderr, "\n\t%s\n", fmt.Sprintf(format, args...))
	os.Exit(1)
}
