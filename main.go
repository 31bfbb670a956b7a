package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"

	"sidbench/emu"
)

func main() {
	args := parseArgs(os.Args[1:])

	cfg, err := emu.LoadConfig(args.ConfigPath)
	checkf(err, "failed to load configuration")
	if args.Out != "" {
		cfg.Output.Dir = args.Out
	}
	checkf(cfg.Check(), "invalid configuration")

	if args.Report != nil {
		defer args.Report.Close()
	}

	switch args.mode {
	case playMode:
		name := args.Play.Name
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(args.Play.Stimulus), filepath.Ext(args.Play.Stimulus))
		}
		runOne(cfg, args, emu.JobConfig{
			Name:     name,
			Mode:     "play",
			Stimulus: args.Play.Stimulus,
			Tail:     args.Play.Tail,
		})
	case songMode:
		runOne(cfg, args, emu.JobConfig{
			Name:     "song",
			Mode:     "song",
			Duration: args.Song.Duration,
			Record:   args.Song.Record,
		})
	case bodeMode:
		runOne(cfg, args, emu.JobConfig{
			Name:   "bode",
			Mode:   "bode",
			Record: args.Bode.Record,
		})
	case spiMode:
		checkf(spiCheck(os.Stdout, cfg), "spi check failed")
	case wavMode:
		checkf(convertWAV(cfg.Timing, args.WAV.In, args.WAV.Out), "wav conversion failed")
	case batchMode:
		if len(cfg.Jobs) == 0 {
			fatalf("no jobs in configuration %q", args.ConfigPath)
		}
		results, err := runBatch(cfg, cfg.Jobs)
		for _, res := range results {
			if res != nil {
				printResult(os.Stdout, res)
				writeReport(args, res)
			}
		}
		checkf(err, "batch failed")
	case configMode:
		if args.Config.Save != "" {
			checkf(emu.SaveConfig(args.Config.Save, cfg), "failed to save configuration")
			return
		}
		printConfig(cfg)
	case versionMode:
		printVersion()
	}
}

func runOne(cfg emu.Config, args CLI, job emu.JobConfig) {
	res, err := runJob(cfg, job, true)
	if res != nil {
		printResult(os.Stdout, res)
		writeReport(args, res)
	}
	checkf(err, "%s failed", job.Name)
}

func writeReport(args CLI, res *emu.Result) {
	if args.Report == nil {
		return
	}
	checkf(emu.WriteReport(args.Report, res), "failed to write report")
}

func printConfig(cfg emu.Config) {
	checkf(emu.WriteConfig(os.Stdout, cfg), "failed to encode configuration")
}

func printVersion() {
	version := "(devel)"
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" {
		version = bi.Main.Version
	}
	fmt.Println("sidbench", version)
}
