package main

import (
	"strconv"
	"strings"

	"github.com/projectdiscovery/goflags"
	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/gologger/levels"

	"piicoinfo-go/errcode"
	"piicoinfo-go/types"
	"piicoinfo-go/x/strx"
)

// Options holds the command line of piico-info.
type Options struct {
	Bus       string
	Frequency int
	External  string

	Mode      string
	ListAll   bool
	Conflicts bool
	WhatIs    goflags.StringSlice
	Show      string

	Verbose bool
	Silent  bool
}

func parseOptions() *Options {
	options := &Options{}

	flagSet := goflags.NewFlagSet()
	flagSet.SetDescription(`piico-info identifies PiicoDev modules on an I2C bus`)

	flagSet.CreateGroup("input", "Input",
		flagSet.StringVarP(&options.Bus, "bus", "b", types.DefaultBusID, "i2c bus to scan (i2c0, i2c1 or a periph bus name)"),
		flagSet.IntVarP(&options.Frequency, "freq", "f", types.DefaultFrequency, "bus clock in Hz"),
		flagSet.StringVarP(&options.External, "external", "e", "", "yaml file describing extra devices"),
	)

	flagSet.CreateGroup("output", "Output",
		flagSet.StringVarP(&options.Mode, "mode", "m", "what", "name style (what, short, long)"),
		flagSet.BoolVarP(&options.ListAll, "list-all", "la", false, "list every known device instead of scanning results"),
		flagSet.BoolVarP(&options.Conflicts, "conflicts", "c", false, "include conflicting devices in -list-all"),
		flagSet.StringSliceVarP(&options.WhatIs, "what-is", "w", nil, "describe the given addresses (decimal or 0x-hex)", goflags.CommaSeparatedStringSliceOptions),
		flagSet.StringVarP(&options.Show, "show", "s", "", "also print the connected addresses (int, hex)"),
	)

	flagSet.CreateGroup("debug", "Debug",
		flagSet.BoolVarP(&options.Verbose, "verbose", "v", false, "show verbose output"),
		flagSet.BoolVar(&options.Silent, "silent", false, "show only report lines"),
	)

	if err := flagSet.Parse(); err != nil {
		gologger.Fatal().Msgf("%s\n", err)
	}

	options.configureOutput()
	if err := options.validate(); err != nil {
		gologger.Fatal().Msgf("%s\n", err)
	}
	return options
}

func (options *Options) configureOutput() {
	if options.Verbose {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelVerbose)
	}
	if options.Silent {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelSilent)
	}
}

func (options *Options) validate() error {
	options.Show = strx.Fold(options.Show)
	switch options.Show {
	case "", "int", "hex":
	default:
		return &errcode.E{C: errcode.InvalidParams, Op: "show", Msg: options.Show}
	}
	if options.Frequency <= 0 {
		return &errcode.E{C: errcode.InvalidParams, Op: "freq", Msg: strconv.Itoa(options.Frequency)}
	}
	if options.Conflicts && !options.ListAll {
		gologger.Warning().Msg("-conflicts only applies to -list-all")
	}
	if _, err := options.addresses(); err != nil {
		return err
	}
	return nil
}

// busConfig keeps the Pico default pins; on Linux they are ignored.
func (options *Options) busConfig() types.BusConfig {
	cfg := types.DefaultBusConfig()
	cfg.ID = strx.Coalesce(options.Bus, types.DefaultBusID)
	cfg.Frequency = uint32(options.Frequency)
	return cfg
}

func (options *Options) addresses() ([]types.Address, error) {
	out := make([]types.Address, 0, len(options.WhatIs))
	for _, s := range options.WhatIs {
		a, err := parseAddress(s)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// parseAddress accepts "83", "0x53" or "0X53". Values above 0x7F are allowed
// and simply come back as unknown.
func parseAddress(s string) (types.Address, error) {
	s = strings.TrimSpace(s)
	n, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, &errcode.E{C: errcode.InvalidParams, Op: "what-is", Msg: s}
	}
	return types.Address(n), nil
}
