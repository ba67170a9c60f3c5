// Command piico-info scans an I2C bus on a Linux host and prints what each
// responding address probably is.
package main

import (
	"io"
	"os"

	"github.com/projectdiscovery/gologger"

	"piicoinfo-go/internal/platform"
	"piicoinfo-go/services/piico"
	"piicoinfo-go/services/piico/exttable"
	"piicoinfo-go/types"
)

func main() {
	options := parseOptions()
	if err := run(options, platform.NewOpener(), os.Stdout); err != nil {
		gologger.Fatal().Msgf("%s\n", err)
	}
}

func run(options *Options, op piico.Opener, out io.Writer) error {
	var ext types.Table
	if options.External != "" {
		t, err := exttable.LoadFile(options.External)
		if err != nil {
			return err
		}
		gologger.Verbose().Msgf("loaded %d external devices from %s", len(t), options.External)
		ext = t
	}

	cfg := options.busConfig()
	reg, err := piico.New(op, cfg)
	if err != nil {
		return err
	}
	gologger.Info().Msgf("%d devices on %s", reg.ConnectedCount(), cfg.ID)

	switch options.Show {
	case "int":
		if _, err := io.WriteString(out, piico.FormatDecimal(reg.Connected())+"\n"); err != nil {
			return err
		}
	case "hex":
		if _, err := io.WriteString(out, piico.FormatHex(reg.Connected())+"\n"); err != nil {
			return err
		}
	}

	mode := types.ParseMode(options.Mode)
	addrs, err := options.addresses()
	if err != nil {
		return err
	}

	switch {
	case options.ListAll:
		return piico.Render(out, reg.ListAll(mode, options.Conflicts, ext))
	case len(addrs) > 0:
		for _, a := range addrs {
			if err := piico.Render(out, reg.DescribeAddress(a, mode, ext)); err != nil {
				return err
			}
		}
		return nil
	default:
		return piico.Render(out, reg.DescribeConnected(mode, ext))
	}
}
