package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/esimov/dither"
	"github.com/esimov/dither/utils"
	log "github.com/sirupsen/logrus"
)

const helpBanner = `
┌┬┐┬┌┬┐┬ ┬┌─┐┬─┐
 │││ │ ├─┤├┤ ├┬┘
─┴┘┴ ┴ ┴ ┴└─┘┴└─

Image dithering library.
    Version: %s

`

// pipeName is the file name that indicates stdin/stdout is being used.
const pipeName = "-"

// Version indicates the current build version.
var Version string

var (
	// Flags
	source      = flag.String("in", pipeName, "Source")
	destination = flag.String("out", pipeName, "Destination")
	method      = flag.String("method", string(dither.FloydSteinbergMethod), "Dithering method: "+methodNames()+" or all")
	threshold   = flag.Int("threshold", 128, "Black and white threshold")
	levels      = flag.Int("levels", 2, "Number of grey levels")
	bayerSize   = flag.Int("bayer", 4, "Bayer matrix size (2, 4, 8 or 16)")
	seed        = flag.Uint64("seed", 0, "Random threshold seed (0 is reserved for a time based seed)")
	newWidth    = flag.Int("width", 0, "Rescale the source to the new width")
	newHeight   = flag.Int("height", 0, "Rescale the source to the new height")
	gamma       = flag.Float64("gamma", 1.0, "Gamma correction")
	sheet       = flag.Bool("sheet", false, "Generate a side by side contact sheet (used with -method all)")
	workers     = flag.Int("conc", runtime.NumCPU(), "Number of files to process concurrently")
	configPath  = flag.String("config", "", "Configuration file")
	logLevel    = flag.String("level", "warn", "Log level")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, helpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fatal(err)
	}
	if err := cfg.apply(flag.CommandLine); err != nil {
		fatal(err)
	}
	setupLogger(*logLevel)

	proc := &dither.Processor{
		Method:    *method,
		Threshold: *threshold,
		Levels:    *levels,
		BayerSize: *bayerSize,
		Seed:      *seed,
		Width:     *newWidth,
		Height:    *newHeight,
		Gamma:     *gamma,
		Sheet:     *sheet,
		Workers:   *workers,
	}

	op := &dither.Ops{
		Src:      *source,
		Dst:      *destination,
		PipeName: pipeName,
		Workers:  *workers,
	}

	if err := proc.Execute(op); err != nil {
		fatal(err)
	}
}

// setupLogger configures the structured logger used for the timing reports.
func setupLogger(level string) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.WarnLevel
	}
	log.SetLevel(lvl)
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{
		DisableTimestamp: true,
	})
}

// fatal prints the error in red and exits with a non-zero status.
func fatal(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", utils.DecorateText(err.Error(), utils.ErrorMessage))
	os.Exit(1)
}

func methodNames() string {
	names := make([]string, 0, len(dither.Methods()))
	for _, m := range dither.Methods() {
		names = append(names, string(m))
	}
	return strings.Join(names, ", ")
}
