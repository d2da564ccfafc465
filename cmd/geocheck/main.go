// Command geocheck validates a GeoJSON document the same way the ingestor
// does and prints the result.
package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"

	"incidentmap/pkg/geo"
	"incidentmap/pkg/logger"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	Context string `short:"c" long:"context" description:"Label prefixed to every message, e.g. the incident id"`
	Pretty  bool   `short:"p" long:"pretty"  description:"Indent the JSON output"`

	Args struct {
		File string `positional-arg-name:"FILE" description:"GeoJSON file, stdin when omitted"`
	} `positional-args:"yes"`
}

const (
	exitValid   = 0
	exitInvalid = 1
	exitIO      = 2
)

func main() {
	var opts Options
	if _, err := flags.NewParser(&opts, flags.Default).Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(exitValid)
		}
		os.Exit(exitIO)
	}
	opts.Logger.Setup()

	os.Exit(run(opts, os.Stdin, os.Stdout))
}

func run(opts Options, stdin io.Reader, stdout io.Writer) int {
	data, err := readInput(opts.Args.File, stdin)
	if err != nil {
		log.Error().Err(err).Str("file", opts.Args.File).Msg("Failed to read input")
		return exitIO
	}

	res := geo.ValidateJSON(data, opts.Context)

	enc := json.NewEncoder(stdout)
	if opts.Pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(res); err != nil {
		log.Error().Err(err).Msg("Failed to write result")
		return exitIO
	}

	if !res.Valid {
		return exitInvalid
	}
	return exitValid
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}
