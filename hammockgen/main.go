// Command hammockgen generates the action type constants and endpoint
// constructors of a YAML endpoint manifest:
//
//	hammockgen -in endpoints.yaml -out endpoints_gen.go [-pkg api]
//
// -in and -out default to HAMMOCKGEN_IN and HAMMOCKGEN_OUT, which may also be
// set in a .env file. Without -out the source is written to stdout.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/mitodl/redux-hammock/logging"
)

func main() {
	_ = godotenv.Load()

	in := flag.String("in", os.Getenv("HAMMOCKGEN_IN"), "path to the endpoint manifest")
	out := flag.String("out", os.Getenv("HAMMOCKGEN_OUT"), "file to write, stdout when empty")
	pkg := flag.String("pkg", "", "package of the generated file, overrides the manifest")
	flag.Parse()

	if *in == "" {
		log.Fatal("-in is required")
	}

	if err := run(*in, *out, *pkg, logging.DefaultLogger{}); err != nil {
		log.Fatal(err)
	}
}

func run(in, out, pkg string, lgr logging.Logger) error {

	t := time.Now()

	b, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	m, err := ParseManifest(b)
	if err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}
	src, err := Generate(m, pkg)
	if err != nil {
		lgr.LogStageComplete(false, time.Since(t), "hammockgen "+in, nil)
		return fmt.Errorf("%s: %w", in, err)
	}

	if out == "" {
		_, err = os.Stdout.Write(src)
		return err
	}
	if err := os.WriteFile(out, src, 0o644); err != nil {
		return err
	}

	lgr.LogStageComplete(true, time.Since(t), fmt.Sprintf("hammockgen %s => %s (%d endpoints)", in, out, len(m.Endpoints)), nil)
	return nil
}
