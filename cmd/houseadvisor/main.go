package main

import (
	"errors"
	"flag"
	"io"
	"log"
	"os"

	"github.com/FlavioCFOliveira/HouseAdvisor/advisor"
	"github.com/FlavioCFOliveira/HouseAdvisor/internal/config"
	"github.com/FlavioCFOliveira/HouseAdvisor/internal/prompt"
)

func main() {
	cfgPath := flag.String("config", "", "Path to YAML config")
	dataPath := flag.String("data", "", "Override training data file (TSV)")
	seed := flag.Uint64("seed", 0, "PRNG seed for parameter initialisation (overrides the config file when given)")
	gradient := flag.String("gradient", "", "Gradient backend: closed-form or tape")
	progressCSV := flag.String("progress-csv", "", "Mirror epoch progress to this CSV file")
	interactive := flag.Bool("interactive", false, "Ask for houses to score after training")
	generate := flag.String("generate", "", "Write a synthetic TSV data file to this path and exit")
	generateN := flag.Int("generate-n", 40, "Number of samples written by -generate")

	flag.Parse()

	if *generate != "" {
		if err := writeSynthetic(*generate, *generateN, *seed); err != nil {
			log.Fatalf("generate data: %v", err)
		}
		log.Printf("generated=%s samples=%d", *generate, *generateN)
		return
	}

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}

	var seedOverride *uint64
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			seedOverride = seed
		}
	})

	cfg.ApplyOverrides(config.Overrides{
		DataPath:    *dataPath,
		Seed:        seedOverride,
		Gradient:    *gradient,
		ProgressCSV: *progressCSV,
		Interactive: *interactive,
	})

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	ds, err := advisor.LoadTSV(cfg.DataPath)
	if err != nil {
		log.Fatalf("load data: %v", err)
	}
	log.Printf("data=%s samples=%d positives=%d gradient=%s seed=%d",
		cfg.DataPath, ds.Len(), ds.Positives(), cfg.Gradient, cfg.Seed)

	var opts []advisor.Option
	if cfg.Gradient == config.GradientTape {
		opts = append(opts, advisor.WithTape())
	}
	model := advisor.New(cfg.Seed, opts...)

	callbacks := []advisor.Callback{advisor.Logger(os.Stdout)}
	if cfg.ProgressCSV != "" {
		callbacks = append(callbacks, advisor.CSVLogger(cfg.ProgressCSV))
	}
	if _, err := model.Train(ds, callbacks...); err != nil {
		log.Fatalf("training failed: %v", err)
	}

	report, err := model.Evaluate(ds)
	if err != nil {
		log.Fatalf("evaluation failed: %v", err)
	}
	if _, err := report.WriteTo(os.Stdout); err != nil {
		log.Fatalf("write report: %v", err)
	}

	if cfg.Interactive {
		if err := serve(prompt.NewSession(os.Stdin, os.Stdout, model)); err != nil {
			log.Fatalf("interactive session: %v", err)
		}
	}
}

// serve answers requests until the input ends.
func serve(s *prompt.Session) error {
	for {
		_, err := s.Ask()
		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, prompt.ErrInvalidNumber):
			log.Printf("skipped request: %v", err)
		default:
			return err
		}
	}
}

func writeSynthetic(path string, n int, seed uint64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := advisor.WriteTSV(f, advisor.Synthetic(n, seed)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
