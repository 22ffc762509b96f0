package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jinwoolab/openingmix/internal/audio"
	"github.com/jinwoolab/openingmix/internal/compose"
	"github.com/jinwoolab/openingmix/internal/config"
	"github.com/jinwoolab/openingmix/internal/plan"
)

func main() {
	bedPath := flag.String("bed", "", "background music file (required)")
	speechPath := flag.String("speech", "", "synthesized speech file (required)")
	effectPath := flag.String("effect", "", "transition effect file (optional)")
	title := flag.String("title", "opening", "title used for the default output name")
	outPath := flag.String("out", "", "output file (default: <output dir>/opening_<title>.mp3)")
	flag.Parse()

	if *bedPath == "" || *speechPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()
	recipe := plan.Recipe{
		LeadInMS:         int64(cfg.LeadInMS),
		BedAttenuationDB: cfg.BedAttenuationDB,
		PostRollMS:       int64(cfg.PostRollMS),
		FadeOutMS:        int64(cfg.FadeOutMS),
		EffectGainDB:     cfg.EffectGainDB,
	}

	// The three sources are independent and read-only, so decode them in
	// parallel. Everything after that is strictly sequential.
	var bed, effect, speech *audio.Buffer
	var g errgroup.Group
	g.Go(func() (err error) {
		bed, err = audio.DecodeFile(*bedPath)
		return err
	})
	g.Go(func() (err error) {
		speech, err = audio.DecodeFile(*speechPath)
		return err
	})
	if *effectPath != "" {
		g.Go(func() (err error) {
			effect, err = audio.DecodeFile(*effectPath)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatalf("decode: %v", err)
	}
	log.Printf("sources: bed=%dms effect=%dms speech=%dms",
		bed.LengthMS(), lengthMS(effect), speech.LengthMS())

	start := time.Now()
	res, err := compose.Render(bed, effect, speech, recipe)
	if err != nil {
		log.Fatalf("compose: %v", err)
	}

	out := *outPath
	if out == "" {
		out = filepath.Join(cfg.OutputDir,
			fmt.Sprintf("opening_%s.%s", *title, res.Format.Extension))
	}
	if err := os.WriteFile(out, res.Bytes, 0o644); err != nil {
		log.Fatalf("write %s: %v", out, err)
	}

	log.Printf("wrote %s: %.1fs of audio, %d bytes (%s, %dkbps) in %v",
		out, float64(res.Buffer.LengthMS())/1000, len(res.Bytes),
		res.Format.MIME, res.Format.BitrateKbps, time.Since(start).Round(time.Millisecond))
}

func lengthMS(b *audio.Buffer) int64 {
	if b == nil {
		return 0
	}
	return b.LengthMS()
}
