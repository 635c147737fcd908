package main

import (
	"hivemind-service/internal/roadnet"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

// mapgen writes a road map in the coordinator's JSON format, either as a
// generated grid city or converted from an OpenStreetMap extract.
func main() {
	seed := pflag.Int64("seed", time.Now().UnixNano(), "generator seed")
	block := pflag.Float64("block", roadnet.DefaultBlockSize, "grid block size")
	out := pflag.String("out", "city.json", "output path")
	fromOSM := pflag.String("from-osm", "", "convert this .osm XML file instead of generating")
	epsilon := pflag.Float64("epsilon", roadnet.DefaultEpsilon, "merge distance used for the summary")
	pflag.Parse()

	var segs []roadnet.Segment
	if *fromOSM != "" {
		data, err := os.ReadFile(*fromOSM)
		if err != nil {
			log.Fatal(err)
		}
		segs, err = roadnet.FromOSM(data)
		if err != nil {
			log.Fatal(err)
		}
	} else {
		segs = roadnet.GenerateGrid(*seed, *block)
	}

	if err := roadnet.WriteJSON(*out, segs); err != nil {
		log.Fatal(err)
	}

	g := roadnet.Build(segs, *epsilon)
	log.WithFields(log.Fields{
		"out":      *out,
		"segments": len(segs),
		"nodes":    len(g.Nodes),
		"edges":    len(g.Edges),
	}).Info("map written")
}
