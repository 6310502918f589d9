package cmd

import (
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion describes the command line for shell completion.
func Completion() *complete.Command {
	global := map[string]complete.Predictor{
		"env-file":  predict.Files("*"),
		"log-level": predict.Set{"debug", "info", "warn", "error", "off"},
	}
	return &complete.Command{
		Flags: global,
		Sub: map[string]*complete.Command{
			"fetch": {
				Flags: map[string]complete.Predictor{
					"date":        predict.Something,
					"o":           predict.Files("*.ofx"),
					"dir":         predict.Dirs("*"),
					"raw":         predict.Nothing,
					"no-ofx":      predict.Nothing,
					"concurrency": predict.Something,
					"attempts":    predict.Something,
					"account":     predict.Something,
				},
				Args: predict.Something,
			},
			"classify": {
				Flags: map[string]complete.Predictor{"raw": predict.Nothing},
				Args:  predict.Something,
			},
			"help":     {Args: predict.Set{"fetch", "classify"}},
			"flags":    {},
			"commands": {},
		},
	}
}
