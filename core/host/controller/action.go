package controller

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"go.dedis.ch/recordstore"
	"go.dedis.ch/recordstore/cli/node"
	"golang.org/x/xerrors"
)

// metricsAction prints the collectors of the process.
//
// - implements node.ActionTemplate
type metricsAction struct{}

// Execute implements node.ActionTemplate. It gathers the collectors in a new
// registry and writes them in the text exposition format.
func (metricsAction) Execute(ctx node.Context) error {
	registry := prometheus.NewRegistry()

	for _, c := range recordstore.PromCollectors {
		err := registry.Register(c)
		if err != nil {
			return xerrors.Errorf("failed to register: %v", err)
		}
	}

	families, err := registry.Gather()
	if err != nil {
		return xerrors.Errorf("failed to gather: %v", err)
	}

	for _, family := range families {
		_, err = expfmt.MetricFamilyToText(ctx.Out, family)
		if err != nil {
			return xerrors.Errorf("failed to write: %v", err)
		}
	}

	return nil
}
