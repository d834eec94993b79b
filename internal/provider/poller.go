package provider

import (
	"context"
	"log/slog"

	"weathermon-server/internal/modules/observations/service"
	"weathermon-server/internal/regions"
)

// Poller fetches recent hourly data for every cataloged region and feeds it
// through the ingest path, so pulled and pushed observations share the same
// validation and dedup rules.
type Poller struct {
	client    *OpenMeteoClient
	svc       *service.Service
	registry  *regions.Registry
	hoursBack int
	logger    *slog.Logger
}

func NewPoller(client *OpenMeteoClient, svc *service.Service, registry *regions.Registry, hoursBack int, logger *slog.Logger) *Poller {
	return &Poller{
		client:    client,
		svc:       svc,
		registry:  registry,
		hoursBack: hoursBack,
		logger:    logger,
	}
}

// RunOnce polls all regions. A failing region is logged and skipped; the
// remaining regions are still polled.
func (p *Poller) RunOnce(ctx context.Context) {
	for _, region := range p.registry.All() {
		if ctx.Err() != nil {
			p.logger.Warn("poll aborted", "error", ctx.Err())
			return
		}

		records, err := p.client.FetchHourly(ctx, region, p.hoursBack)
		if err != nil {
			p.logger.Error("poll region failed", "region", region.Code, "error", err)
			continue
		}
		if len(records) == 0 {
			p.logger.Warn("no data for region", "region", region.Code)
			continue
		}

		results := p.svc.Ingest(records)
		var applied, rejected int
		for _, res := range results {
			if res.Error == "" {
				applied++
			} else {
				rejected++
			}
		}
		p.logger.Info("polled region",
			"region", region.Code,
			"records", len(records),
			"applied", applied,
			"rejected", rejected,
		)
	}
}
