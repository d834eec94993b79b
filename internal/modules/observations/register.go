package observations

import (
	"log/slog"
	"net/http"

	"weathermon-server/internal/modules/observations/controller"
	"weathermon-server/internal/modules/observations/service"
	"weathermon-server/internal/modules/observations/types"
	"weathermon-server/internal/regions"
)

// BatchSubscriber is satisfied by the MQTT subscriber; an interface keeps the
// feature decoupled from the transport.
type BatchSubscriber interface {
	SetBatchHandler(handler func(batch types.IngestBatch) error)
}

// RegisterFeature wires the observations HTTP routes and, when a subscriber
// is provided, the MQTT ingestion handler.
func RegisterFeature(mux *http.ServeMux, svc *service.Service, registry *regions.Registry, subscriber BatchSubscriber) {
	observationsController := controller.NewObservationsController(svc, registry)
	observationsController.RegisterRoutes(mux)

	if subscriber != nil {
		registerBatchHandler(subscriber, svc)
	}
}

func registerBatchHandler(subscriber BatchSubscriber, svc *service.Service) {
	subscriber.SetBatchHandler(func(batch types.IngestBatch) error {
		results := svc.Ingest(batch.Observations)

		var inserted, replaced, rejected int
		for _, res := range results {
			switch res.Outcome {
			case string(types.OutcomeInserted):
				inserted++
			case string(types.OutcomeReplaced):
				replaced++
			default:
				rejected++
				slog.Warn("ingest record rejected",
					"region", res.RegionCode,
					"timestamp", res.Timestamp,
					"error", res.Error,
				)
			}
		}
		slog.Debug("ingest batch applied",
			"records", len(results),
			"inserted", inserted,
			"replaced", replaced,
			"rejected", rejected,
		)
		return nil
	})
}
