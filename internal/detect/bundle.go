package detect

import (
	"fmt"

	"github.com/mapscan-dev/mapscan-backend/internal/detect/domain"
	"github.com/mapscan-dev/mapscan-backend/internal/detect/notify"
)

type serviceKey struct {
	from, to string
}

type endpointKey struct {
	from, to, endpoint string
}

// DetectRequestBundle scans one user's chronological pipeline for runs of
// consecutive identical calls, independently at service granularity
// (from, to) and endpoint granularity (from, to, endpoint). A run is
// reported when a different key closes it and its length reached the
// threshold.
//
// A run still open when the pipeline ends is never reported, even when it
// meets the threshold. Callers that need end-of-pipeline bundles must
// append a differing sentinel call to flush the final run.
func DetectRequestBundle(pipeline domain.Pipeline, opts Options) ([]domain.ServiceBundle, []domain.EndpointBundle) {
	opts = opts.withDefaults()

	bundlesService := []domain.ServiceBundle{}
	bundlesEndpoint := []domain.EndpointBundle{}

	var lastService serviceKey
	var lastEndpoint endpointKey
	haveService := false
	haveEndpoint := false
	countService := 1
	countEndpoint := 1

	for _, call := range pipeline {
		curService := serviceKey{call.FromService, call.ToService}
		curEndpoint := endpointKey{call.FromService, call.ToService, call.Endpoint}

		if haveService && curService == lastService {
			countService++
		} else {
			if haveService && countService >= opts.ThresholdService {
				bundlesService = append(bundlesService, domain.ServiceBundle{
					FromService: lastService.from,
					ToService:   lastService.to,
					Count:       countService,
				})
				opts.Sink.Notify(notify.Notification{
					User: opts.User,
					Kind: domain.PatternRequestBundle,
					Message: fmt.Sprintf("Service-level request bundle detected between %s and %s with count %d",
						lastService.from, lastService.to, countService),
				})
			}
			countService = 1
			lastService = curService
			haveService = true
		}

		if haveEndpoint && curEndpoint == lastEndpoint {
			countEndpoint++
		} else {
			if haveEndpoint && countEndpoint >= opts.ThresholdEndpoint {
				bundlesEndpoint = append(bundlesEndpoint, domain.EndpointBundle{
					FromService: lastEndpoint.from,
					ToService:   lastEndpoint.to,
					Endpoint:    lastEndpoint.endpoint,
					Count:       countEndpoint,
				})
				opts.Sink.Notify(notify.Notification{
					User: opts.User,
					Kind: domain.PatternRequestBundle,
					Message: fmt.Sprintf("Endpoint-level request bundle detected between %s and %s%s with count %d",
						lastEndpoint.from, lastEndpoint.to, lastEndpoint.endpoint, countEndpoint),
				})
			}
			countEndpoint = 1
			lastEndpoint = curEndpoint
			haveEndpoint = true
		}
	}

	return bundlesService, bundlesEndpoint
}
