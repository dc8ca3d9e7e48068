package utils

import (
	"expvar"
)

var TranscriptsProcessed = expvar.NewInt("transcripts_processed_total")
var ValidationFailures = expvar.NewInt("transcripts_validation_failures_total")
var UpstreamFailures = expvar.NewInt("transcripts_upstream_failures_total")
var AnalysesStored = expvar.NewInt("analyses_stored_total")
var ReanalysisRequests = expvar.NewInt("reanalysis_requests_total")
