package metrics

const (

	// common prefix for all metric names
	prefix = "oneagent_"

	// Prometheus Labels
	componentLabel = "component"
	operationLabel = "operation"
	errorCodeLabel = "errorCode"
	versionLabel   = "version"
	goVersionLabel = "goversion"
)
