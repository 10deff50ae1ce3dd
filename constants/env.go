package constants

const (
	APPNAME = "civitas"

	EnvLogLevel           = "CIVITAS_LOG_LEVEL"
	EnvDebug              = "CIVITAS_DEBUG"
	EnvOtelEnabled        = "CIVITAS_OTEL_ENABLED"
	EnvOtelEndpoint       = "CIVITAS_OTEL_ENDPOINT"
	EnvOtelProtocol       = "CIVITAS_OTEL_PROTOCOL"
	EnvOtelTraceExecution = "CIVITAS_OTEL_TRACE_EXECUTION"

	EnvCatalogueDir = "CIVITAS_CATALOGUE_DIR"
	EnvDatasetDir   = "CIVITAS_DATASET_DIR"
	EnvModelDir     = "CIVITAS_MODEL_DIR"
	EnvExtractRoot  = "CIVITAS_EXTRACT_CONFIG_ROOT"
)
