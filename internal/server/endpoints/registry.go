package endpoints

import (
	"github.com/jackzampolin/pdfa11y/internal/api"
)

// All returns all endpoint instances.
func All() []api.Endpoint {
	return []api.Endpoint{
		// Health endpoints
		&HealthEndpoint{},
		&ReadyEndpoint{},
		&StatusEndpoint{},

		// Audit endpoints
		&AnalyzeEndpoint{},
		&ReportEndpoint{},
		&RemediateEndpoint{},
		&DownloadEndpoint{},

		// Page endpoints
		&ListPagesEndpoint{},
		&PageImageEndpoint{},
		&OverlayEndpoint{},

		// Metrics endpoints
		&ListMetricsEndpoint{},
		&MetricsSummaryEndpoint{},

		// Settings endpoints
		&ListSettingsEndpoint{},
		&GetSettingEndpoint{},

		// Swagger/OpenAPI endpoints
		&SwaggerEndpoint{},
		&SwaggerUIEndpoint{},

		// Static files (catch-all, must be last)
		&StaticEndpoint{},
	}
}
