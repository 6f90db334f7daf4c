package cfg

type Cfg struct {
	// Mode of operation: run, check, or serve
	Mode string

	// AI service configuration
	GoogleAPIKey string
	GeminiModel  string

	// Collection configuration
	SourcesDir        string
	Industries        []string
	RequestsPerSecond float64
	UserAgent         string

	// Serve mode configuration
	Port           string
	APIAccessKey   string
	UpdateInterval int

	// Application metadata
	EmailAddress string
	SaveReports  bool
	ReportsDir   string
	Timezone     string
	Debug        bool
	Version      string
}
