package config

// Default paths for databases
const (
	// DefaultDatabasePath is the default path for the favourites database
	DefaultDatabasePath = "./stargazer.db"

	// DefaultAPIKey is NASA's shared, heavily rate-limited demo key.
	DefaultAPIKey = "DEMO_KEY"

	// DefaultPrefetchSchedule runs shortly after midnight UTC, when the new picture is published.
	DefaultPrefetchSchedule = "5 0 * * *"
)
