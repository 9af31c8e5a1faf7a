package config

// ServerConfig holds configuration for the fixture storefront server
type ServerConfig struct {
	Port         string
	TemplatePath string
}

// LoadServerConfig loads storefront server configuration from environment variables
func LoadServerConfig(getenv func(string) string) ServerConfig {
	port := getenv("PORT")
	if port == "" {
		port = "8080" // Default to port 8080
	}

	return ServerConfig{
		Port:         port,
		TemplatePath: getenv("STOREFRONT_TEMPLATES"),
	}
}
