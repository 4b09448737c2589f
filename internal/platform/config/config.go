package config

import "os"

// DevAdminToken guards the admin surface when PRELAUNCH_ADMIN_TOKEN is unset.
// It is publicly known; cmd/server warns loudly while it is in use.
const DevAdminToken = "dev-admin-token-change-in-production"

// Config captures process-level configuration for the prelaunch service.
type Config struct {
	Addr       string
	DataDir    string
	RedisURL   string
	AdminToken string
	SiteName   string
	SendGrid   SendGrid
}

// SendGrid holds email delivery settings. APIKey and FromEmail are required
// for the registration endpoint to accept submissions.
type SendGrid struct {
	APIKey     string
	FromEmail  string
	AdminEmail string
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	addr := os.Getenv("PRELAUNCH_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	dataDir := os.Getenv("PRELAUNCH_DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}

	siteName := os.Getenv("PRELAUNCH_SITE_NAME")
	if siteName == "" {
		siteName = "Mokumoku React"
	}

	adminToken := os.Getenv("PRELAUNCH_ADMIN_TOKEN")
	if adminToken == "" {
		adminToken = DevAdminToken
	}

	return Config{
		Addr:       addr,
		DataDir:    dataDir,
		RedisURL:   os.Getenv("PRELAUNCH_REDIS_URL"),
		AdminToken: adminToken,
		SiteName:   siteName,
		SendGrid: SendGrid{
			APIKey:     os.Getenv("SENDGRID_API_KEY"),
			FromEmail:  os.Getenv("SENDGRID_FROM_EMAIL"),
			AdminEmail: os.Getenv("SENDGRID_ADMIN_EMAIL"),
		},
	}
}
