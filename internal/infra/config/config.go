// internal/infra/config/config.go
package config

import "os"

// Config holds environment-variable configuration for the whole app.
type Config struct {
	Port                     string
	GCPCreds                 string
	FirestoreProjectID       string
	FirestoreCredentialsFile string

	// Firebase Auth project (defaults to the GCP project).
	FirebaseProjectID string

	// Profile photo bucket (GCS).
	ProfilePhotoBucket string

	// Order confirmation mail. The API key is usually resolved from Secret
	// Manager at boot; SENDGRID_API_KEY is the local-dev override.
	SendGridAPIKey string
	MailFrom       string

	// Optional Postgres order archive. Empty host disables archiving.
	ArchiveDBHost     string
	ArchiveDBPort     string
	ArchiveDBUser     string
	ArchiveDBPassword string
	ArchiveDBName     string
}

// Load reads environment variables and returns a Config.
func Load() *Config {
	defaultProject := getenvDefault("GCP_PROJECT_ID", "botparts-store")

	cfg := &Config{
		Port:                     getenvDefault("PORT", "8080"),
		GCPCreds:                 os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		FirestoreProjectID:       getenvDefault("FIRESTORE_PROJECT_ID", defaultProject),
		FirestoreCredentialsFile: os.Getenv("FIRESTORE_CREDENTIALS_FILE"),
		FirebaseProjectID:        getenvDefault("FIREBASE_PROJECT_ID", defaultProject),

		ProfilePhotoBucket: os.Getenv("PROFILE_PHOTO_BUCKET"),

		SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		MailFrom:       getenvDefault("MAIL_FROM", "orders@botparts.example"),

		ArchiveDBHost:     os.Getenv("ARCHIVE_DB_HOST"),
		ArchiveDBPort:     getenvDefault("ARCHIVE_DB_PORT", "5432"),
		ArchiveDBUser:     os.Getenv("ARCHIVE_DB_USER"),
		ArchiveDBPassword: os.Getenv("ARCHIVE_DB_PASSWORD"),
		ArchiveDBName:     os.Getenv("ARCHIVE_DB_NAME"),
	}

	return cfg
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
