package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config agrupa la configuración del servidor, suministrada por variables de
// entorno. Las credenciales llegan fuera de banda: nunca van en el código.
type Config struct {
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	S3BucketName string
	AWSRegion    string

	SpreadsheetID     string
	SheetsAccessToken string
	SyncInterval      time.Duration

	SMTPHost      string
	SMTPPort      string
	SMTPUser      string
	SMTPPassword  string
	SMTPFromName  string
	SMTPFromEmail string

	CORSOrigins string
}

// LoadConfig carga la configuración desde el entorno. Un archivo .env local es
// opcional; en despliegue las variables vienen del entorno del proceso.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port: getEnv("PORT", "8080"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		S3BucketName: os.Getenv("S3_BUCKET_NAME"),
		AWSRegion:    getEnv("AWS_REGION", "us-east-1"),

		SpreadsheetID:     os.Getenv("GOOGLE_SPREADSHEET_ID"),
		SheetsAccessToken: os.Getenv("GOOGLE_SHEETS_TOKEN"),

		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPPort:      getEnv("SMTP_PORT", "587"),
		SMTPUser:      os.Getenv("SMTP_USER"),
		SMTPPassword:  os.Getenv("SMTP_PASSWORD"),
		SMTPFromName:  getEnv("SMTP_FROM_NAME", "Padrón"),
		SMTPFromEmail: os.Getenv("SMTP_FROM_EMAIL"),

		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
	}

	intervalo, err := time.ParseDuration(getEnv("SYNC_INTERVAL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("SYNC_INTERVAL inválido: %w", err)
	}
	cfg.SyncInterval = intervalo

	if cfg.DBUser == "" || cfg.DBName == "" {
		return nil, fmt.Errorf("faltan variables de base de datos (DB_USER, DB_NAME)")
	}

	return cfg, nil
}

// GetDBConnString construye la cadena de conexión a Postgres
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// SheetsEnabled indica si el espejo de hoja de cálculo está configurado
func (c *Config) SheetsEnabled() bool {
	return c.SpreadsheetID != "" && c.SheetsAccessToken != ""
}

// EmailEnabled indica si el envío de correos está configurado
func (c *Config) EmailEnabled() bool {
	return c.SMTPHost != "" && c.SMTPFromEmail != ""
}

func getEnv(clave, defecto string) string {
	if valor := os.Getenv(clave); valor != "" {
		return valor
	}
	return defecto
}
