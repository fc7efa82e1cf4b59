package config

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

const defaultSessionTTL = 24 * time.Hour

type Options struct {
	runAddr       string
	logLevel      string
	logFile       string
	geminiAPIKey  string
	geminiModel   string
	adminUser     string
	adminPassword string
	sessionSecret string
	sessionTTL    time.Duration
}

func NewOptions() *Options {
	return new(Options)
}

// ParseFlags handles command line arguments
// and stores their values in the corresponding variables.
func (o *Options) ParseFlags() {
	// Load environment variables from the .env file
	loadEnvFile()

	if err := o.parse(flag.CommandLine, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func (o *Options) parse(fs *flag.FlagSet, args []string) error {
	// Override variable values with values from command line flags
	fs.StringVar(&o.runAddr, "a", getEnvOrDefault("RUN_ADDRESS", ":8080"), "address and port to run server")
	fs.StringVar(&o.logLevel, "l", getEnvOrDefault("LOG_LEVEL", "debug"), "log level")
	fs.StringVar(&o.logFile, "f", getEnvOrDefault("LOG_FILE", ""), "rotated log file, stdout only when empty")
	fs.StringVar(&o.geminiAPIKey, "k", getEnvOrDefault("GEMINI_API_KEY", ""), "default Gemini API key for the shopping assistant")
	fs.StringVar(&o.geminiModel, "m", getEnvOrDefault("GEMINI_MODEL", "gemini-2.5-flash"), "Gemini model name")
	fs.StringVar(&o.sessionSecret, "s", getEnvOrDefault("SESSION_SECRET", ""), "secret used to sign session tokens")
	fs.DurationVar(&o.sessionTTL, "t", cast.ToDuration(getEnvOrDefault("SESSION_TTL", defaultSessionTTL.String())), "session token lifetime")
	o.adminUser = getEnvOrDefault("ADMIN_USER", "admin")
	o.adminPassword = getEnvOrDefault("ADMIN_PASSWORD", "password")

	// parse the arguments passed to the server into registered variables
	if err := fs.Parse(args); err != nil {
		return err
	}
	if o.sessionTTL <= 0 {
		o.sessionTTL = defaultSessionTTL
	}
	return nil
}

func (o *Options) RunAddr() string {
	return o.runAddr
}

func (o *Options) LogLevel() string {
	return o.logLevel
}

func (o *Options) LogFile() string {
	return o.logFile
}

func (o *Options) GeminiAPIKey() string {
	return o.geminiAPIKey
}

func (o *Options) GeminiModel() string {
	return o.geminiModel
}

func (o *Options) AdminUser() string {
	return o.adminUser
}

func (o *Options) AdminPassword() string {
	return o.adminPassword
}

// SessionSecret may be empty; the app then signs with a random per-process key.
func (o *Options) SessionSecret() string {
	return o.sessionSecret
}

func (o *Options) SessionTTL() time.Duration {
	return o.sessionTTL
}

// getEnvOrDefault reads an environment variable or returns a default value if the variable is not set or is empty.
func getEnvOrDefault(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

// loadEnvFile loads environment variables from a .env file
func loadEnvFile() {
	// Determine the path to the .env file relative to the current working directory
	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}
	envPath := filepath.Join(cwd, "..", "..", ".env")

	// Load environment variables from the .env file
	err = godotenv.Load(envPath)
	if err != nil {
		log.Printf("No .env file found at %s, proceeding without it", envPath)
	} else {
		log.Printf(".env file loaded from %s", envPath)
	}
}
