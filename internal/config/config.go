package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/rhyrak/smart-timetable/internal/scheduler"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	Scheduler *scheduler.Configuration
	PDFTitle  string

	Database DatabaseConfig
	Redis    RedisConfig
	CORS     CORSConfig
	Log      LogConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
	TTL      time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// flags maps command-line flags onto configuration keys.
var flags = []struct {
	name, key, usage string
}{
	{"subjects", "SUBJECTS_FILE", "subjects CSV file"},
	{"faculty", "FACULTY_FILE", "faculty CSV file"},
	{"classrooms", "CLASSROOMS_FILE", "classrooms CSV file"},
	{"timeslots", "TIMESLOTS_FILE", "time slots CSV file"},
	{"batches", "BATCHES_FILE", "student batches CSV file"},
	{"out", "EXPORT_FILE", "CSV export file"},
	{"pdf", "PDF_FILE", "PDF export file, empty to skip"},
	{"delimiter", "CSV_DELIMITER", "input CSV delimiter"},
	{"log-level", "LOG_LEVEL", "log level"},
	{"log-format", "LOG_FORMAT", "log encoding (json or console)"},
}

var intFlags = []struct {
	name, key, usage string
}{
	{"max-batch-per-day", "MAX_BATCH_PER_DAY", "sessions a batch may attend per day"},
	{"max-faculty-per-day", "MAX_FACULTY_PER_DAY", "sessions a faculty may teach per day"},
	{"max-faculty-per-week", "MAX_FACULTY_PER_WEEK", "sessions a faculty may teach per week"},
	{"max-attempts", "MAX_ATTEMPTS", "placement attempts per hour-unit"},
	{"port", "PORT", "HTTP port"},
}

// Load reads configuration from .env, the environment and args, in
// increasing priority. args excludes the program name.
func Load(args []string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	flagSet := pflag.NewFlagSet("timetable", pflag.ContinueOnError)
	for _, f := range flags {
		flagSet.String(f.name, v.GetString(f.key), f.usage)
	}
	for _, f := range intFlags {
		flagSet.Int(f.name, v.GetInt(f.key), f.usage)
	}
	flagSet.Uint64("seed", v.GetUint64("SEED"), "random seed, 0 for a fresh seed each run")
	if err := flagSet.Parse(args); err != nil {
		return nil, err
	}
	for _, f := range flags {
		if err := v.BindPFlag(f.key, flagSet.Lookup(f.name)); err != nil {
			return nil, err
		}
	}
	for _, f := range intFlags {
		if err := v.BindPFlag(f.key, flagSet.Lookup(f.name)); err != nil {
			return nil, err
		}
	}
	if err := v.BindPFlag("SEED", flagSet.Lookup("seed")); err != nil {
		return nil, err
	}

	delim, err := parseDelimiter(v.GetString("CSV_DELIMITER"))
	if err != nil {
		return nil, err
	}

	sched := &scheduler.Configuration{
		SubjectsFile:      v.GetString("SUBJECTS_FILE"),
		FacultyFile:       v.GetString("FACULTY_FILE"),
		ClassroomsFile:    v.GetString("CLASSROOMS_FILE"),
		TimeSlotsFile:     v.GetString("TIMESLOTS_FILE"),
		BatchesFile:       v.GetString("BATCHES_FILE"),
		ExportFile:        v.GetString("EXPORT_FILE"),
		PDFFile:           v.GetString("PDF_FILE"),
		Delimiter:         delim,
		MaxBatchPerDay:    v.GetInt("MAX_BATCH_PER_DAY"),
		MaxFacultyPerDay:  v.GetInt("MAX_FACULTY_PER_DAY"),
		MaxFacultyPerWeek: v.GetInt("MAX_FACULTY_PER_WEEK"),
		MaxAttempts:       v.GetInt("MAX_ATTEMPTS"),
		Seed:              v.GetUint64("SEED"),
	}
	if sched.MaxAttempts < 1 {
		return nil, fmt.Errorf("MAX_ATTEMPTS must be at least 1, got %d", sched.MaxAttempts)
	}
	if sched.MaxBatchPerDay < 0 || sched.MaxFacultyPerDay < 0 || sched.MaxFacultyPerWeek < 0 {
		return nil, fmt.Errorf("workload limits must not be negative")
	}

	cfg := &Config{
		Env:       v.GetString("ENV"),
		Port:      v.GetInt("PORT"),
		Scheduler: sched,
		PDFTitle:  v.GetString("PDF_TITLE"),
	}
	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}
	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("ENABLE_REDIS"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
		TTL:      parseDuration(v.GetString("REDIS_CACHE_TTL"), time.Hour),
	}
	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}
	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	defaults := scheduler.NewDefaultConfiguration()

	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("PDF_TITLE", "Weekly Timetable")

	v.SetDefault("SUBJECTS_FILE", defaults.SubjectsFile)
	v.SetDefault("FACULTY_FILE", defaults.FacultyFile)
	v.SetDefault("CLASSROOMS_FILE", defaults.ClassroomsFile)
	v.SetDefault("TIMESLOTS_FILE", defaults.TimeSlotsFile)
	v.SetDefault("BATCHES_FILE", defaults.BatchesFile)
	v.SetDefault("EXPORT_FILE", defaults.ExportFile)
	v.SetDefault("PDF_FILE", defaults.PDFFile)
	v.SetDefault("CSV_DELIMITER", string(defaults.Delimiter))
	v.SetDefault("MAX_BATCH_PER_DAY", defaults.MaxBatchPerDay)
	v.SetDefault("MAX_FACULTY_PER_DAY", defaults.MaxFacultyPerDay)
	v.SetDefault("MAX_FACULTY_PER_WEEK", defaults.MaxFacultyPerWeek)
	v.SetDefault("MAX_ATTEMPTS", defaults.MaxAttempts)
	v.SetDefault("SEED", defaults.Seed)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "timetable")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("ENABLE_REDIS", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_CACHE_TTL", "1h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
}

func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func parseDelimiter(raw string) (rune, error) {
	if raw == `\t` || raw == "tab" {
		return '\t', nil
	}
	if utf8.RuneCountInString(raw) != 1 {
		return 0, fmt.Errorf("CSV_DELIMITER must be a single character, got %q", raw)
	}
	r, _ := utf8.DecodeRuneInString(raw)
	return r, nil
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
