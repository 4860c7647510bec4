package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App   AppConfig
	HTTP  HTTPConfig
	Store StoreConfig
	DB    DBConfig
	Redis RedisConfig
	X3    X3Config
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host        string
	Port        int
	MaxUploadMB int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// MaxUploadBytes límite de tamaño de los archivos subidos.
func (c HTTPConfig) MaxUploadBytes() int {
	return c.MaxUploadMB * 1024 * 1024
}

// Drivers de almacenamiento de sesiones.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

// StoreConfig selecciona dónde se guardan las sesiones y sus tablas.
type StoreConfig struct {
	Driver     string // memory, postgres, sqlite
	SQLitePath string
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// RedisConfig bloqueo por sesión. Address vacío = bloqueo en proceso.
type RedisConfig struct {
	Address        string
	Password       string
	DB             int
	LockTTLSeconds int
}

// X3Config parámetros del formato Sage X3 y de las reglas de reconciliación.
type X3Config struct {
	MinFields             int
	SiteCodes             []string
	Type1Pattern          string
	Type2Pattern          string
	InventoryDatePattern  string
	AggregationKeys       []string
	DecimalSeparator      string
	InvalidQuantityAsZero bool
	InputEncoding         string // utf-8, windows-1252, iso-8859-1
	NewLineIndicator      string // legacy, computed
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, STORE_DRIVER, X3_SITE_CODES, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return FromViper(v)
}

// FromViper construye la configuración a partir de una instancia ya cargada (útil en tests y en la CLI).
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "inventario-x3"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Host:        getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:        getInt(v, "HTTP_PORT", 8080),
			MaxUploadMB: getInt(v, "MAX_UPLOAD_MB", 16),
		},
		Store: StoreConfig{
			Driver:     strings.ToLower(getString(v, "STORE_DRIVER", StoreMemory)),
			SQLitePath: getString(v, "SQLITE_PATH", "database/inventario_x3.db"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "inventario_x3"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Address:        getString(v, "REDIS_ADDRESS", ""),
			Password:       getString(v, "REDIS_PASSWORD", ""),
			DB:             getInt(v, "REDIS_DB", 0),
			LockTTLSeconds: getInt(v, "LOCK_TTL_SECONDS", 300),
		},
		X3: X3Config{
			MinFields:             getInt(v, "X3_MIN_FIELDS", 15),
			SiteCodes:             getList(v, "X3_SITE_CODES", nil),
			Type1Pattern:          getString(v, "X3_TYPE1_PATTERN", `^([A-Z0-9]{5})(\d{6})([A-Z0-9]{4})$`),
			Type2Pattern:          getString(v, "X3_TYPE2_PATTERN", `^LOT(\d{6})$`),
			InventoryDatePattern:  getString(v, "X3_INVENTORY_DATE_PATTERN", `(\d{2})(\d{2})INV`),
			AggregationKeys:       getList(v, "X3_AGGREGATION_KEYS", []string{"CODE_ARTICLE", "STATUT", "EMPLACEMENT", "ZONE_PK", "UNITE"}),
			DecimalSeparator:      getString(v, "X3_DECIMAL_SEPARATOR", ","),
			InvalidQuantityAsZero: getBool(v, "X3_INVALID_QTY_AS_ZERO", true),
			InputEncoding:         strings.ToLower(getString(v, "X3_INPUT_ENCODING", "utf-8")),
			NewLineIndicator:      strings.ToLower(getString(v, "X3_NEW_LINE_INDICATOR", "legacy")),
		},
	}

	switch cfg.Store.Driver {
	case StoreMemory, StorePostgres, StoreSQLite:
	default:
		return nil, fmt.Errorf("STORE_DRIVER desconocido: %q", cfg.Store.Driver)
	}
	if cfg.X3.MinFields <= 0 {
		return nil, fmt.Errorf("X3_MIN_FIELDS debe ser positivo")
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}

// getList acepta listas separadas por coma (env) o listas nativas (archivo).
func getList(v *viper.Viper, key string, def []string) []string {
	if !v.IsSet(key) {
		return def
	}
	var raw []string
	switch val := v.Get(key).(type) {
	case string:
		raw = strings.Split(val, ",")
	default:
		raw = v.GetStringSlice(key)
	}
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
