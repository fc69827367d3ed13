package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server       Server      `mapstructure:"server"`
	Auth         Auth        `mapstructure:"auth"`
	Postgres     Postgres    `mapstructure:"postgres"`
	Mongo        Mongo       `mapstructure:"mongo"`
	Redis        Redis       `mapstructure:"redis"`
	Broker       Broker      `mapstructure:"broker"`
	Cron         Cron        `mapstructure:"cron"`
	Relay        RelayConfig `mapstructure:"relay"`
	Presence     Presence    `mapstructure:"presence"`
	Webhooks     string      `mapstructure:"webhooks"` // EVENT=url,GENERATE_*=url
	HTTPClient   HTTPClient  `mapstructure:"httpClient"`
	Log          Log         `mapstructure:"log"`
	LoggingLevel string      `mapstructure:"logging-level"`
}

type Server struct {
	Port          string `mapstructure:"port"`
	SwaggerHost   string `mapstructure:"swagger_host"`
	SwaggerSchema string `mapstructure:"swagger_schema"`
	BodyLimit     int    `mapstructure:"body_limit"`
}

// Auth токены в формате name:token через запятую
type Auth struct {
	Tokens string `mapstructure:"tokens"`
}

type Postgres struct {
	ConnString     string `mapstructure:"conn_string"`
	MaxConnections int32  `mapstructure:"max_connections"`
	MigrationsDir  string `mapstructure:"migrations_dir"`
}

type Mongo struct {
	URI          string        `mapstructure:"uri"`
	Database     string        `mapstructure:"database"`
	MaxPoolSize  uint64        `mapstructure:"max_pool_size"`
	Timeout      time.Duration `mapstructure:"timeout"`
	Transactions bool          `mapstructure:"transactions"` // требует replica set
}

// Redis используется только для блокировок cron; пустой Addr отключает блокировки
type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type Broker struct {
	Kafka Kafka `mapstructure:"kafka"`
}

type Kafka struct {
	Brokers       string `mapstructure:"brokers"`
	ConsumerGroup string `mapstructure:"consumerGroup"`
	ReaderTopic   string `mapstructure:"readerTopic"`
	ReaderUsr     string `mapstructure:"readerUsr"`
	ReaderUsrPwd  string `mapstructure:"readerUsrPwd"`
	WriterTopic   string `mapstructure:"writerTopic"`
	WriterUsr     string `mapstructure:"writerUsr"`
	WriterUsrPwd  string `mapstructure:"writerUsrPwd"`
	MaxAttempts   int    `mapstructure:"maxAttempts"`
}

type Cron struct {
	Timezone string        `mapstructure:"timezone"`
	Timeout  time.Duration `mapstructure:"timeout"` // таймаут одного запуска задачи
	LockTTL  time.Duration `mapstructure:"lockTTL"`

	// секции cron.<module>.schedule / cron.<module>.enabled, собираются в load
	Modules map[string]CronJob `mapstructure:"-"`

	// очистка отправленных записей outbox, пусто - не чистить
	PurgeSchedule string `mapstructure:"purgeSchedule"`
}

// CronJob переопределение расписания модуля. Пустой Schedule - расписание по умолчанию.
type CronJob struct {
	Schedule string `mapstructure:"schedule"`
	Enabled  bool   `mapstructure:"enabled"`
}

// Jobs возвращает переопределения по имени модуля, включая модули, которых нет в реестре
func (c Cron) Jobs() map[string]CronJob {
	return c.Modules
}

type RelayConfig struct {
	Workers     int           `mapstructure:"workers"`
	BatchSize   int           `mapstructure:"batchSize"`
	Lease       time.Duration `mapstructure:"lease"`
	PollPeriod  time.Duration `mapstructure:"pollPeriod"`
	MaxAttempts int           `mapstructure:"maxAttempts"`

	PurgeAfterDays int `mapstructure:"purgeAfterDays"`
}

type Presence struct {
	Timezone string `mapstructure:"timezone"`
}

type Log struct {
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"maxSizeMB"`
	MaxBackups int    `mapstructure:"maxBackups"`
	MaxAgeDays int    `mapstructure:"maxAgeDays"`
}

type HTTPClient struct {
	ConnectTimeout        time.Duration `mapstructure:"connectTimeout"`
	TLSHandshakeTimeout   time.Duration `mapstructure:"TLSHandshakeTimeout"`
	ResponseHeaderTimeout time.Duration `mapstructure:"responseHeaderTimeout"`
	ExpectContinueTimeout time.Duration `mapstructure:"expectContinueTimeout"`

	// Пул соединений
	IdleConnTimeout     time.Duration `mapstructure:"idleConnTimeout"`
	MaxIdleConns        int           `mapstructure:"maxIdleConns"`
	MaxIdleConnsPerHost int           `mapstructure:"maxIdleConnsPerHost"`
	MaxConnsPerHost     int           `mapstructure:"maxConnsPerHost"`
	KeepAlives          bool          `mapstructure:"keepAlives"`

	// 0 - контролируем дедлайном через context
	ClientTimeout time.Duration `mapstructure:"clientTimeout"`

	UserAgent          string `mapstructure:"userAgent"`
	MaxRetries         int    `mapstructure:"maxRetries"`
	InsecureSkipVerify bool   `mapstructure:"insecureSkipVerify"`
}

var defaults = map[string]any{
	"server.port":           "8080",
	"server.swagger_host":   "localhost:8080",
	"server.swagger_schema": "http",
	"server.body_limit":     4 * 1024 * 1024,

	"auth.tokens": "",

	"postgres.conn_string":     "",
	"postgres.max_connections": 5,
	"postgres.migrations_dir":  "resources/migrations",

	"mongo.uri":           "mongodb://localhost:27017",
	"mongo.database":      "portal",
	"mongo.max_pool_size": 20,
	"mongo.timeout":       10 * time.Second,
	"mongo.transactions":  false,

	"redis.addr":     "",
	"redis.password": "",
	"redis.db":       0,

	"broker.kafka.brokers":       "localhost:9092",
	"broker.kafka.consumerGroup": "portal",
	"broker.kafka.readerTopic":   "portal.events",
	"broker.kafka.readerUsr":     "",
	"broker.kafka.readerUsrPwd":  "",
	"broker.kafka.writerTopic":   "portal.events",
	"broker.kafka.writerUsr":     "",
	"broker.kafka.writerUsrPwd":  "",
	"broker.kafka.maxAttempts":   3,

	"cron.timezone":          "UTC",
	"cron.timeout":           5 * time.Minute,
	"cron.lockTTL":           55 * time.Second,
	"cron.birthday.schedule": "",
	"cron.birthday.enabled":  true,
	"cron.news.schedule":     "",
	"cron.news.enabled":      true,
	"cron.weather.schedule":  "",
	"cron.weather.enabled":   true,
	"cron.purgeSchedule":     "0 3 * * *",

	"relay.workers":        4,
	"relay.batchSize":      50,
	"relay.lease":          30 * time.Second,
	"relay.pollPeriod":     time.Second,
	"relay.maxAttempts":    10,
	"relay.purgeAfterDays": 7,

	"presence.timezone": "UTC",
	"webhooks":          "",

	"httpClient.connectTimeout":        5 * time.Second,
	"httpClient.TLSHandshakeTimeout":   5 * time.Second,
	"httpClient.responseHeaderTimeout": 10 * time.Second,
	"httpClient.expectContinueTimeout": time.Second,
	"httpClient.idleConnTimeout":       90 * time.Second,
	"httpClient.maxIdleConns":          100,
	"httpClient.maxIdleConnsPerHost":   10,
	"httpClient.maxConnsPerHost":       0,
	"httpClient.keepAlives":            true,
	"httpClient.clientTimeout":         0,
	"httpClient.userAgent":             "portal/webhook",
	"httpClient.maxRetries":            3,
	"httpClient.insecureSkipVerify":    false,

	"log.file":       "",
	"log.maxSizeMB":  100,
	"log.maxBackups": 5,
	"log.maxAgeDays": 14,

	"logging-level": "info",
}

func NewConfig() (Config, error) {
	return load(".")
}

func load(path string) (Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()
	// Настраиваем замену точек и дефисов на подчеркивания для переменных окружения
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(path)

	var conf Config
	// Игнорируем ошибку, если файл не найден - используем только переменные окружения
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return conf, err
		}
	}

	if err := v.Unmarshal(&conf); err != nil {
		return conf, err
	}

	conf.Cron.Modules = cronModules(v)

	if _, err := time.LoadLocation(conf.Cron.Timezone); err != nil {
		return conf, fmt.Errorf("cron.timezone: %w", err)
	}
	if _, err := time.LoadLocation(conf.Presence.Timezone); err != nil {
		return conf, fmt.Errorf("presence.timezone: %w", err)
	}

	return conf, nil
}

// cronModules собирает секции модулей из известных ключей и переменных окружения CRON_<MODULE>_SCHEDULE|ENABLED
func cronModules(v *viper.Viper) map[string]CronJob {
	names := map[string]struct{}{}
	for _, key := range v.AllKeys() {
		parts := strings.Split(key, ".")
		if len(parts) == 3 && parts[0] == "cron" && (parts[2] == "schedule" || parts[2] == "enabled") {
			names[parts[1]] = struct{}{}
		}
	}
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		rest, ok := strings.CutPrefix(key, "CRON_")
		if !ok {
			continue
		}
		for _, suffix := range []string{"_SCHEDULE", "_ENABLED"} {
			if module, ok := strings.CutSuffix(rest, suffix); ok && module != "" && !strings.Contains(module, "_") {
				names[strings.ToLower(module)] = struct{}{}
			}
		}
	}

	jobs := make(map[string]CronJob, len(names))
	for name := range names {
		job := CronJob{Schedule: v.GetString("cron." + name + ".schedule"), Enabled: true}
		if v.IsSet("cron." + name + ".enabled") {
			job.Enabled = v.GetBool("cron." + name + ".enabled")
		}
		jobs[name] = job
	}
	return jobs
}
