package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	conf, err := load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", conf.Server.Port)
	assert.Equal(t, "portal", conf.Mongo.Database)
	assert.Equal(t, "UTC", conf.Cron.Timezone)
	assert.Equal(t, 5*time.Minute, conf.Cron.Timeout)
	assert.Equal(t, 30*time.Second, conf.Relay.Lease)
	assert.Equal(t, map[string]CronJob{
		"birthday": {Enabled: true},
		"news":     {Enabled: true},
		"weather":  {Enabled: true},
	}, conf.Cron.Jobs())
	assert.Empty(t, conf.Redis.Addr)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CRON_NEWS_SCHEDULE", "0 6 * * *")
	t.Setenv("CRON_WEATHER_ENABLED", "false")
	t.Setenv("RELAY_POLLPERIOD", "250ms")
	t.Setenv("LOGGING_LEVEL", "debug")

	conf, err := load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "9090", conf.Server.Port)
	assert.Equal(t, 250*time.Millisecond, conf.Relay.PollPeriod)
	assert.Equal(t, "debug", conf.LoggingLevel)

	jobs := conf.Cron.Jobs()
	assert.Len(t, jobs, 3)
	assert.Equal(t, "0 6 * * *", jobs["news"].Schedule)
	assert.False(t, jobs["weather"].Enabled)
}

func TestLoad_UnknownCronModule(t *testing.T) {
	t.Setenv("CRON_HOROSCOPE_SCHEDULE", "0 9 * * *")
	t.Setenv("CRON_PURGESCHEDULE", "0 4 * * *")

	conf, err := load(t.TempDir())
	require.NoError(t, err)

	jobs := conf.Cron.Jobs()
	assert.Len(t, jobs, 4)
	assert.Equal(t, CronJob{Schedule: "0 9 * * *", Enabled: true}, jobs["horoscope"])
	assert.Equal(t, "0 4 * * *", conf.Cron.PurgeSchedule)
}

func TestLoad_InvalidTimezone(t *testing.T) {
	t.Setenv("CRON_TIMEZONE", "Mars/Olympus")

	_, err := load(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cron.timezone")
}
