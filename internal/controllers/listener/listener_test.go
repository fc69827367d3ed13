package listener

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"portal/internal/application/bus"
	"portal/internal/application/entity"
	use_cases "portal/internal/application/use-cases"
	"portal/pkg/config"
	"portal/pkg/httpclient"
	"portal/pkg/metrics"

	"github.com/IBM/sarama"
	"github.com/gofrs/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var nop = zap.NewNop().Sugar()

func TestParseWebhooks(t *testing.T) {
	hooks, err := ParseWebhooks(" GENERATE_*=https://hooks.example.com/gen , BADGE_DELETED=http://localhost:9000/x,")
	require.NoError(t, err)
	assert.Equal(t, []Webhook{
		{Pattern: "GENERATE_*", URL: "https://hooks.example.com/gen"},
		{Pattern: "BADGE_DELETED", URL: "http://localhost:9000/x"},
	}, hooks)

	hooks, err = ParseWebhooks("")
	require.NoError(t, err)
	assert.Empty(t, hooks)

	for _, bad := range []string{"GENERATE_*", "=http://x", "X=ftp://host/file", "X=not a url"} {
		_, err := ParseWebhooks(bad)
		assert.Error(t, err, bad)
	}
}

func TestWebhookForwarder_RetriesAndPostsEnvelope(t *testing.T) {
	var calls int32
	var got entity.Envelope
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, entity.EventGenerateDailyBirthday, r.Header.Get("X-Event"))
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	rc := httpclient.NewRetryClient(httpclient.NewClient(config.HTTPClient{ConnectTimeout: time.Second}), 3, nop)
	rc.Backoff = func(int) time.Duration { return time.Millisecond }

	b := bus.New(nil, nop)
	NewWebhookForwarder(rc, nop).Subscribe(b, []Webhook{{Pattern: "GENERATE_*", URL: srv.URL}})

	env := entity.Envelope{ID: uuid.Must(uuid.NewV4()), Event: entity.EventGenerateDailyBirthday, Module: "birthday", Trigger: entity.TriggerCron}
	failed := b.Publish(context.Background(), env)

	assert.Equal(t, 0, failed)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
	assert.Equal(t, env.ID, got.ID)
	assert.Equal(t, "birthday", got.Module)

	assert.Equal(t, 0, b.Publish(context.Background(), entity.Envelope{Event: entity.EventBadgeDeleted}))
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls), "non matching event is not forwarded")
}

func TestWebhookForwarder_ClientErrorFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	h := NewWebhookForwarder(httpclient.NewClient(config.HTTPClient{}), nop).Handler(srv.URL)
	err := h(context.Background(), entity.Envelope{Event: "X"})
	assert.ErrorContains(t, err, "status 400")
}

type fakeConsumer struct{ err error }

func (f fakeConsumer) ConsumerMessage(context.Context, []byte, time.Time) error { return f.err }

func TestHandle_CountsResults(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	msg := &sarama.ConsumerMessage{Topic: "portal.events", Value: []byte("{}")}

	NewKafkaBrokerConsumer(fakeConsumer{}, nop, m).handle(context.Background(), "portal.events", msg)
	bad := fmt.Errorf("%w: boom", use_cases.ErrUndecodable)
	NewKafkaBrokerConsumer(fakeConsumer{err: bad}, nop, m).handle(context.Background(), "portal.events", msg)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Kafka.ConsumerMessagesTotal.WithLabelValues("portal.events", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Kafka.ConsumerMessagesTotal.WithLabelValues("portal.events", "decode_error")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Kafka.ConsumerInFlight.WithLabelValues("portal.events")))
}

func TestAuditLogger(t *testing.T) {
	assert.NoError(t, AuditLogger(nop)(context.Background(), entity.Envelope{Event: "X"}))
}
