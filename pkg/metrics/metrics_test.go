package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveSession(t *testing.T) {
	okBefore := testutil.ToFloat64(SessionsTotal.WithLabelValues("test_kind", ResultSuccess))
	failBefore := testutil.ToFloat64(SessionsTotal.WithLabelValues("test_kind", ResultFailure))

	ObserveSession("test_kind", 10*time.Millisecond, nil)
	ObserveSession("test_kind", time.Millisecond, errors.New("dial failed"))
	ObserveSession("test_kind", time.Millisecond, errors.New("dial failed"))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(SessionsTotal.WithLabelValues("test_kind", ResultSuccess)))
	assert.Equal(t, failBefore+2, testutil.ToFloat64(SessionsTotal.WithLabelValues("test_kind", ResultFailure)))
}

func TestTimer(t *testing.T) {
	timer := NewTimer("build")
	time.Sleep(time.Millisecond)

	first := timer.Stop()
	second := timer.Stop()

	assert.Equal(t, "build", timer.Name())
	assert.Greater(t, first, time.Duration(0))
	assert.GreaterOrEqual(t, second, first)
}
