package statistics

import (
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"codeberg.org/mutker/atkctl/internal/atk"
	"codeberg.org/mutker/atkctl/internal/fancurve"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveApply(t *testing.T) {
	s := New()

	s.ObserveApply("Silent", nil)
	s.ObserveApply("Silent", nil)
	s.ObserveApply("Turbo", stderrors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(s.applies.WithLabelValues("Silent", ResultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.applies.WithLabelValues("Turbo", ResultFailure)))
}

func TestObservePowerPlan(t *testing.T) {
	s := New()

	s.ObservePowerPlan(atk.TurboManual)
	assert.Equal(t, 1.0, testutil.ToFloat64(s.powerPlan.WithLabelValues("turbo")))
	assert.Equal(t, 0.0, testutil.ToFloat64(s.powerPlan.WithLabelValues("silent")))

	s.ObservePowerPlan(atk.Silent)
	assert.Equal(t, 0.0, testutil.ToFloat64(s.powerPlan.WithLabelValues("turbo")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.powerPlan.WithLabelValues("silent")))
}

func TestCurveCollector(t *testing.T) {
	s := New()
	assert.Equal(t, 0, testutil.CollectAndCount(s.curves))

	s.ObserveCurve(fancurve.Minimum(fancurve.GPU), true)
	assert.Equal(t, 2*fancurve.EntryCount, testutil.CollectAndCount(s.curves))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.adjusted.WithLabelValues("gpu")))

	expected := `
# HELP atkctl_curve_fan_percent Fan speed of a curve point in percent
# TYPE atkctl_curve_fan_percent gauge
atkctl_curve_fan_percent{device="gpu",point="0"} 0
atkctl_curve_fan_percent{device="gpu",point="1"} 0
atkctl_curve_fan_percent{device="gpu",point="2"} 0
atkctl_curve_fan_percent{device="gpu",point="3"} 0
atkctl_curve_fan_percent{device="gpu",point="4"} 34
atkctl_curve_fan_percent{device="gpu",point="5"} 51
atkctl_curve_fan_percent{device="gpu",point="6"} 61
atkctl_curve_fan_percent{device="gpu",point="7"} 61
`
	require.NoError(t, testutil.CollectAndCompare(s.curves, strings.NewReader(expected), "atkctl_curve_fan_percent"))

	s.ObserveCurve(fancurve.Minimum(fancurve.CPU), false)
	assert.Equal(t, 4*fancurve.EntryCount, testutil.CollectAndCount(s.curves))
	assert.Equal(t, 0.0, testutil.ToFloat64(s.adjusted.WithLabelValues("cpu")))
}

func TestHandler(t *testing.T) {
	s := New()
	s.ObserveApply("Silent", nil)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `atkctl_apply_total{plan="Silent",result="success"} 1`)
}
