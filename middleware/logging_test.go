package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type recordingNotifier struct {
	critical []string
	cors     []string
}

func (n *recordingNotifier) SendCriticalError(method, path, statusCode, errorMessage, origin, userAgent string) {
	n.critical = append(n.critical, statusCode)
}

func (n *recordingNotifier) SendCORSError(method, path, origin, userAgent string) {
	n.cors = append(n.cors, origin)
}

func TestIsCriticalError(t *testing.T) {
	assert.True(t, isCriticalError(http.StatusInternalServerError))
	assert.True(t, isCriticalError(http.StatusBadGateway))
	assert.True(t, isCriticalError(http.StatusForbidden))
	assert.False(t, isCriticalError(http.StatusServiceUnavailable))
	assert.False(t, isCriticalError(http.StatusBadRequest))
	assert.False(t, isCriticalError(http.StatusConflict))
}

func TestLogging_Notifications(t *testing.T) {
	notifier := &recordingNotifier{}
	status := http.StatusOK
	handler := Logging(zap.NewNop(), notifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))

	serve := func(origin string) {
		req := httptest.NewRequest(http.MethodGet, "/api/gallery/images", nil)
		if origin != "" {
			req.Header.Set("Origin", origin)
		}
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	serve("")
	status = http.StatusBadRequest
	serve("")
	assert.Empty(t, notifier.critical)

	status = http.StatusInternalServerError
	serve("")
	assert.Equal(t, []string{"500"}, notifier.critical)

	status = http.StatusForbidden
	serve("https://evil.com")
	assert.Equal(t, []string{"https://evil.com"}, notifier.cors)
}
