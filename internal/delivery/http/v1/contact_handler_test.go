package v1_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"contact-relay-backend/config"
	v1 "contact-relay-backend/internal/delivery/http/v1"
	"contact-relay-backend/internal/domain"
	"contact-relay-backend/internal/usecase"
	"contact-relay-backend/pkg/email"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

type countingNotifier struct {
	calls atomic.Int32
	err   error
	last  email.ContactEmailData
}

func (n *countingNotifier) NotifyOwner(_ context.Context, data email.ContactEmailData) error {
	n.calls.Add(1)
	n.last = data
	return n.err
}

type MockContactUsecase struct {
	mock.Mock
}

func (m *MockContactUsecase) SubmitContact(ctx context.Context, body []byte) (*domain.ContactResult, error) {
	args := m.Called(ctx, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContactResult), args.Error(1)
}

func testConfig() *config.Config {
	return &config.Config{AllowedOrigins: []string{"http://localhost:3000", "https://*.vercel.app"}}
}

type relayStatus bool

func (r relayStatus) IsConfigured() bool { return bool(r) }

func newRouter(uc domain.ContactUsecase) *gin.Engine {
	return v1.NewRouter(v1.RouterDeps{
		ContactUC: uc,
		HealthUC:  usecase.NewHealthUsecase(relayStatus(true)),
		Config:    testConfig(),
		Logger:    quiet,
	})
}

func newRouterWithNotifier(n *countingNotifier) *gin.Engine {
	uc := usecase.NewContactUsecase(usecase.NewContactValidator(nil), n, quiet)
	return newRouter(uc)
}

func postContact(r http.Handler, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/contact", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

const janeBody = `{"name":"Jane","email":"jane@x.com","subject":"Hi","message":"Hello\nWorld"}`

func TestSubmitContactMissingFields(t *testing.T) {
	bodies := []string{
		`{"email":"jane@x.com","message":"Hello"}`,
		`{"name":"Jane","message":"Hello"}`,
		`{"name":"Jane","email":"jane@x.com"}`,
		`{"name":"","email":"","message":""}`,
	}
	for _, body := range bodies {
		t.Run(body, func(t *testing.T) {
			n := &countingNotifier{}
			w := postContact(newRouterWithNotifier(n), strings.NewReader(body))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, `{"error":"Missing required fields"}`, w.Body.String())
			assert.Equal(t, int32(0), n.calls.Load())
		})
	}
}

func TestSubmitContactInvalidEmail(t *testing.T) {
	for _, addr := range []string{"jane.x.com", "jane@xcom", "jane"} {
		t.Run(addr, func(t *testing.T) {
			n := &countingNotifier{}
			body := `{"name":"Jane","email":"` + addr + `","message":"Hello"}`
			w := postContact(newRouterWithNotifier(n), strings.NewReader(body))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, `{"error":"Invalid email format"}`, w.Body.String())
			assert.Equal(t, int32(0), n.calls.Load())
		})
	}
}

func TestSubmitContactNoData(t *testing.T) {
	cases := map[string]io.Reader{
		"no body":      nil,
		"empty object": strings.NewReader(`{}`),
		"not json":     strings.NewReader(`name=Jane`),
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			n := &countingNotifier{}
			w := postContact(newRouterWithNotifier(n), body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, `{"error":"No data provided"}`, w.Body.String())
			assert.Equal(t, int32(0), n.calls.Load())
		})
	}
}

func TestSubmitContactDelivered(t *testing.T) {
	n := &countingNotifier{}
	w := postContact(newRouterWithNotifier(n), strings.NewReader(janeBody))

	require.Equal(t, http.StatusOK, w.Code)
	out := decode(t, w)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, true, out["email_sent"])
	assert.Equal(t, domain.ContactReceivedMessage, out["message"])
	assert.NotContains(t, out, "warning")

	assert.Equal(t, int32(1), n.calls.Load())
	assert.Equal(t, email.ContactEmailData{
		SenderName:  "Jane",
		SenderEmail: "jane@x.com",
		Subject:     "Hi",
		Message:     "Hello\nWorld",
	}, n.last)
}

func TestSubmitContactRelayFailure(t *testing.T) {
	n := &countingNotifier{err: errors.New("dial tcp smtp.gmail.com:465: i/o timeout")}
	w := postContact(newRouterWithNotifier(n), strings.NewReader(janeBody))

	require.Equal(t, http.StatusOK, w.Code)
	out := decode(t, w)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, false, out["email_sent"])
	assert.Equal(t, domain.NotificationFailedWarning, out["warning"])
	assert.NotContains(t, w.Body.String(), "i/o timeout")
}

func TestSubmitContactOmittedSubject(t *testing.T) {
	n := &countingNotifier{}
	w := postContact(newRouterWithNotifier(n), strings.NewReader(`{"name":"Jane","email":"jane@x.com","message":"Hello"}`))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "", n.last.Subject)
}

func TestSubmitContactUnexpectedErrors(t *testing.T) {
	t.Run("Should hide usecase errors behind a generic 500", func(t *testing.T) {
		uc := new(MockContactUsecase)
		uc.On("SubmitContact", mock.Anything, mock.Anything).Return(nil, errors.New("template: nil pointer")).Once()

		w := postContact(newRouter(uc), strings.NewReader(janeBody))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"An unexpected error occurred"}`, w.Body.String())
	})

	t.Run("Should recover from a panic with a generic 500", func(t *testing.T) {
		uc := new(MockContactUsecase)
		uc.On("SubmitContact", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
			panic("boom")
		}).Once()

		w := postContact(newRouter(uc), strings.NewReader(janeBody))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"An unexpected error occurred"}`, w.Body.String())
	})

	t.Run("Should log a panicked request with its 500", func(t *testing.T) {
		uc := new(MockContactUsecase)
		uc.On("SubmitContact", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
			panic("boom")
		}).Once()
		var buf bytes.Buffer
		r := v1.NewRouter(v1.RouterDeps{
			ContactUC: uc,
			Config:    testConfig(),
			Logger:    slog.New(slog.NewJSONHandler(&buf, nil)),
		})

		w := postContact(r, strings.NewReader(janeBody))
		require.Equal(t, http.StatusInternalServerError, w.Code)

		var requestLine map[string]any
		for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
			var entry map[string]any
			require.NoError(t, json.Unmarshal(line, &entry))
			if entry["msg"] == "HTTP request" {
				requestLine = entry
			}
		}
		require.NotNil(t, requestLine)
		assert.Equal(t, float64(http.StatusInternalServerError), requestLine["status"])
		assert.Equal(t, "/api/contact", requestLine["path"])
		assert.Equal(t, w.Header().Get("X-Request-ID"), requestLine["request_id"])
	})
}

func TestSubmitContactJSONFalsyValues(t *testing.T) {
	for _, body := range []string{
		`{"name":false,"email":"jane@x.com","message":"Hello"}`,
		`{"name":"Jane","email":"jane@x.com","message":0}`,
		`{"name":"Jane","email":"jane@x.com","message":[]}`,
		`{"name":{},"email":"jane@x.com","message":"Hello"}`,
		`{"name":"Jane","email":null,"message":"Hello"}`,
	} {
		t.Run(body, func(t *testing.T) {
			n := &countingNotifier{}
			w := postContact(newRouterWithNotifier(n), strings.NewReader(body))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, `{"error":"Missing required fields"}`, w.Body.String())
			assert.Equal(t, int32(0), n.calls.Load())
		})
	}
}

func TestSubmitContactNonStringMessage(t *testing.T) {
	n := &countingNotifier{}
	w := postContact(newRouterWithNotifier(n), strings.NewReader(`{"name":"Jane","email":"jane@x.com","message":42}`))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["success"])
	assert.Equal(t, int32(1), n.calls.Load())
	assert.Equal(t, "42", n.last.Message)
}

func TestRouter(t *testing.T) {
	r := newRouterWithNotifier(&countingNotifier{})

	t.Run("Should report health", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ok","mail":"configured"}`, w.Body.String())
	})

	t.Run("Should answer unknown paths with 404", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/unknown", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"Not Found"}`, w.Body.String())
	})

	t.Run("Should only accept POST on the contact route", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/contact", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
		assert.JSONEq(t, `{"error":"Method Not Allowed"}`, w.Body.String())
	})

	t.Run("Should expose prometheus metrics", func(t *testing.T) {
		postContact(r, strings.NewReader(janeBody))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "contact_submissions_total")
		assert.Contains(t, w.Body.String(), "contact_mail_send_total")
	})

	t.Run("Should answer an allowed preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/contact", nil)
		req.Header.Set("Origin", "https://me-git-main.vercel.app")
		req.Header.Set("Access-Control-Request-Method", "POST")
		req.Header.Set("Access-Control-Request-Headers", "Content-Type")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "https://me-git-main.vercel.app", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("Should refuse a cross-origin post from an unlisted site", func(t *testing.T) {
		n := &countingNotifier{}
		req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(janeBody))
		req.Header.Set("Origin", "https://spam.example.com")
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		newRouterWithNotifier(n).ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, int32(0), n.calls.Load())
	})
}
