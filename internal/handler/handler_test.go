package handler

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"chemsolver/internal/cache"
	"chemsolver/internal/catalog"
	"chemsolver/internal/entity"
	"chemsolver/internal/ratelimit"
	"chemsolver/internal/repository"
	"chemsolver/internal/service"
	"chemsolver/internal/solver"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	// opencensus 的 view worker 在 init 就啟動，整個 process 都不會結束
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

type stubSolver struct{ sol *entity.Solution }

func (s stubSolver) Solve(context.Context, solver.Request) (*entity.Solution, error) {
	if s.sol == nil {
		return nil, solver.ErrUnavailable
	}
	return s.sol, nil
}

func newTestRouter(t *testing.T, sv solver.Solver, limit ratelimit.Config) *gin.Engine {
	t.Helper()
	return newTestRouterBehind(t, sv, limit, nil)
}

func newTestRouterBehind(t *testing.T, sv solver.Solver, limit ratelimit.Config, proxies []string) *gin.Engine {
	t.Helper()
	repo, err := repository.OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	c := catalog.MustLoad()
	r, err := NewRouter(Services{
		Elements:   service.NewElementService(c),
		Challenges: service.NewChallengeService(repo, c),
		Profiles:   service.NewProfileService(repo),
		Solver:     service.NewSolverService(repo, sv, cache.Noop{}, zerolog.Nop()),
	}, ratelimit.New(limit), proxies, zerolog.Nop())
	require.NoError(t, err)
	return r
}

// do 送出請求，RemoteAddr 用 httptest 的預設值 192.0.2.1:1234
func do(t *testing.T, r http.Handler, method, path, user string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return doFrom(t, r, "", method, path, user, body, nil)
}

func doFrom(t *testing.T, r http.Handler, remoteAddr, method, path, user string, body any, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set(UserIDHeader, user)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	if remoteAddr != "" {
		req.RemoteAddr = remoteAddr
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestPing(t *testing.T) {
	r := newTestRouter(t, solver.Disabled{}, ratelimit.DefaultConfig())
	w := do(t, r, http.MethodGet, "/api/v1/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())
}

func TestElectronConfiguration(t *testing.T) {
	r := newTestRouter(t, solver.Disabled{}, ratelimit.DefaultConfig())

	tests := []struct {
		name   string
		count  string
		status int
		shells [7]int
	}{
		{"sodium", "11", http.StatusOK, [7]int{2, 8, 1}},
		{"potassium", "19", http.StatusOK, [7]int{2, 8, 8, 1}},
		{"zero", "0", http.StatusOK, [7]int{}},
		{"saturated", "200", http.StatusOK, [7]int{2, 8, 18, 32, 32, 18, 8}},
		{"negative", "-3", http.StatusBadRequest, [7]int{}},
		{"not a number", "abc", http.StatusBadRequest, [7]int{}},
		{"fraction", "1.5", http.StatusBadRequest, [7]int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, r, http.MethodGet, "/api/v1/electron-configuration/"+tt.count, "", nil)
			require.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.status != http.StatusOK {
				assert.Contains(t, w.Body.String(), `"error"`)
				return
			}
			got := decode[service.ShellReport](t, w)
			assert.Equal(t, tt.shells, [7]int(got.Shells))
		})
	}
}

func TestElementsAndTopics(t *testing.T) {
	r := newTestRouter(t, solver.Disabled{}, ratelimit.DefaultConfig())

	w := do(t, r, http.MethodGet, "/api/v1/elements", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[struct {
		Count int `json:"count"`
	}](t, w)
	assert.Equal(t, 118, list.Count)

	w = do(t, r, http.MethodGet, "/api/v1/elements/Fe", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	fe := decode[service.ElementDetail](t, w)
	assert.Equal(t, 26, fe.Number)
	assert.Equal(t, "K2 L8 M14 N2", fe.ShellString)

	w = do(t, r, http.MethodGet, "/api/v1/elements/999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodGet, "/api/v1/topics?type=compound&q=water", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	topics := decode[struct {
		Topics []entity.Topic `json:"topics"`
	}](t, w)
	require.NotEmpty(t, topics.Topics)
	assert.Equal(t, "water", topics.Topics[0].ID)

	w = do(t, r, http.MethodGet, "/api/v1/topics/photosynthesis", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = do(t, r, http.MethodGet, "/api/v1/topics/unobtainium", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestChallengeFlow(t *testing.T) {
	r := newTestRouter(t, solver.Disabled{}, ratelimit.DefaultConfig())

	w := do(t, r, http.MethodGet, "/api/v1/challenge/modes", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodPost, "/api/v1/challenge/time_attack/start", "alice", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotContains(t, w.Body.String(), "correct_answer")
	sess := decode[service.ChallengeSession](t, w)

	w = do(t, r, http.MethodPost, "/api/v1/challenge/submit", "alice", SubmitChallengeRequest{SessionID: sess.SessionID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode[service.ChallengeResult](t, w)
	assert.Equal(t, 10, res.Total)
	require.Len(t, res.Questions, 10)
	assert.NotEmpty(t, res.Questions[0].CorrectAnswer)

	w = do(t, r, http.MethodPost, "/api/v1/challenge/submit", "alice", SubmitChallengeRequest{SessionID: sess.SessionID})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodPost, "/api/v1/challenge/submit", "alice", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/api/v1/challenge/blitz/start", "alice", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProfile(t *testing.T) {
	r := newTestRouter(t, solver.Disabled{}, ratelimit.DefaultConfig())

	w := do(t, r, http.MethodPost, "/api/v1/profile/xp", "carol", AddXPRequest{Amount: 600})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	xp := decode[service.XPResult](t, w)
	assert.True(t, xp.LevelUp)
	assert.Equal(t, 2, xp.Level.Level)

	w = do(t, r, http.MethodPost, "/api/v1/profile/xp", "carol", AddXPRequest{Amount: -5})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodGet, "/api/v1/profile", "carol", nil)
	require.Equal(t, http.StatusOK, w.Code)
	p := decode[service.Profile](t, w)
	assert.Equal(t, 600, p.XP)
	assert.Equal(t, "carol", p.UserID)

	// 沒帶 header 時是匿名使用者
	w = do(t, r, http.MethodGet, "/api/v1/profile", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, AnonymousUser, decode[service.Profile](t, w).UserID)
}

func TestSolve(t *testing.T) {
	sol := &entity.Solution{Question: "Q", Answer: "A", Steps: []string{"s"}, Explanation: "E"}
	r := newTestRouter(t, stubSolver{sol: sol}, ratelimit.Config{Rate: 0.001, Burst: 2})
	img := base64.StdEncoding.EncodeToString([]byte("\x89PNG\r\n\x1a\nxyz"))

	w := do(t, r, http.MethodPost, "/api/v1/solve", "dave", SolveRequest{ImageBase64: img, Language: "fr"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode[service.SolveResult](t, w)
	assert.Equal(t, "A", res.Solution.Answer)
	assert.Equal(t, "fr", res.Language)
	assert.Equal(t, 1, res.Solved)

	w = do(t, r, http.MethodPost, "/api/v1/solve", "dave", SolveRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// burst 用完
	w = do(t, r, http.MethodPost, "/api/v1/solve", "dave", SolveRequest{ImageBase64: img})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	// 其他客戶端不受影響
	w = doFrom(t, r, "198.51.100.20:4000", http.MethodPost, "/api/v1/solve", "erin", SolveRequest{ImageBase64: img}, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSolve_RateLimitIgnoresUserHeader(t *testing.T) {
	sol := &entity.Solution{Question: "Q", Answer: "A"}
	r := newTestRouter(t, stubSolver{sol: sol}, ratelimit.Config{Rate: 0.001, Burst: 1})
	img := base64.StdEncoding.EncodeToString([]byte("\x89PNG\r\n\x1a\nxyz"))

	accepted := 0
	for i := 0; i < 20; i++ {
		w := do(t, r, http.MethodPost, "/api/v1/solve", fmt.Sprintf("user-%d", i), SolveRequest{ImageBase64: img})
		if w.Code == http.StatusOK {
			accepted++
			continue
		}
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
	}
	assert.Equal(t, 1, accepted)
}

func TestSolve_RateLimitForwardedFor(t *testing.T) {
	sol := &entity.Solution{Question: "Q", Answer: "A"}
	img := base64.StdEncoding.EncodeToString([]byte("\x89PNG\r\n\x1a\nxyz"))
	forwarded := func(ip string) http.Header {
		return http.Header{"X-Forwarded-For": {ip}}
	}

	t.Run("untrusted peer", func(t *testing.T) {
		r := newTestRouter(t, stubSolver{sol: sol}, ratelimit.Config{Rate: 0.001, Burst: 1})

		w := doFrom(t, r, "", http.MethodPost, "/api/v1/solve", "", SolveRequest{ImageBase64: img}, forwarded("203.0.113.1"))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		// 直連的客戶端自己填的 X-Forwarded-For 不算數
		w = doFrom(t, r, "", http.MethodPost, "/api/v1/solve", "", SolveRequest{ImageBase64: img}, forwarded("203.0.113.2"))
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
	})

	t.Run("trusted proxy", func(t *testing.T) {
		r := newTestRouterBehind(t, stubSolver{sol: sol}, ratelimit.Config{Rate: 0.001, Burst: 1}, []string{"10.0.0.0/8"})
		proxy := "10.1.2.3:8443"

		w := doFrom(t, r, proxy, http.MethodPost, "/api/v1/solve", "", SolveRequest{ImageBase64: img}, forwarded("203.0.113.1"))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		w = doFrom(t, r, proxy, http.MethodPost, "/api/v1/solve", "", SolveRequest{ImageBase64: img}, forwarded("203.0.113.2"))
		assert.Equal(t, http.StatusOK, w.Code)
		w = doFrom(t, r, proxy, http.MethodPost, "/api/v1/solve", "", SolveRequest{ImageBase64: img}, forwarded("203.0.113.1"))
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
	})
}

func TestNewRouter_BadTrustedProxy(t *testing.T) {
	_, err := NewRouter(Services{}, ratelimit.New(ratelimit.DefaultConfig()), []string{"not-an-ip"}, zerolog.Nop())
	assert.Error(t, err)
}

func TestSolve_Unavailable(t *testing.T) {
	r := newTestRouter(t, stubSolver{}, ratelimit.DefaultConfig())
	img := base64.StdEncoding.EncodeToString([]byte("abc"))

	w := do(t, r, http.MethodPost, "/api/v1/solve", "", SolveRequest{ImageBase64: img})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(t, solver.Disabled{}, ratelimit.DefaultConfig())
	do(t, r, http.MethodGet, "/api/v1/ping", "", nil)

	w := do(t, r, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "chemsolver_http_requests_total")
}
