package notify

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/checkers/packages/core/checkers"
	"github.com/abdul-hamid-achik/checkers/packages/core/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	name  string
	calls []*RunSummary
	err   error
}

func (r *recorder) Name() string { return r.name }

func (r *recorder) Notify(s *RunSummary) error {
	r.calls = append(r.calls, s)
	return r.err
}

func summary(failed int) *RunSummary {
	return &RunSummary{Runs: []string{"math_test"}, TotalCases: 2, Passed: 2 - failed, Failed: failed}
}

func TestManager_Policies(t *testing.T) {
	tests := []struct {
		policy NotifyOn
		runs   []int
		sent   int
	}{
		{NotifyAlways, []int{0, 1, 0}, 3},
		{NotifyFailure, []int{0, 1, 1}, 2},
		{NotifySuccess, []int{0, 1, 0}, 2},
		{NotifyRecovery, []int{0, 1, 0, 0}, 2},
	}

	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			rec := &recorder{name: "rec"}
			m := NewManager(tt.policy, rec)
			for _, failed := range tt.runs {
				require.NoError(t, m.Notify(summary(failed)))
			}
			assert.Len(t, rec.calls, tt.sent)
		})
	}
}

func TestManager_Recovery(t *testing.T) {
	rec := &recorder{name: "rec"}
	m := NewManager(NotifyRecovery, rec)

	require.NoError(t, m.Notify(summary(1)))
	require.NoError(t, m.Notify(summary(0)))

	require.Len(t, rec.calls, 2)
	assert.False(t, rec.calls[0].IsRecovery)
	assert.True(t, rec.calls[1].IsRecovery)
	assert.Equal(t, "Tests recovered!", rec.calls[1].Title())
}

func TestManager_JoinsErrors(t *testing.T) {
	m := NewManager(NotifyAlways, &recorder{name: "a", err: errors.New("down")}, &recorder{name: "b"})
	m.AddNotifier(&recorder{name: "c", err: errors.New("timeout")})
	assert.Equal(t, 3, m.Len())

	err := m.Notify(summary(0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a: down")
	assert.Contains(t, err.Error(), "c: timeout")
}

func TestParseNotifyOn(t *testing.T) {
	n, err := ParseNotifyOn("")
	require.NoError(t, err)
	assert.Equal(t, NotifyFailure, n)

	n, err = ParseNotifyOn("Recovery")
	require.NoError(t, err)
	assert.Equal(t, NotifyRecovery, n)

	_, err = ParseNotifyOn("never")
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	m := checkers.NewModule("math_test", "")
	m.MustTest("add", func(x, y, total int) error {
		if x+y != total {
			return checkers.NewAssertionError("%d != %d", x+y, total)
		}
		return nil
	},
		checkers.WithArgs("x", "y", "total"),
		checkers.WithParams(map[string]map[string]any{
			"good": {"x": 1, "y": 1, "total": 2},
			"bad":  {"x": 1, "y": 1, "total": 3},
		}),
	)
	run, err := checkers.NewTestRunFromModule(m)
	require.NoError(t, err)
	result, err := runner.NewRunner(nil).Run(run)
	require.NoError(t, err)

	s := Summarize([]*runner.RunResult{result})
	assert.Equal(t, []string{"math_test"}, s.Runs)
	assert.Equal(t, 2, s.TotalCases)
	assert.Equal(t, 1, s.Passed)
	assert.Equal(t, 1, s.Failed)
	assert.False(t, s.Success())
	assert.Equal(t, "1 case(s) failed, 0 errored", s.Title())
	assert.Equal(t, []FailedCase{{FullName: "math_test.add_bad", Status: "FAILED", Message: "2 != 3"}}, s.FailedCases)
}

func webhook(t *testing.T, status int) (*httptest.Server, *map[string]any) {
	t.Helper()
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(status)
		_, _ = w.Write([]byte("nope"))
	}))
	t.Cleanup(srv.Close)
	return srv, &got
}

func TestSlackNotifier(t *testing.T) {
	srv, got := webhook(t, http.StatusOK)

	s := summary(1)
	s.Duration = 1500 * time.Millisecond
	s.FailedCases = []FailedCase{{FullName: "math_test.add_bad", Status: "FAILED", Message: "2 != 3"}}

	n := NewSlackNotifier(srv.URL, WithSlackChannel("#ci"), WithSlackUsername("bot"), WithSlackClient(srv.Client()))
	assert.Equal(t, "slack", n.Name())
	require.NoError(t, n.Notify(s))

	assert.Equal(t, "#ci", (*got)["channel"])
	assert.Equal(t, "bot", (*got)["username"])
	attachment := (*got)["attachments"].([]any)[0].(map[string]any)
	assert.Equal(t, "danger", attachment["color"])
	assert.Equal(t, "1 case(s) failed, 0 errored", attachment["title"])
	assert.Contains(t, attachment["text"], "`math_test.add_bad` FAILED: 2 != 3")
}

func TestTeamsNotifier(t *testing.T) {
	srv, got := webhook(t, http.StatusAccepted)

	n := NewTeamsNotifier(srv.URL, WithTeamsClient(srv.Client()))
	assert.Equal(t, "teams", n.Name())
	require.NoError(t, n.Notify(summary(0)))

	assert.Equal(t, "message", (*got)["type"])
	card := (*got)["attachments"].([]any)[0].(map[string]any)
	content := card["content"].(map[string]any)
	assert.Equal(t, "AdaptiveCard", content["type"])
	title := content["body"].([]any)[0].(map[string]any)
	assert.Equal(t, "All tests passed!", title["text"])
}

func TestNotifier_HTTPError(t *testing.T) {
	srv, _ := webhook(t, http.StatusInternalServerError)

	err := NewSlackNotifier(srv.URL).Notify(summary(0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500: nope")
}
