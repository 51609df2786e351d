package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	api "github.com/okian/arena/internal/adapters/http/api"
	app "github.com/okian/arena/internal/app"
	model "github.com/okian/arena/internal/domain/model"
	"github.com/okian/arena/pkg/clock"
	"github.com/okian/arena/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

const (
	testStart uint64 = 1000
	testEnd   uint64 = 2000
)

// newTestServer wires the real service behind the HTTP layer.
func newTestServer(clk clock.Clock) (*httptest.Server, *app.Service) {
	_ = logger.Init()
	svc := app.New(app.WithClock(clk), app.WithSweepInterval(0))
	server := api.NewServer(svc, svc, 100)

	mux := http.NewServeMux()
	server.Register(context.Background(), mux)
	return httptest.NewServer(mux), svc
}

func doJSON(t *testing.T, method, url, provider string, body any) (*http.Response, []byte) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if provider != "" {
		req.Header.Set("X-Arena-Provider", provider)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	var out bytes.Buffer
	if _, err := out.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, out.Bytes()
}

func createTestContest(t *testing.T, baseURL string, metric string) uint64 {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, baseURL+"/contests", "", map[string]any{
		"name":        "api contest",
		"start_time":  testStart,
		"end_time":    testEnd,
		"metric":      metric,
		"min_signals": 1,
		"prize_pool":  1000,
	})
	So(resp.StatusCode, ShouldEqual, http.StatusCreated)

	var created struct {
		ContestID uint64 `json:"contest_id"`
	}
	So(json.Unmarshal(body, &created), ShouldBeNil)
	return created.ContestID
}

func submitTestSignal(t *testing.T, baseURL string, contestID uint64, provider string, signalID uint64, roi, volume int64, success bool) *http.Response {
	t.Helper()
	resp, _ := doJSON(t, http.MethodPost, fmt.Sprintf("%s/contests/%d/signals", baseURL, contestID), provider, map[string]any{
		"provider":      provider,
		"signal_id":     signalID,
		"roi":           roi,
		"volume":        volume,
		"is_successful": success,
	})
	return resp
}

func TestContestEndpoints(t *testing.T) {
	Convey("Given a running API server", t, func() {
		clk := clock.NewManual(testStart)
		ts, svc := newTestServer(clk)
		defer ts.Close()
		defer svc.Stop()

		Convey("When creating a contest", func() {
			id := createTestContest(t, ts.URL, "highest_roi")

			Convey("Then it can be fetched back", func() {
				resp, body := doJSON(t, http.MethodGet, fmt.Sprintf("%s/contests/%d", ts.URL, id), "", nil)
				So(resp.StatusCode, ShouldEqual, http.StatusOK)

				var contest model.Contest
				So(json.Unmarshal(body, &contest), ShouldBeNil)
				So(contest.ID, ShouldEqual, id)
				So(contest.Metric, ShouldEqual, model.MetricHighestROI)
				So(contest.Status, ShouldEqual, model.StatusActive)
			})

			Convey("Then it appears in the listing", func() {
				resp, body := doJSON(t, http.MethodGet, ts.URL+"/contests", "", nil)
				So(resp.StatusCode, ShouldEqual, http.StatusOK)

				var contests []model.Contest
				So(json.Unmarshal(body, &contests), ShouldBeNil)
				So(contests, ShouldHaveLength, 1)
			})

			Convey("Then it appears among the active contests", func() {
				resp, body := doJSON(t, http.MethodGet, ts.URL+"/contests?active=true", "", nil)
				So(resp.StatusCode, ShouldEqual, http.StatusOK)

				var contests []model.Contest
				So(json.Unmarshal(body, &contests), ShouldBeNil)
				So(contests, ShouldHaveLength, 1)
			})
		})

		Convey("When creating a contest without a name", func() {
			resp, _ := doJSON(t, http.MethodPost, ts.URL+"/contests", "", map[string]any{
				"start_time": testStart,
				"end_time":   testEnd,
				"metric":     "highest_roi",
				"prize_pool": 1000,
			})
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When creating a contest with an unknown metric", func() {
			resp, _ := doJSON(t, http.MethodPost, ts.URL+"/contests", "", map[string]any{
				"name":       "bad",
				"metric":     "fastest_fills",
				"prize_pool": 1000,
			})
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When fetching a missing contest", func() {
			resp, _ := doJSON(t, http.MethodGet, ts.URL+"/contests/99", "", nil)
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		})

		Convey("When the contest id is not a number", func() {
			resp, _ := doJSON(t, http.MethodGet, ts.URL+"/contests/abc", "", nil)
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When listing with an unknown status filter", func() {
			resp, _ := doJSON(t, http.MethodGet, ts.URL+"/contests?status=paused", "", nil)
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestSignalEndpoints(t *testing.T) {
	Convey("Given an active contest", t, func() {
		clk := clock.NewManual(testStart)
		ts, svc := newTestServer(clk)
		defer ts.Close()
		defer svc.Stop()
		id := createTestContest(t, ts.URL, "most_volume")

		Convey("When a provider submits a signal as itself", func() {
			resp := submitTestSignal(t, ts.URL, id, "alice", 1, 10, 500, true)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
		})

		Convey("When the caller header names someone else", func() {
			resp, _ := doJSON(t, http.MethodPost, fmt.Sprintf("%s/contests/%d/signals", ts.URL, id), "mallory", map[string]any{
				"provider":  "alice",
				"signal_id": 1,
				"roi":       10,
				"volume":    500,
			})
			So(resp.StatusCode, ShouldEqual, http.StatusUnauthorized)
		})

		Convey("When no caller header is present", func() {
			resp, _ := doJSON(t, http.MethodPost, fmt.Sprintf("%s/contests/%d/signals", ts.URL, id), "", map[string]any{
				"provider":  "alice",
				"signal_id": 1,
				"roi":       10,
				"volume":    500,
			})
			So(resp.StatusCode, ShouldEqual, http.StatusUnauthorized)
		})

		Convey("When the window is closed", func() {
			clk.Set(testEnd + 1)
			resp := submitTestSignal(t, ts.URL, id, "alice", 1, 10, 500, true)
			So(resp.StatusCode, ShouldEqual, http.StatusConflict)
		})

		Convey("When the body is missing fields", func() {
			resp, _ := doJSON(t, http.MethodPost, fmt.Sprintf("%s/contests/%d/signals", ts.URL, id), "alice", map[string]any{
				"provider": "alice",
			})
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestLeaderboardEndpoints(t *testing.T) {
	Convey("Given a contest with ranked entries", t, func() {
		clk := clock.NewManual(testStart)
		ts, svc := newTestServer(clk)
		defer ts.Close()
		defer svc.Stop()
		id := createTestContest(t, ts.URL, "most_volume")

		So(submitTestSignal(t, ts.URL, id, "alice", 1, 0, 100, true).StatusCode, ShouldEqual, http.StatusOK)
		So(submitTestSignal(t, ts.URL, id, "bob", 2, 0, 300, true).StatusCode, ShouldEqual, http.StatusOK)

		Convey("When fetching the leaderboard", func() {
			resp, body := doJSON(t, http.MethodGet, fmt.Sprintf("%s/contests/%d/leaderboard?limit=10", ts.URL, id), "", nil)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			var entries []model.ContestEntry
			So(json.Unmarshal(body, &entries), ShouldBeNil)
			So(entries, ShouldHaveLength, 2)
			So(entries[0].Provider, ShouldEqual, "bob")
			So(entries[1].Provider, ShouldEqual, "alice")
		})

		Convey("When the limit is missing or invalid", func() {
			resp, _ := doJSON(t, http.MethodGet, fmt.Sprintf("%s/contests/%d/leaderboard", ts.URL, id), "", nil)
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)

			resp, _ = doJSON(t, http.MethodGet, fmt.Sprintf("%s/contests/%d/leaderboard?limit=0", ts.URL, id), "", nil)
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the limit exceeds the configured maximum", func() {
			resp, _ := doJSON(t, http.MethodGet, fmt.Sprintf("%s/contests/%d/leaderboard?limit=1000", ts.URL, id), "", nil)
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestFinalizeEndpoints(t *testing.T) {
	Convey("Given a contest ready to finalize", t, func() {
		clk := clock.NewManual(testStart)
		ts, svc := newTestServer(clk)
		defer ts.Close()
		defer svc.Stop()
		id := createTestContest(t, ts.URL, "highest_roi")

		So(submitTestSignal(t, ts.URL, id, "alice", 1, 10, 0, true).StatusCode, ShouldEqual, http.StatusOK)
		So(submitTestSignal(t, ts.URL, id, "bob", 2, 30, 0, true).StatusCode, ShouldEqual, http.StatusOK)

		Convey("When finalizing before the window ends", func() {
			resp, _ := doJSON(t, http.MethodPost, fmt.Sprintf("%s/contests/%d/finalize", ts.URL, id), "", nil)
			So(resp.StatusCode, ShouldEqual, http.StatusConflict)
		})

		Convey("When finalizing after the window ends", func() {
			clk.Set(testEnd)
			resp, body := doJSON(t, http.MethodPost, fmt.Sprintf("%s/contests/%d/finalize", ts.URL, id), "", nil)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			var result struct {
				Winners []string `json:"winners"`
			}
			So(json.Unmarshal(body, &result), ShouldBeNil)
			So(result.Winners, ShouldResemble, []string{"bob", "alice"})

			Convey("Then the winners endpoint serves the record", func() {
				resp, body := doJSON(t, http.MethodGet, fmt.Sprintf("%s/contests/%d/winners", ts.URL, id), "", nil)
				So(resp.StatusCode, ShouldEqual, http.StatusOK)

				var got struct {
					Winners []string `json:"winners"`
				}
				So(json.Unmarshal(body, &got), ShouldBeNil)
				So(got.Winners, ShouldResemble, []string{"bob", "alice"})
			})

			Convey("Then the prize endpoint serves each payout", func() {
				resp, body := doJSON(t, http.MethodGet, fmt.Sprintf("%s/contests/%d/prizes/bob", ts.URL, id), "", nil)
				So(resp.StatusCode, ShouldEqual, http.StatusOK)

				var got struct {
					Amount *big.Int `json:"amount"`
				}
				So(json.Unmarshal(body, &got), ShouldBeNil)
				So(got.Amount.Cmp(big.NewInt(500)), ShouldEqual, 0)
			})

			Convey("Then a second finalization conflicts", func() {
				resp, _ := doJSON(t, http.MethodPost, fmt.Sprintf("%s/contests/%d/finalize", ts.URL, id), "", nil)
				So(resp.StatusCode, ShouldEqual, http.StatusConflict)
			})
		})

		Convey("When fetching winners of an unfinalized contest", func() {
			resp, _ := doJSON(t, http.MethodGet, fmt.Sprintf("%s/contests/%d/winners", ts.URL, id), "", nil)
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestProviderEndpoints(t *testing.T) {
	Convey("Given a provider with recorded results", t, func() {
		clk := clock.NewManual(testStart)
		ts, svc := newTestServer(clk)
		defer ts.Close()
		defer svc.Stop()
		id := createTestContest(t, ts.URL, "highest_roi")
		So(submitTestSignal(t, ts.URL, id, "alice", 1, 50, 0, true).StatusCode, ShouldEqual, http.StatusOK)

		clk.Set(testEnd)
		resp, _ := doJSON(t, http.MethodPost, fmt.Sprintf("%s/contests/%d/finalize", ts.URL, id), "", nil)
		So(resp.StatusCode, ShouldEqual, http.StatusOK)

		Convey("When fetching the provider's stats", func() {
			resp, body := doJSON(t, http.MethodGet, ts.URL+"/providers/alice/stats", "", nil)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			var stats model.ProviderStats
			So(json.Unmarshal(body, &stats), ShouldBeNil)
			So(stats.Wins, ShouldEqual, 1)
			So(stats.TotalPrizes.Cmp(big.NewInt(500)), ShouldEqual, 0)
		})

		Convey("When the stats path is malformed", func() {
			resp, _ := doJSON(t, http.MethodGet, ts.URL+"/providers/alice", "", nil)
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestHealthAndStats(t *testing.T) {
	Convey("Given a running API server", t, func() {
		clk := clock.NewManual(testStart)
		ts, svc := newTestServer(clk)
		defer ts.Close()
		defer svc.Stop()

		Convey("When probing /healthz", func() {
			resp, _ := doJSON(t, http.MethodGet, ts.URL+"/healthz", "", nil)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			Convey("Then responses carry a request id", func() {
				So(resp.Header.Get("X-Request-Id"), ShouldNotBeEmpty)
			})
		})

		Convey("When fetching /stats", func() {
			resp, body := doJSON(t, http.MethodGet, ts.URL+"/stats", "", nil)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			var stats map[string]any
			So(json.Unmarshal(body, &stats), ShouldBeNil)
			So(stats, ShouldContainKey, "sweep_interval")
		})
	})
}
