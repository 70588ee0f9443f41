package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/gorilla/websocket"
)

const (
	defaultAPIBase = "http://localhost:8080"
)

var (
	apiBase  string
	userID   string
	client   = &http.Client{Timeout: 30 * time.Second}
	testDate string
	mealIDs  []string
	events   *websocket.Conn
)

func main() {
	fmt.Println("=== Weight Tracker E2E Smoke Test ===")
	fmt.Println()

	apiBase = strings.TrimRight(getEnv("API_BASE_URL", defaultAPIBase), "/")
	userID = getEnv("SMOKE_USER_ID", "")

	fmt.Printf("API Base: %s\n", apiBase)
	fmt.Printf("User ID: %s\n", orDash(userID))
	fmt.Println()

	testDate = time.Now().Format("2006-01-02")

	steps := []struct {
		name string
		fn   func() error
	}{
		{"Healthz", testHealthz},
		{"Get Primary Profile", testGetPrimaryProfile},
		{"Open Event Stream", testOpenEvents},
		{"Patch Entry", testPatchEntry},
		{"Receive Entry Event", testReceiveEntryEvent},
		{"Meals Today", testMealsToday},
		{"Complete Meals", testCompleteMeals},
		{"Uncomplete Meal", testUncompleteMeal},
		{"Week Rollup", testWeekRollup},
		{"Settings", testSettings},
		{"Health State", testHealthState},
	}

	failed := false
	for i, step := range steps {
		fmt.Printf("[%d/%d] %s... ", i+1, len(steps), step.name)
		if err := step.fn(); err != nil {
			fmt.Printf("❌ FAILED\n")
			fmt.Printf("  Error: %v\n\n", err)
			failed = true
			break
		}
		fmt.Printf("✅ OK\n")
	}

	if events != nil {
		events.Close()
	}

	fmt.Println()
	if failed {
		fmt.Println("❌ SMOKE TEST FAILED")
		os.Exit(1)
	}

	fmt.Println("✅ ALL SMOKE TESTS PASSED")
}

func testHealthz() error {
	return call(http.MethodGet, "/healthz", nil, http.StatusOK, nil)
}

func testGetPrimaryProfile() error {
	if userID != "" {
		return nil
	}

	var result struct {
		Profiles []struct {
			ID        string `json:"id"`
			Name      string `json:"name"`
			IsPrimary bool   `json:"is_primary"`
		} `json:"profiles"`
	}
	if err := call(http.MethodGet, "/v1/profiles", nil, http.StatusOK, &result); err != nil {
		return err
	}
	if len(result.Profiles) == 0 {
		return fmt.Errorf("no profiles found")
	}

	for _, p := range result.Profiles {
		if p.IsPrimary {
			userID = p.ID
			return nil
		}
	}
	return fmt.Errorf("no primary profile among %d", len(result.Profiles))
}

func testOpenEvents() error {
	url := "ws" + strings.TrimPrefix(apiBase, "http") + "/v1/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return err
	}
	events = conn

	var hello struct {
		Type string `json:"type"`
	}
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&hello); err != nil {
		return fmt.Errorf("read hello: %w", err)
	}
	if hello.Type != "health.state" {
		return fmt.Errorf("unexpected first event %q", hello.Type)
	}
	return nil
}

func testPatchEntry() error {
	payload := map[string]any{
		"weight_text":    "190.2",
		"did_workout":    true,
		"water_servings": 4,
		"notes":          "smoke test",
	}

	var entry struct {
		Weight      *float64 `json:"weight"`
		WaterOunces float64  `json:"water_ounces"`
	}
	if err := call(http.MethodPatch, entryPath(), payload, http.StatusOK, &entry); err != nil {
		return err
	}
	if entry.Weight == nil || *entry.Weight != 190.2 {
		return fmt.Errorf("weight not stored: %v", entry.Weight)
	}
	return nil
}

func testReceiveEntryEvent() error {
	for {
		var ev struct {
			Type string `json:"type"`
			Data struct {
				UserID string `json:"user_id"`
			} `json:"data"`
		}
		events.SetReadDeadline(time.Now().Add(5 * time.Second))
		if err := events.ReadJSON(&ev); err != nil {
			return fmt.Errorf("read event: %w", err)
		}
		if ev.Type == "entry.updated" && ev.Data.UserID == userID {
			return nil
		}
	}
}

func testMealsToday() error {
	var today struct {
		Meals []struct {
			ID string `json:"id"`
		} `json:"meals"`
	}
	path := "/v1/meals/today?user_id=" + userID + "&date=" + testDate
	if err := call(http.MethodGet, path, nil, http.StatusOK, &today); err != nil {
		return err
	}

	mealIDs = mealIDs[:0]
	for _, m := range today.Meals {
		mealIDs = append(mealIDs, m.ID)
	}
	return nil
}

func testCompleteMeals() error {
	if len(mealIDs) == 0 {
		fmt.Print("(no meals today) ")
		return nil
	}

	var resp struct {
		Entry struct {
			MealsLogged bool `json:"meals_logged"`
		} `json:"entry"`
	}
	for _, id := range mealIDs {
		if err := call(http.MethodPut, entryPath()+"/meals/"+id, nil, http.StatusOK, &resp); err != nil {
			return err
		}
	}
	if !resp.Entry.MealsLogged {
		return fmt.Errorf("meals_logged not set after completing every meal")
	}
	return nil
}

func testUncompleteMeal() error {
	if len(mealIDs) == 0 {
		return nil
	}
	return call(http.MethodDelete, entryPath()+"/meals/"+mealIDs[0], nil, http.StatusOK, nil)
}

func testWeekRollup() error {
	var week struct {
		Days   []json.RawMessage `json:"days"`
		Rollup struct {
			Workouts int `json:"workouts"`
		} `json:"rollup"`
	}
	if err := call(http.MethodGet, "/v1/rollups/week?user_id="+userID+"&end="+testDate, nil, http.StatusOK, &week); err != nil {
		return err
	}
	if len(week.Days) != 7 {
		return fmt.Errorf("expected 7 days, got %d", len(week.Days))
	}
	if week.Rollup.Workouts < 1 {
		return fmt.Errorf("expected today's workout counted")
	}
	return nil
}

func testSettings() error {
	return call(http.MethodGet, "/v1/settings", nil, http.StatusOK, nil)
}

func testHealthState() error {
	var state struct {
		State string `json:"state"`
	}
	if err := call(http.MethodGet, "/v1/health/state", nil, http.StatusOK, &state); err != nil {
		return err
	}
	if state.State == "" {
		return fmt.Errorf("empty health state")
	}
	return nil
}

func entryPath() string {
	return "/v1/entries/" + userID + "/" + testDate
}

// call sends payload as JSON, checks the status and decodes into out when set.
func call(method, path string, payload any, want int, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, apiBase+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(data))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode failed: %w", err)
		}
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
