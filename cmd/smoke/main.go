package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	_ "github.com/joho/godotenv/autoload"
)

const (
	defaultAPIBase = "http://localhost:8080"
)

var (
	apiBase string
	email   string
	pass    string
	token   string
	userID  string
	planURL string
	client  *resty.Client
)

type loginResponse struct {
	Token string `json:"token"`
	User  struct {
		ID string `json:"id"`
	} `json:"user"`
}

type listPlansResponse struct {
	Plans []struct {
		ID   string            `json:"id"`
		Days []json.RawMessage `json:"days"`
	} `json:"plans"`
}

func main() {
	fmt.Println("=== Meal Planner E2E Smoke Test ===")
	fmt.Println()

	apiBase = getEnv("API_BASE_URL", defaultAPIBase)
	email = getEnv("SMOKE_EMAIL", fmt.Sprintf("smoke+%d@example.com", time.Now().Unix()))
	pass = getEnv("SMOKE_PASSWORD", "smoke-password")
	userID = getEnv("SMOKE_USER_ID", "")

	client = resty.New().
		SetBaseURL(apiBase).
		SetTimeout(60 * time.Second)

	fmt.Printf("API Base: %s\n", apiBase)
	fmt.Printf("Email: %s\n", email)
	fmt.Println()

	steps := []struct {
		name string
		fn   func() error
	}{
		{"Healthz", testHealthz},
		{"Signup", testSignup},
		{"Login", testLogin},
		{"Save Profile", testSaveProfile},
		{"List Meals", testListMeals},
		{"Basic Plan", testBasicPlan},
		{"Generate Meal Plan", testGenerate},
		{"List Meal Plans", testListPlans},
		{"Get Meal Plan", testGetPlan},
		{"Export Meal Plan (CSV)", testExportCSV},
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

	fmt.Println()
	if failed {
		fmt.Println("❌ SMOKE TEST FAILED")
		os.Exit(1)
	}

	fmt.Println("✅ ALL SMOKE TESTS PASSED")
}

func request() *resty.Request {
	req := client.R()
	if token != "" {
		req.SetAuthToken(token)
	}
	return req
}

func expect(resp *resty.Response, err error, statuses ...int) error {
	if err != nil {
		return err
	}
	for _, s := range statuses {
		if resp.StatusCode() == s {
			return nil
		}
	}
	return fmt.Errorf("status=%d body=%s", resp.StatusCode(), truncate(resp.String(), 4096))
}

func testHealthz() error {
	resp, err := request().Get("/healthz")
	return expect(resp, err, http.StatusOK)
}

func testSignup() error {
	resp, err := request().
		SetBody(map[string]string{
			"firstName": "Smoke",
			"lastName":  "Test",
			"email":     email,
			"password":  pass,
		}).
		Post("/v1/auth/signup")
	// 409 is fine when SMOKE_EMAIL is reused between runs
	return expect(resp, err, http.StatusCreated, http.StatusConflict)
}

func testLogin() error {
	var out loginResponse
	resp, err := request().
		SetBody(map[string]string{"email": email, "password": pass}).
		SetResult(&out).
		Post("/v1/auth/login")
	if err := expect(resp, err, http.StatusOK); err != nil {
		return err
	}
	if out.Token == "" {
		return fmt.Errorf("login returned empty token")
	}
	token = out.Token
	if userID == "" {
		userID = out.User.ID
	}
	return nil
}

func testSaveProfile() error {
	resp, err := request().
		SetBody(map[string]any{
			"id":            userID,
			"fullName":      "Smoke Test",
			"age":           30,
			"gender":        "female",
			"goal":          "maintain",
			"dietType":      "vegetarian",
			"dislikedFoods": "peanut",
			"mealsPerDay":   4,
		}).
		Post("/v1/profiles")
	return expect(resp, err, http.StatusOK)
}

func testListMeals() error {
	resp, err := request().Get("/v1/meals")
	return expect(resp, err, http.StatusOK)
}

func testBasicPlan() error {
	resp, err := request().
		SetQueryParam("user_id", userID).
		Get("/v1/meal-plans/basic")
	return expect(resp, err, http.StatusOK)
}

func testGenerate() error {
	var days []json.RawMessage
	resp, err := request().
		SetBody(map[string]string{"user_id": userID}).
		SetResult(&days).
		Post("/generate-meal-plan")
	if err := expect(resp, err, http.StatusOK); err != nil {
		return err
	}
	if len(days) == 0 {
		return fmt.Errorf("empty meal plan")
	}
	planURL = resp.Header().Get("Location")
	return nil
}

func testListPlans() error {
	var out listPlansResponse
	resp, err := request().
		SetQueryParam("user_id", userID).
		SetResult(&out).
		Get("/v1/meal-plans")
	if err := expect(resp, err, http.StatusOK); err != nil {
		return err
	}
	if len(out.Plans) == 0 {
		return fmt.Errorf("no stored plans for user %s", userID)
	}
	if planURL == "" {
		planURL = "/v1/meal-plans/" + out.Plans[0].ID
	}
	return nil
}

func testGetPlan() error {
	resp, err := request().Get(planURL)
	return expect(resp, err, http.StatusOK)
}

func testExportCSV() error {
	resp, err := request().
		SetQueryParam("format", "csv").
		Get(planURL + "/export")
	if err := expect(resp, err, http.StatusOK); err != nil {
		return err
	}

	ct := resp.Header().Get("Content-Type")
	switch {
	case strings.HasPrefix(ct, "text/csv"):
		if len(resp.Body()) == 0 {
			return fmt.Errorf("empty CSV export")
		}
	case strings.HasPrefix(ct, "application/json"):
		// s3 mode returns a link instead of the bytes
		var link struct {
			URL string `json:"url"`
		}
		if err := json.Unmarshal(resp.Body(), &link); err != nil || link.URL == "" {
			return fmt.Errorf("expected export link, got %s", truncate(resp.String(), 512))
		}
	default:
		return fmt.Errorf("unexpected content type %q", ct)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
