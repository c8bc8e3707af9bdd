//go:build e2e
// +build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/JKhoa/TieuLuanMTK/internal/model"
	"github.com/joho/godotenv"
)

const defaultBaseURL = "http://localhost:5000/api"

var (
	baseURL   string
	studentID int64
	client    = &http.Client{Timeout: 10 * time.Second}
)

func TestMain(m *testing.M) {
	// Load .env if present (ignore error)
	_ = godotenv.Load("../../.env")

	baseURL = os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	os.Exit(m.Run())
}

func TestE2EFlow(t *testing.T) {
	name := fmt.Sprintf("E2E Student %d", time.Now().UnixNano())

	// Step 1: Create
	t.Run("CreateStudent", func(t *testing.T) {
		resp, err := send(http.MethodPost, "/students", map[string]any{
			"name":        name,
			"class_label": "E2E",
			"score":       "3.25",
		})
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("status %d: %s", resp.StatusCode, readBody(resp))
		}

		var created model.Student
		decodeJSON(t, resp, &created)
		if created.ID == 0 || created.Score != 3.25 {
			t.Fatalf("unexpected record: %+v", created)
		}
		studentID = created.ID
	})

	// Step 2: Missing field is rejected
	t.Run("CreateStudentMissingField", func(t *testing.T) {
		resp, err := send(http.MethodPost, "/students", map[string]any{"name": name, "score": 1})
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", resp.StatusCode, readBody(resp))
		}
	})

	// Step 3: Listed
	t.Run("ListStudents", func(t *testing.T) {
		resp, err := send(http.MethodGet, "/students", nil)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		var students []model.Student
		decodeJSON(t, resp, &students)
		if !containsID(students, studentID) {
			t.Fatalf("student %d missing from list", studentID)
		}
		for i := 1; i < len(students); i++ {
			if students[i-1].ID >= students[i].ID {
				t.Fatalf("list not ordered by id at index %d", i)
			}
		}
	})

	// Step 4: Searchable by class
	t.Run("SearchByClass", func(t *testing.T) {
		resp, err := send(http.MethodGet, "/students/search?class=E2E", nil)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		var students []model.Student
		decodeJSON(t, resp, &students)
		if !containsID(students, studentID) {
			t.Fatalf("student %d missing from search", studentID)
		}
		for _, s := range students {
			if s.ClassLabel != "E2E" {
				t.Fatalf("class filter leaked %q", s.ClassLabel)
			}
		}
	})

	// Step 5: Update
	t.Run("UpdateStudent", func(t *testing.T) {
		resp, err := send(http.MethodPut, fmt.Sprintf("/students/%d", studentID), map[string]any{
			"name":        name,
			"class_label": "E2E",
			"score":       4,
		})
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status %d: %s", resp.StatusCode, readBody(resp))
		}
		var updated model.Student
		decodeJSON(t, resp, &updated)
		if updated.ID != studentID || updated.Score != 4 {
			t.Fatalf("unexpected record: %+v", updated)
		}
	})

	// Step 6: Delete, then the record is gone
	t.Run("DeleteStudent", func(t *testing.T) {
		path := fmt.Sprintf("/students/%d", studentID)

		resp, err := send(http.MethodDelete, path, nil)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("delete status %d", resp.StatusCode)
		}

		resp, err = send(http.MethodDelete, path, nil)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("expected 404 on second delete, got %d", resp.StatusCode)
		}
	})
}

// Helpers

func send(method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBytes)
	}

	req, err := http.NewRequest(method, baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return client.Do(req)
}

func containsID(students []model.Student, id int64) bool {
	for _, s := range students {
		if s.ID == id {
			return true
		}
	}
	return false
}

func readBody(resp *http.Response) string {
	b, _ := io.ReadAll(resp.Body)
	return string(b)
}

func decodeJSON(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("json decode: %v", err)
	}
}
