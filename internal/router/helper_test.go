package router_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"
)

type apiResponse struct {
	httpStatus int

	Status  string      `json:"status"`
	Message string      `json:"message"`
	Code    int         `json:"code"`
	Data    interface{} `json:"data"`
}

func (r apiResponse) IsSuccess() bool {
	return r.Status == "success"
}

// GetString digs a string field out of an object payload.
func (r apiResponse) GetString(key string) string {
	obj, ok := r.Data.(map[string]interface{})
	if !ok {
		return ""
	}
	s, _ := obj[key].(string)
	return s
}

func makeRequest(method, path string, body interface{}, token string) apiResponse {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			panic(err)
		}
	}

	req := httptest.NewRequest(method, "/api/v1"+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	resp := apiResponse{httpStatus: rec.Code}
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	return resp
}

func login(email, password string) string {
	resp := makeRequest(http.MethodPost, "/auth/login", map[string]interface{}{
		"email":    email,
		"password": password,
	}, "")
	if !resp.IsSuccess() {
		panic(fmt.Sprintf("login %s failed: %s", email, resp.Message))
	}
	return resp.GetString("access_token")
}

func registerPatient(name string) string {
	resp := makeRequest(http.MethodPost, "/auth/register", map[string]interface{}{
		"name":     name,
		"email":    fmt.Sprintf("%s_%d@example.com", name, time.Now().UnixNano()),
		"phone":    "0501234567",
		"password": "patient-password",
	}, "")
	if !resp.IsSuccess() {
		panic(fmt.Sprintf("register %s failed: %s", name, resp.Message))
	}
	return resp.GetString("access_token")
}

// nextOpenDate returns an upcoming date the clinic is open on. The clinic is
// closed on Fridays, and bookings in the past are rejected.
func nextOpenDate(daysAhead int) string {
	d := time.Now().AddDate(0, 0, daysAhead)
	for d.Weekday() == time.Friday {
		d = d.AddDate(0, 0, 1)
	}
	return d.Format("2006-01-02")
}
