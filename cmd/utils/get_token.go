// Prints a fresh ULIP bearer token for poking the staging API by hand.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load()

	baseURL := os.Getenv("ULIP_BASE_URL")
	if baseURL == "" {
		baseURL = "https://www.ulipstaging.dpiit.gov.in/ulip/v1.0.0"
	}
	username := os.Getenv("ULIP_USERNAME")
	password := os.Getenv("ULIP_PASSWORD")
	if username == "" || password == "" {
		log.Fatal("ULIP_USERNAME and ULIP_PASSWORD must be set")
	}

	body, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		log.Fatalf("marshal login payload: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+"/user/login", bytes.NewBuffer(body))
	if err != nil {
		log.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("login request failed: %v", err)
	}
	defer resp.Body.Close()

	var loginResp struct {
		Error    string `json:"error"`
		Code     string `json:"code"`
		Response struct {
			ID string `json:"id"`
		} `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		log.Fatalf("decode login response: %v", err)
	}
	if loginResp.Error != "false" || loginResp.Code != "200" {
		log.Fatalf("login rejected: error=%s code=%s", loginResp.Error, loginResp.Code)
	}

	fmt.Printf("\nBearer %s\n\n", loginResp.Response.ID)
}
