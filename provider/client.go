package provider

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	config "github.com/dgotpservice/dg-social-panel/configs"
)

// Service is one purchasable engagement unit as the upstream panel reports
// it. Rate is the base price per 1000 units, before commission.
type Service struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Rate     float64 `json:"price"`
	Min      int     `json:"min"`
	Max      int     `json:"max"`
	Refill   bool    `json:"refill"`
}

type PlaceOrderResponse struct {
	Success bool   `json:"success"`
	OrderID string `json:"orderId"`
	Message string `json:"message"`
}

type OrderStatusResponse struct {
	Status string `json:"status"`
}

type RefillResponse struct {
	Success  bool   `json:"success"`
	RefillID string `json:"refillId"`
	Message  string `json:"message"`
}

var httpClient = &http.Client{Timeout: 15 * time.Second}

func newRequest(method, path string, body io.Reader) (*http.Request, error) {
	base := config.Config("PROVIDER_BASE_URL")
	req, err := http.NewRequest(method, fmt.Sprintf("%s%s", base, path), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", config.Config("PROVIDER_API_KEY"))
	return req, nil
}

// GetServices fetches the upstream catalog. An empty category returns every
// service.
func GetServices(category string) ([]Service, error) {
	path := "/get-services"
	if category != "" {
		path += "?category=" + url.QueryEscape(category)
	}

	req, err := newRequest("GET", path, nil)
	if err != nil {
		return nil, err
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("provider get-services failed: %s", string(respBody))
	}

	var services []Service
	if err := json.NewDecoder(resp.Body).Decode(&services); err != nil {
		return nil, err
	}
	return services, nil
}

// PlaceOrder submits an order upstream. The caller must only mutate local
// state after a success response: a failure here leaves nothing to undo.
func PlaceOrder(serviceID, link string, quantity int) (*PlaceOrderResponse, error) {
	payload := map[string]interface{}{
		"service":  serviceID,
		"link":     link,
		"quantity": quantity,
	}
	body, _ := json.Marshal(payload)

	req, err := newRequest("POST", "/place-order", bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("provider place-order failed: %s", string(respBody))
	}

	var result PlaceOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	if !result.Success {
		return nil, fmt.Errorf("provider rejected order: %s", result.Message)
	}
	return &result, nil
}

func GetOrderStatus(providerOrderID string) (*OrderStatusResponse, error) {
	req, err := newRequest("GET", "/order-status?order="+url.QueryEscape(providerOrderID), nil)
	if err != nil {
		return nil, err
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("provider order-status failed: %s", string(respBody))
	}

	var result OrderStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

func RequestRefill(providerOrderID string) (*RefillResponse, error) {
	payload := map[string]string{"order": providerOrderID}
	body, _ := json.Marshal(payload)

	req, err := newRequest("POST", "/refill", bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("provider refill failed: %s", string(respBody))
	}

	var result RefillResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	if !result.Success {
		return nil, fmt.Errorf("provider rejected refill: %s", result.Message)
	}
	return &result, nil
}
