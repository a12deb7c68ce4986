package sdk

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	return &Client{BaseURL: baseURL, HTTP: http.DefaultClient}
}

func (c *Client) getJSON(u string) (map[string]interface{}, error) {
	resp, err := c.HTTP.Get(u)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	var out map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return out, fmt.Errorf("HTTP %d: %v", resp.StatusCode, out["error"])
	}
	return out, nil
}

func (c *Client) ClimateData(latitude, longitude string) (map[string]interface{}, error) {
	u := fmt.Sprintf("%s/climate_data?latitude=%s&longitude=%s",
		c.BaseURL, url.QueryEscape(latitude), url.QueryEscape(longitude))
	return c.getJSON(u)
}

func (c *Client) FireData(params map[string]string) (map[string]interface{}, error) {
	u, _ := url.Parse(c.BaseURL + "/fire_data")
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return c.getJSON(u.String())
}

func (c *Client) OilSlickData(bbox, startDate, endDate, minConfidence, limit string) (map[string]interface{}, error) {
	u := fmt.Sprintf("%s/spill_data_oil?bbox=%s&start_date=%s&end_date=%s&min_confidence=%s&limit=%s",
		c.BaseURL, url.QueryEscape(bbox), url.QueryEscape(startDate), url.QueryEscape(endDate),
		url.QueryEscape(minConfidence), url.QueryEscape(limit))
	return c.getJSON(u)
}

func (c *Client) CreateUser(username, role string) (map[string]interface{}, error) {
	body := fmt.Sprintf(`{"username":%q,"role":%q}`, username, role)
	resp, err := c.HTTP.Post(c.BaseURL+"/users", "application/json", strings.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	var out map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusCreated {
		return out, fmt.Errorf("HTTP %d: %v", resp.StatusCode, out["error"])
	}
	return out, nil
}
