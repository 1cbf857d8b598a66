package probe

import (
	"context"
	_ "embed"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed providers.yml
var providersYAML []byte

// Provider describes how to probe one service and how to translate its
// failure statuses into human-readable messages.
type Provider struct {
	Method     string         `yaml:"method"`
	URL        string         `yaml:"url"`
	Auth       string         `yaml:"auth"` // query, bearer, header
	AuthParam  string         `yaml:"auth_param"`
	AuthHeader string         `yaml:"auth_header"`
	Body       string         `yaml:"body"`
	Success    []int          `yaml:"success"`
	Errors     map[int]string `yaml:"errors"`
}

type Registry map[string]Provider

// LoadRegistry parses the embedded provider table.
func LoadRegistry() (Registry, error) {
	var parsed struct {
		Providers Registry `yaml:"providers"`
	}
	if err := yaml.Unmarshal(providersYAML, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse provider registry: %w", err)
	}
	if len(parsed.Providers) == 0 {
		return nil, fmt.Errorf("provider registry is empty")
	}
	return parsed.Providers, nil
}

// Result is the outcome of one credential probe.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Tester performs lightweight credential probes against live providers.
type Tester struct {
	client   *http.Client
	registry Registry
}

func NewTester(client *http.Client, registry Registry) *Tester {
	return &Tester{client: client, registry: registry}
}

// Services lists the probeable provider names.
func (t *Tester) Services() []string {
	names := make([]string, 0, len(t.registry))
	for name := range t.registry {
		names = append(names, name)
	}
	return names
}

// Test issues exactly one probe call for the named service and maps the
// response status through the provider's configured message table.
func (t *Tester) Test(ctx context.Context, service, apiKey string) Result {
	provider, ok := t.registry[strings.ToLower(service)]
	if !ok {
		return Result{Success: false, Error: fmt.Sprintf("Unknown service: %s", service)}
	}
	if apiKey == "" {
		return Result{Success: false, Error: "API key is required"}
	}

	req, err := t.buildRequest(ctx, provider, apiKey)
	if err != nil {
		return Result{Success: false, Error: "Could not build probe request"}
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return Result{Success: false, Error: "Could not reach the provider"}
	}
	defer resp.Body.Close()

	for _, status := range provider.Success {
		if resp.StatusCode == status {
			return Result{Success: true}
		}
	}

	if msg, ok := provider.Errors[resp.StatusCode]; ok {
		return Result{Success: false, Error: msg}
	}

	return Result{Success: false, Error: fmt.Sprintf("Unexpected response (HTTP %d)", resp.StatusCode)}
}

func (t *Tester) buildRequest(ctx context.Context, provider Provider, apiKey string) (*http.Request, error) {
	reqURL := provider.URL
	if provider.Auth == "query" {
		param := provider.AuthParam
		if param == "" {
			param = "key"
		}
		separator := "?"
		if strings.Contains(reqURL, "?") {
			separator = "&"
		}
		reqURL += separator + param + "=" + url.QueryEscape(apiKey)
	}

	var body *strings.Reader
	if provider.Body != "" {
		body = strings.NewReader(provider.Body)
	} else {
		body = strings.NewReader("")
	}

	req, err := http.NewRequestWithContext(ctx, provider.Method, reqURL, body)
	if err != nil {
		return nil, err
	}

	switch provider.Auth {
	case "bearer":
		req.Header.Set("Authorization", "Bearer "+apiKey)
	case "header":
		header := provider.AuthHeader
		if header == "" {
			header = "Authorization"
		}
		req.Header.Set(header, apiKey)
	}

	if provider.Body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}
