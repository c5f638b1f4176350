package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the service endpoint used when none is configured.
	DefaultBaseURL = "https://api.sambanova.ai/v1"
	// DefaultModel is the model identifier used when none is configured.
	DefaultModel = "DeepSeek-V3-0324"
	// DefaultTemperature is the sampling temperature sent with every request.
	DefaultTemperature = 0.2
	// DefaultMaxTokens caps the response length.
	DefaultMaxTokens = 1024
	// DefaultTimeout bounds a single request.
	DefaultTimeout = 2 * time.Minute

	chatCompletionsPathConstant         = "/chat/completions"
	userRoleConstant                    = "user"
	authorizationHeaderConstant         = "Authorization"
	bearerPrefixConstant                = "Bearer "
	contentTypeHeaderConstant           = "Content-Type"
	acceptHeaderConstant                = "Accept"
	jsonContentTypeConstant             = "application/json"
	errorBodyPreviewLimitConstant       = 512
	requestEncodeErrorTemplateConstant  = "unable to encode request: %w"
	requestBuildErrorTemplateConstant   = "unable to build request: %w"
	requestSendErrorTemplateConstant    = "request failed: %w"
	responseReadErrorTemplateConstant   = "unable to read response: %w"
	responseStatusErrorTemplateConstant = "%w: status %d: %s"
	responseDecodeErrorTemplateConstant = "unable to decode response: %w"
	logMessageRequestConstant           = "submitting completion request"
	logMessageFailureConstant           = "completion request failed"
	logMessageSuccessConstant           = "completion request succeeded"
	logFieldEndpointConstant            = "endpoint"
	logFieldModelConstant               = "model"
	logFieldPromptLengthConstant        = "prompt_length"
	logFieldResponseLengthConstant      = "response_length"
	logFieldDurationConstant            = "duration"
)

var (
	// ErrUnexpectedStatus reports a non-2xx response.
	ErrUnexpectedStatus = errors.New("unexpected response status")
	// ErrEmptyChoices reports a response without choices.
	ErrEmptyChoices = errors.New("response contained no choices")
)

// HTTPClient executes HTTP requests.
type HTTPClient interface {
	Do(request *http.Request) (*http.Response, error)
}

// Configuration describes the completion endpoint and sampling parameters.
type Configuration struct {
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// DefaultConfiguration returns the endpoint and sampling defaults.
func DefaultConfiguration() Configuration {
	return Configuration{
		BaseURL:     DefaultBaseURL,
		Model:       DefaultModel,
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
		Timeout:     DefaultTimeout,
	}
}

// Sanitize trims the configuration and fills blank values with defaults. Temperature is kept as given.
func (configuration Configuration) Sanitize() Configuration {
	sanitized := configuration
	sanitized.BaseURL = strings.TrimRight(strings.TrimSpace(configuration.BaseURL), "/")
	if len(sanitized.BaseURL) == 0 {
		sanitized.BaseURL = DefaultBaseURL
	}
	sanitized.Model = strings.TrimSpace(configuration.Model)
	if len(sanitized.Model) == 0 {
		sanitized.Model = DefaultModel
	}
	if sanitized.MaxTokens <= 0 {
		sanitized.MaxTokens = DefaultMaxTokens
	}
	if sanitized.Timeout <= 0 {
		sanitized.Timeout = DefaultTimeout
	}
	return sanitized
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Client submits prompts to the chat completions endpoint.
type Client struct {
	configuration Configuration
	credential    string
	httpClient    HTTPClient
	logger        *zap.Logger
}

// NewClient constructs a Client. A nil httpClient uses an http.Client bounded by the configured timeout.
func NewClient(configuration Configuration, credential string, httpClient HTTPClient, logger *zap.Logger) *Client {
	sanitizedConfiguration := configuration.Sanitize()
	if httpClient == nil {
		httpClient = &http.Client{Timeout: sanitizedConfiguration.Timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		configuration: sanitizedConfiguration,
		credential:    strings.TrimSpace(credential),
		httpClient:    httpClient,
		logger:        logger,
	}
}

// Complete sends the prompt as a single user message and returns the trimmed content of the first choice.
func (client *Client) Complete(executionContext context.Context, prompt string) Result {
	endpoint := client.configuration.BaseURL + chatCompletionsPathConstant
	client.logger.Debug(logMessageRequestConstant,
		zap.String(logFieldEndpointConstant, endpoint),
		zap.String(logFieldModelConstant, client.configuration.Model),
		zap.Int(logFieldPromptLengthConstant, len(prompt)),
	)

	startTime := time.Now()
	content, completionError := client.send(executionContext, endpoint, prompt)
	if completionError != nil {
		client.logger.Warn(logMessageFailureConstant,
			zap.String(logFieldEndpointConstant, endpoint),
			zap.Duration(logFieldDurationConstant, time.Since(startTime)),
			zap.Error(completionError),
		)
		return Failed(completionError)
	}

	client.logger.Debug(logMessageSuccessConstant,
		zap.Duration(logFieldDurationConstant, time.Since(startTime)),
		zap.Int(logFieldResponseLengthConstant, len(content)),
	)
	return Succeeded(content)
}

func (client *Client) send(executionContext context.Context, endpoint string, prompt string) (string, error) {
	payload, encodeError := json.Marshal(chatRequest{
		Model:       client.configuration.Model,
		Messages:    []chatMessage{{Role: userRoleConstant, Content: prompt}},
		Temperature: client.configuration.Temperature,
		MaxTokens:   client.configuration.MaxTokens,
	})
	if encodeError != nil {
		return "", fmt.Errorf(requestEncodeErrorTemplateConstant, encodeError)
	}

	request, requestError := http.NewRequestWithContext(executionContext, http.MethodPost, endpoint, bytes.NewReader(payload))
	if requestError != nil {
		return "", fmt.Errorf(requestBuildErrorTemplateConstant, requestError)
	}
	if len(client.credential) > 0 {
		request.Header.Set(authorizationHeaderConstant, bearerPrefixConstant+client.credential)
	}
	request.Header.Set(contentTypeHeaderConstant, jsonContentTypeConstant)
	request.Header.Set(acceptHeaderConstant, jsonContentTypeConstant)

	response, sendError := client.httpClient.Do(request)
	if sendError != nil {
		return "", fmt.Errorf(requestSendErrorTemplateConstant, sendError)
	}
	defer response.Body.Close()

	responseBody, readError := io.ReadAll(response.Body)
	if readError != nil {
		return "", fmt.Errorf(responseReadErrorTemplateConstant, readError)
	}
	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf(responseStatusErrorTemplateConstant, ErrUnexpectedStatus, response.StatusCode, previewBody(responseBody))
	}

	var decodedResponse chatResponse
	if decodeError := json.Unmarshal(responseBody, &decodedResponse); decodeError != nil {
		return "", fmt.Errorf(responseDecodeErrorTemplateConstant, decodeError)
	}
	if len(decodedResponse.Choices) == 0 {
		return "", ErrEmptyChoices
	}
	return strings.TrimSpace(decodedResponse.Choices[0].Message.Content), nil
}

func previewBody(body []byte) string {
	preview := strings.TrimSpace(string(body))
	if len(preview) > errorBodyPreviewLimitConstant {
		preview = strings.ToValidUTF8(preview[:errorBodyPreviewLimitConstant], "")
	}
	return preview
}
