/**
 * @description
 * This package provides a client for the generative-language REST API used by
 * the studio-service. It encapsulates the logic for making authenticated HTTP
 * requests to the text, image, and video generation endpoints.
 *
 * Key features:
 * - Manages the API base URL and key, with JSON serialization and error
 *   handling shared across endpoints.
 * - Text generation with optional web-search grounding, returning citations.
 * - Image generation returning inline image data.
 * - Long-running video generation: submit, operation polling, and content
 *   download using a caller-supplied session credential.
 *
 * @dependencies
 * - bytes, context, encoding/json, fmt, io, net/http, time: Standard Go libraries.
 * - The service's internal domain package for result models.
 */
package geminiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/myhandle/studio-service/internal/domain"
)

// Client is a client for the generative-language API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new API client. apiKey is the server-side key used for
// text and image generation; video calls carry their own session credential.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// APIError is a non-success response from the API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("generative api error: status %d, body: %s", e.StatusCode, e.Body)
}

// invalidCredentialSignatures are the backend error messages recognized as
// "the supplied credential is no longer valid". The primary signature is the
// operation-lookup failure the backend returns for keyless or revoked access;
// the key-validation messages cover rejection at submit time.
var invalidCredentialSignatures = []string{
	"Requested entity was not found",
	"API key not valid",
	"API_KEY_INVALID",
}

// IsInvalidCredential reports whether err carries one of the recognized
// invalid-credential signatures. All signature matching is confined here.
func IsInvalidCredential(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, sig := range invalidCredentialSignatures {
		if strings.Contains(msg, sig) {
			return true
		}
	}
	return false
}

// Wire models for the generateContent endpoint.

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateContentRequest struct {
	Contents         []content         `json:"contents"`
	Tools            []tool            `json:"tools,omitempty"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type tool struct {
	GoogleSearch *struct{} `json:"google_search,omitempty"`
}

type generationConfig struct {
	ResponseModalities []string `json:"responseModalities,omitempty"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content           content `json:"content"`
		GroundingMetadata *struct {
			GroundingChunks []struct {
				Web *struct {
					URI   string `json:"uri"`
					Title string `json:"title"`
				} `json:"web"`
			} `json:"groundingChunks"`
		} `json:"groundingMetadata"`
	} `json:"candidates"`
}

// TextResponse is the decoded outcome of a text generation call. Citations
// are passed through as returned; filtering is the caller's concern.
type TextResponse struct {
	Text      string
	Citations []domain.Citation
}

// GenerateText runs a text completion against the given model. When
// webGrounding is true the request enables the web-search tool and the
// response may carry grounding citations.
func (c *Client) GenerateText(ctx context.Context, model, prompt string, webGrounding bool) (*TextResponse, error) {
	reqBody := generateContentRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	}
	if webGrounding {
		reqBody.Tools = []tool{{GoogleSearch: &struct{}{}}}
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, model)
	var resp generateContentResponse
	if err := c.do(ctx, http.MethodPost, url, c.apiKey, reqBody, &resp); err != nil {
		return nil, err
	}

	out := &TextResponse{}
	if len(resp.Candidates) > 0 {
		cand := resp.Candidates[0]
		var sb strings.Builder
		for _, p := range cand.Content.Parts {
			sb.WriteString(p.Text)
		}
		out.Text = sb.String()
		if cand.GroundingMetadata != nil {
			for _, chunk := range cand.GroundingMetadata.GroundingChunks {
				if chunk.Web == nil {
					continue
				}
				out.Citations = append(out.Citations, domain.Citation{
					URI:   chunk.Web.URI,
					Title: chunk.Web.Title,
				})
			}
		}
	}
	return out, nil
}

// InlineImage is a single inline image returned by an image generation call.
type InlineImage struct {
	MIMEType string
	// Data is the base64-encoded image payload as delivered by the API.
	Data string
}

// GenerateImage runs an image generation against the given model. A nil
// result with a nil error means the response carried no image data; the
// caller decides how to classify that.
func (c *Client) GenerateImage(ctx context.Context, model, prompt string) (*InlineImage, error) {
	reqBody := generateContentRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{ResponseModalities: []string{"IMAGE"}},
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, model)
	var resp generateContentResponse
	if err := c.do(ctx, http.MethodPost, url, c.apiKey, reqBody, &resp); err != nil {
		return nil, err
	}

	for _, cand := range resp.Candidates {
		for _, p := range cand.Content.Parts {
			if p.InlineData != nil && p.InlineData.Data != "" {
				return &InlineImage{MIMEType: p.InlineData.MIMEType, Data: p.InlineData.Data}, nil
			}
		}
	}
	return nil, nil
}

// Wire models for the long-running video endpoints.

type videoSubmitRequest struct {
	Instances  []videoInstance `json:"instances"`
	Parameters videoParameters `json:"parameters"`
}

type videoInstance struct {
	Prompt string `json:"prompt"`
}

type videoParameters struct {
	AspectRatio string `json:"aspectRatio"`
	Resolution  string `json:"resolution"`
	SampleCount int    `json:"sampleCount"`
}

type videoOperation struct {
	Name     string `json:"name"`
	Done     bool   `json:"done"`
	Response *struct {
		GenerateVideoResponse *struct {
			GeneratedSamples []struct {
				Video *struct {
					URI string `json:"uri"`
				} `json:"video"`
			} `json:"generatedSamples"`
		} `json:"generateVideoResponse"`
	} `json:"response"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (op *videoOperation) toHandle() (domain.VideoJobHandle, error) {
	if op.Error != nil {
		return domain.VideoJobHandle{}, &APIError{StatusCode: op.Error.Code, Body: op.Error.Message}
	}
	handle := domain.VideoJobHandle{OperationName: op.Name, Done: op.Done}
	if op.Response != nil && op.Response.GenerateVideoResponse != nil {
		for _, sample := range op.Response.GenerateVideoResponse.GeneratedSamples {
			if sample.Video != nil && sample.Video.URI != "" {
				handle.ResultURI = sample.Video.URI
				break
			}
		}
	}
	return handle, nil
}

// SubmitVideo starts a long-running video generation job using the supplied
// session credential and returns the initial job handle. A handle may come
// back already done if the job completed synchronously.
func (c *Client) SubmitVideo(ctx context.Context, credential, model, prompt, resolution string, aspectRatio domain.AspectRatio) (domain.VideoJobHandle, error) {
	reqBody := videoSubmitRequest{
		Instances: []videoInstance{{Prompt: prompt}},
		Parameters: videoParameters{
			AspectRatio: string(aspectRatio),
			Resolution:  resolution,
			SampleCount: 1,
		},
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:predictLongRunning", c.baseURL, model)
	var op videoOperation
	if err := c.do(ctx, http.MethodPost, url, credential, reqBody, &op); err != nil {
		return domain.VideoJobHandle{}, err
	}
	return op.toHandle()
}

// PollVideo refreshes the state of an in-flight video job and returns the
// replacement handle.
func (c *Client) PollVideo(ctx context.Context, credential string, handle domain.VideoJobHandle) (domain.VideoJobHandle, error) {
	url := fmt.Sprintf("%s/v1beta/%s", c.baseURL, strings.TrimLeft(handle.OperationName, "/"))
	var op videoOperation
	if err := c.do(ctx, http.MethodGet, url, credential, nil, &op); err != nil {
		return domain.VideoJobHandle{}, err
	}
	return op.toHandle()
}

// FetchContent downloads the binary content at a result URI, appending the
// session credential as the download endpoints require. It returns the bytes
// and the response content type.
func (c *Client) FetchContent(ctx context.Context, credential, uri string) ([]byte, string, error) {
	sep := "?"
	if strings.Contains(uri, "?") {
		sep = "&"
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri+sep+"key="+credential, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create http request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, "", &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read content body: %w", err)
	}

	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "video/mp4"
	}
	return data, mimeType, nil
}

// do is a helper function to make JSON HTTP requests to the API.
func (c *Client) do(ctx context.Context, method, url, apiKey string, body, target interface{}) error {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create http request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-goog-api-key", apiKey)

	log.Printf("level=info component=geminiclient msg=\"api request\" method=%s url=%s", method, url)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("level=warn component=geminiclient msg=\"api returned non-success status\" status=%d", resp.StatusCode)
		return &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if target != nil {
		if err := json.Unmarshal(respBody, target); err != nil {
			return fmt.Errorf("failed to unmarshal response body: %w", err)
		}
	}

	return nil
}
