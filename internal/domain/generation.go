/**
 * @description
 * This file defines the models for generation requests and their results.
 * Results are ephemeral: they are produced per request, handed back to the
 * caller, and never persisted.
 *
 * The video job handle mirrors the long-running-operation contract of the
 * generative backend: an opaque operation name plus a done flag that flips
 * exactly once, and a result URI that is only meaningful once done is true.
 */

package domain

import "fmt"

// ContentKind identifies the generation capability a request exercises.
type ContentKind string

const (
	ContentSuggestions ContentKind = "suggestions"
	ContentTrends      ContentKind = "trends"
	ContentScript      ContentKind = "script"
	ContentPhoto       ContentKind = "photo"
	ContentVideo       ContentKind = "video"
)

// Citation is a single web grounding source returned alongside generated text.
// Entries without a usable URI are dropped before results reach the caller.
type Citation struct {
	URI   string `json:"uri"`
	Title string `json:"title,omitempty"`
}

// TextResult is the outcome of a text-bearing generation request.
type TextResult struct {
	Text      string     `json:"text"`
	Citations []Citation `json:"citations"`
}

// ImageResult carries a single self-contained encoded image.
type ImageResult struct {
	// ImageDataURI is a data: URI embedding the image bytes, ready for
	// direct display or download by the client.
	ImageDataURI string `json:"image_data_uri"`
}

// VideoResult is the materialized outcome of a completed video job.
type VideoResult struct {
	// Data holds the downloaded video bytes.
	Data []byte `json:"-"`
	// MIMEType describes Data, normally video/mp4.
	MIMEType string `json:"mime_type"`
	// SourceURI is the backend URI the bytes were fetched from.
	SourceURI string `json:"source_uri"`
}

// AspectRatio constrains video generation to the two supported orientations.
type AspectRatio string

const (
	AspectLandscape AspectRatio = "16:9"
	AspectPortrait  AspectRatio = "9:16"
)

// ParseAspectRatio validates a client-supplied aspect ratio string.
func ParseAspectRatio(s string) (AspectRatio, error) {
	switch AspectRatio(s) {
	case AspectLandscape, AspectPortrait:
		return AspectRatio(s), nil
	}
	return "", &ValidationError{Field: "aspect_ratio", Reason: fmt.Sprintf("must be %q or %q", AspectLandscape, AspectPortrait)}
}

// VideoJobHandle identifies an in-flight long-running video operation.
// Done flips from false to true exactly once; ResultURI is populated only
// when Done is true and the job produced output.
type VideoJobHandle struct {
	OperationName string
	Done          bool
	ResultURI     string
}
