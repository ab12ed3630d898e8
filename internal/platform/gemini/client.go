package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/cropdoctor/cropdoctor-backend/internal/apperrors"
	"github.com/cropdoctor/cropdoctor-backend/internal/core/domain"
	"github.com/cropdoctor/cropdoctor-backend/internal/platform/config"
)

// diagnosisPrompt is the fixed instruction sent with every image. The model is
// told to answer with a bare JSON object so the reply can be parsed strictly.
const diagnosisPrompt = `You are a plant pathologist. Analyze the attached crop photo and identify any disease.
Respond with a single JSON object and nothing else, using exactly these keys:
{"disease": "<disease name or 'Healthy'>", "confidence": <number 0-100>, "description": "<short description>", "symptoms": "<visible symptoms>", "treatment": "<recommended treatment>", "prevention": "<prevention advice>"}`

// Client calls the generative model's REST endpoint and parses its free-form
// reply into a structured diagnosis.
type Client struct {
	httpClient *http.Client
	baseURL    string
	model      string
	apiKey     string
}

// NewClient creates a diagnosis client from configuration. The configured
// timeout bounds every model call regardless of the provider's own limits.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.GeminiTimeout},
		baseURL:    strings.TrimRight(cfg.GeminiBaseURL, "/"),
		model:      cfg.GeminiModel,
		apiKey:     cfg.GeminiAPIKey,
	}
}

type generateContentRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Diagnose encodes the image alongside the fixed prompt, calls the model, and
// parses the reply. Every failure mode (transport, non-200, empty reply,
// malformed JSON) surfaces as apperrors.ErrInference; nothing is retried.
func (c *Client) Diagnose(ctx context.Context, imageBytes []byte, contentType string) (*domain.Diagnosis, error) {
	if len(imageBytes) == 0 {
		return nil, fmt.Errorf("%w: empty image payload", apperrors.ErrInference)
	}

	reqBody := generateContentRequest{
		Contents: []content{{
			Parts: []part{
				{Text: diagnosisPrompt},
				{InlineData: &inlineData{
					MimeType: contentType,
					Data:     base64.StdEncoding.EncodeToString(imageBytes),
				}},
			},
		}},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %v", apperrors.ErrInference, err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", apperrors.ErrInference, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: model call failed: %v", apperrors.ErrInference, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain but never propagate the provider's error body to callers.
		return nil, fmt.Errorf("%w: model returned status %d", apperrors.ErrInference, resp.StatusCode)
	}

	var genResp generateContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", apperrors.ErrInference, err)
	}

	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: model returned no candidates", apperrors.ErrInference)
	}

	return ParseDiagnosis(genResp.Candidates[0].Content.Parts[0].Text)
}

// ParseDiagnosis extracts the JSON object embedded in the model's textual
// reply. Markdown code fences around the object are stripped; anything that
// then fails strict JSON parsing is an inference error, not a crash.
func ParseDiagnosis(reply string) (*domain.Diagnosis, error) {
	cleaned := stripFences(reply)

	var raw struct {
		Disease     string          `json:"disease"`
		Confidence  json.RawMessage `json:"confidence"`
		Description string          `json:"description"`
		Symptoms    string          `json:"symptoms"`
		Treatment   string          `json:"treatment"`
		Prevention  string          `json:"prevention"`
	}
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("%w: reply is not the expected JSON structure: %v", apperrors.ErrInference, err)
	}
	if raw.Disease == "" {
		return nil, fmt.Errorf("%w: reply missing disease label", apperrors.ErrInference)
	}

	confidence, err := parseConfidence(raw.Confidence)
	if err != nil {
		return nil, err
	}

	return &domain.Diagnosis{
		Disease:     raw.Disease,
		Confidence:  confidence,
		Description: raw.Description,
		Symptoms:    raw.Symptoms,
		Treatment:   raw.Treatment,
		Prevention:  raw.Prevention,
	}, nil
}

// parseConfidence accepts the confidence either as a JSON number or as a
// numeric string, normalizing to a float in [0, 100].
func parseConfidence(raw json.RawMessage) (float64, error) {
	if len(raw) == 0 {
		return 0, fmt.Errorf("%w: reply missing confidence", apperrors.ErrInference)
	}

	var asNumber float64
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		return validateConfidence(asNumber)
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		parsed, perr := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(asString), "%"), 64)
		if perr != nil {
			return 0, fmt.Errorf("%w: confidence %q is not numeric", apperrors.ErrInference, asString)
		}
		return validateConfidence(parsed)
	}

	return 0, fmt.Errorf("%w: confidence has unexpected type", apperrors.ErrInference)
}

func validateConfidence(v float64) (float64, error) {
	if v < 0 || v > 100 {
		return 0, fmt.Errorf("%w: confidence %v outside range 0-100", apperrors.ErrInference, v)
	}
	return v, nil
}

func stripFences(reply string) string {
	cleaned := strings.TrimSpace(reply)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	}
	return strings.TrimSpace(cleaned)
}
