package gemini_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cropdoctor/cropdoctor-backend/internal/apperrors"
	"github.com/cropdoctor/cropdoctor-backend/internal/platform/config"
	"github.com/cropdoctor/cropdoctor-backend/internal/platform/gemini"
)

func TestParseDiagnosis_PlainJSON(t *testing.T) {
	reply := `{"disease": "Leaf Rust", "confidence": 92.5, "description": "Fungal infection", "symptoms": "Orange pustules", "treatment": "Fungicide", "prevention": "Crop rotation"}`

	diagnosis, err := gemini.ParseDiagnosis(reply)

	require.NoError(t, err)
	assert.Equal(t, "Leaf Rust", diagnosis.Disease)
	assert.Equal(t, 92.5, diagnosis.Confidence)
	assert.Equal(t, "Fungicide", diagnosis.Treatment)
}

func TestParseDiagnosis_StripsMarkdownFences(t *testing.T) {
	reply := "```json\n{\"disease\": \"Blight\", \"confidence\": 80, \"description\": \"d\", \"symptoms\": \"s\", \"treatment\": \"t\", \"prevention\": \"p\"}\n```"

	diagnosis, err := gemini.ParseDiagnosis(reply)

	require.NoError(t, err)
	assert.Equal(t, "Blight", diagnosis.Disease)
	assert.Equal(t, 80.0, diagnosis.Confidence)
}

func TestParseDiagnosis_StringConfidence(t *testing.T) {
	reply := `{"disease": "Blight", "confidence": "94", "description": "", "symptoms": "", "treatment": "", "prevention": ""}`

	diagnosis, err := gemini.ParseDiagnosis(reply)

	require.NoError(t, err)
	assert.Equal(t, 94.0, diagnosis.Confidence)
}

func TestParseDiagnosis_PercentSuffixConfidence(t *testing.T) {
	reply := `{"disease": "Blight", "confidence": "87.5%", "description": "", "symptoms": "", "treatment": "", "prevention": ""}`

	diagnosis, err := gemini.ParseDiagnosis(reply)

	require.NoError(t, err)
	assert.Equal(t, 87.5, diagnosis.Confidence)
}

func TestParseDiagnosis_MalformedReply(t *testing.T) {
	cases := map[string]string{
		"prose":                "The plant looks sick, maybe rust?",
		"empty":                "",
		"missing disease":      `{"confidence": 50}`,
		"non-numeric conf":     `{"disease": "X", "confidence": "high"}`,
		"confidence too large": `{"disease": "X", "confidence": 150}`,
		"negative confidence":  `{"disease": "X", "confidence": -1}`,
	}

	for name, reply := range cases {
		t.Run(name, func(t *testing.T) {
			diagnosis, err := gemini.ParseDiagnosis(reply)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrInference)
			assert.Nil(t, diagnosis)
		})
	}
}

func newTestClient(baseURL string) *gemini.Client {
	return gemini.NewClient(&config.Config{
		GeminiAPIKey:  "test-key",
		GeminiModel:   "gemini-test",
		GeminiBaseURL: baseURL,
		GeminiTimeout: 5 * time.Second,
	})
}

func modelReply(text string) map[string]any {
	return map[string]any{
		"candidates": []map[string]any{{
			"content": map[string]any{
				"parts": []map[string]any{{"text": text}},
			},
		}},
	}
}

func TestDiagnose_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "gemini-test:generateContent")
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var body struct {
			Contents []struct {
				Parts []struct {
					Text       string `json:"text"`
					InlineData *struct {
						MimeType string `json:"mime_type"`
						Data     string `json:"data"`
					} `json:"inline_data"`
				} `json:"parts"`
			} `json:"contents"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Contents, 1)
		require.Len(t, body.Contents[0].Parts, 2)
		assert.NotEmpty(t, body.Contents[0].Parts[0].Text)
		assert.Equal(t, "image/jpeg", body.Contents[0].Parts[1].InlineData.MimeType)

		json.NewEncoder(w).Encode(modelReply("```json\n{\"disease\": \"Leaf Rust\", \"confidence\": \"91\", \"description\": \"d\", \"symptoms\": \"s\", \"treatment\": \"t\", \"prevention\": \"p\"}\n```"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	diagnosis, err := client.Diagnose(context.Background(), []byte("fake-image"), "image/jpeg")

	require.NoError(t, err)
	assert.Equal(t, "Leaf Rust", diagnosis.Disease)
	assert.Equal(t, 91.0, diagnosis.Confidence)
}

func TestDiagnose_ProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "internal provider detail"}}`, http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	diagnosis, err := client.Diagnose(context.Background(), []byte("fake-image"), "image/jpeg")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInference)
	assert.NotContains(t, err.Error(), "internal provider detail")
	assert.Nil(t, diagnosis)
}

func TestDiagnose_NoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	diagnosis, err := client.Diagnose(context.Background(), []byte("fake-image"), "image/jpeg")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInference)
	assert.Nil(t, diagnosis)
}

func TestDiagnose_EmptyImage(t *testing.T) {
	client := newTestClient("http://unused.invalid")
	diagnosis, err := client.Diagnose(context.Background(), nil, "image/jpeg")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInference)
	assert.Nil(t, diagnosis)
}
