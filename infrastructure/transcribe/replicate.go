// Package transcribe implements ports.Transcriber against the
// Replicate predictions API, the diarizing STT provider the source
// wires by default (model "thomasmol/whisper-diarization"). No pack
// repo ships a wireable Replicate client, so this is a minimal
// hand-rolled HTTP client following the same request/poll/download
// shape guiyumin-vget's OpenAI transcriber uses, with pkg/retry for
// bounded backoff on the prediction-create call; polling uses a fixed
// delay between attempts.
package transcribe

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/summeets/engine/domain/model"
	"github.com/summeets/engine/pkg/cancel"
	pkgerrors "github.com/summeets/engine/pkg/errors"
	"github.com/summeets/engine/pkg/retry"
)

const predictionsURL = "https://api.replicate.com/v1/predictions"

// ReplicateTranscriber calls Replicate's async prediction API, polling
// until the job reaches a terminal state, then writes the parsed
// segments to outputDir/{stem}.json.
type ReplicateTranscriber struct {
	Token      string
	HTTPClient *http.Client
	PollDelay  time.Duration
}

// NewReplicateTranscriber builds a transcriber with token (the
// REPLICATE_API_TOKEN credential).
func NewReplicateTranscriber(token string) *ReplicateTranscriber {
	return &ReplicateTranscriber{
		Token:      token,
		HTTPClient: &http.Client{Timeout: 5 * time.Minute},
		PollDelay:  3 * time.Second,
	}
}

type predictionRequest struct {
	Version string         `json:"version"`
	Input   map[string]any `json:"input"`
}

type predictionResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Output any    `json:"output"`
	Error  any    `json:"error"`
	URLs   struct {
		Get string `json:"get"`
	} `json:"urls"`
}

// Transcribe uploads audioPath's content inline (base64 data URI) to
// Replicate, polls for completion honoring token, and writes the
// resulting segments as JSON under outputDir.
func (r *ReplicateTranscriber) Transcribe(ctx context.Context, token *cancel.Token, audioPath, modelVersion, language, outputDir string) (string, error) {
	if err := token.Check(); err != nil {
		return "", err
	}
	if r.Token == "" {
		return "", pkgerrors.NewConfigurationError("REPLICATE_API_TOKEN", "STT credential is not configured", nil)
	}

	audioData, err := os.ReadFile(audioPath)
	if err != nil {
		return "", pkgerrors.NewFileNotFoundError(audioPath, err)
	}

	input := map[string]any{
		"audio": dataURI(audioData),
	}
	if language != "" && language != "auto" {
		input["language"] = language
	}

	var pred predictionResponse
	createErr := retry.Do(ctx, retry.DefaultConfig(), func() error {
		var err error
		pred, err = r.createPrediction(token.Context(), modelVersion, input)
		return err
	})
	if createErr != nil {
		return "", pkgerrors.NewTranscriptionError("replicate", "failed to create prediction", createErr)
	}

	final, err := r.poll(token, pred.ID)
	if err != nil {
		return "", err
	}
	if final.Status != "succeeded" {
		return "", pkgerrors.NewTranscriptionError("replicate", fmt.Sprintf("prediction ended with status %q: %v", final.Status, final.Error), nil)
	}

	segments, err := parseOutput(final.Output)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", pkgerrors.NewFileOperationError("mkdir", outputDir, err)
	}
	stem := trimExt(filepath.Base(audioPath))
	outPath := filepath.Join(outputDir, stem+".json")

	data, err := json.MarshalIndent(segments, "", "  ")
	if err != nil {
		return "", pkgerrors.NewFileOperationError("marshal", outPath, err)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return "", pkgerrors.NewFileOperationError("write", outPath, err)
	}

	return outPath, nil
}

func (r *ReplicateTranscriber) createPrediction(ctx context.Context, modelVersion string, input map[string]any) (predictionResponse, error) {
	body, err := json.Marshal(predictionRequest{Version: modelVersion, Input: input})
	if err != nil {
		return predictionResponse{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, predictionsURL, bytes.NewReader(body))
	if err != nil {
		return predictionResponse{}, err
	}
	req.Header.Set("Authorization", "Bearer "+r.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.HTTPClient.Do(req)
	if err != nil {
		return predictionResponse{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return predictionResponse{}, fmt.Errorf("replicate returned status %d", resp.StatusCode)
	}

	var pred predictionResponse
	if err := json.NewDecoder(resp.Body).Decode(&pred); err != nil {
		return predictionResponse{}, err
	}
	return pred, nil
}

func (r *ReplicateTranscriber) poll(token *cancel.Token, predictionID string) (predictionResponse, error) {
	url := predictionsURL + "/" + predictionID
	for {
		if err := token.Check(); err != nil {
			return predictionResponse{}, err
		}

		req, err := http.NewRequestWithContext(token.Context(), http.MethodGet, url, nil)
		if err != nil {
			return predictionResponse{}, err
		}
		req.Header.Set("Authorization", "Bearer "+r.Token)

		resp, err := r.HTTPClient.Do(req)
		if err != nil {
			return predictionResponse{}, pkgerrors.NewTranscriptionError("replicate", "polling failed", err)
		}
		var pred predictionResponse
		decodeErr := json.NewDecoder(resp.Body).Decode(&pred)
		resp.Body.Close()
		if decodeErr != nil {
			return predictionResponse{}, pkgerrors.NewTranscriptionError("replicate", "polling response malformed", decodeErr)
		}

		switch pred.Status {
		case "succeeded", "failed", "canceled":
			return pred, nil
		}

		select {
		case <-token.Context().Done():
			return predictionResponse{}, token.Check()
		case <-time.After(r.PollDelay):
		}
	}
}

type replicateSegment struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Text    string  `json:"text"`
	Speaker string  `json:"speaker"`
}

func parseOutput(output any) ([]model.Segment, error) {
	raw, err := json.Marshal(output)
	if err != nil {
		return nil, pkgerrors.NewTranscriptionError("replicate", "failed to re-marshal output", err)
	}

	var segments []replicateSegment
	if err := json.Unmarshal(raw, &segments); err == nil {
		out := make([]model.Segment, len(segments))
		for i, s := range segments {
			out[i] = model.Segment{Start: s.Start, End: s.End, Text: s.Text, Speaker: s.Speaker}
		}
		return out, nil
	}

	var wrapped struct {
		Segments []replicateSegment `json:"segments"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, pkgerrors.NewTranscriptionError("replicate", "unrecognized prediction output shape", err)
	}
	out := make([]model.Segment, len(wrapped.Segments))
	for i, s := range wrapped.Segments {
		out[i] = model.Segment{Start: s.Start, End: s.End, Text: s.Text, Speaker: s.Speaker}
	}
	return out, nil
}

func dataURI(data []byte) string {
	return "data:audio/wav;base64," + base64.StdEncoding.EncodeToString(data)
}

func trimExt(name string) string {
	ext := filepath.Ext(name)
	return name[:len(name)-len(ext)]
}
