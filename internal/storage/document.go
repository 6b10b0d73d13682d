package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// DocumentStore uploads proof files to the platform document service over
// its multipart upload endpoint
type DocumentStore struct {
	baseURL    string
	bucket     string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewDocumentStore creates a document-service backed proof store
func NewDocumentStore(baseURL, bucket string, logger *logrus.Logger) *DocumentStore {
	if bucket == "" {
		bucket = "checkout-payment-proofs"
	}
	return &DocumentStore{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		bucket:  bucket,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// Upload sends the proof to the document service and returns the stored URL.
// Deadline expiry maps to ErrTimeout; every other failure is a generic
// storage error.
func (s *DocumentStore) Upload(ctx context.Context, upload ProofUpload) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	writer.WriteField("bucket", s.bucket)
	writer.WriteField("isPublic", "false")
	writer.WriteField("tags", fmt.Sprintf("merchant_id:%s,kind:payment_proof", upload.MerchantID))

	part, err := writer.CreateFormFile("file", upload.Filename)
	if err != nil {
		return "", fmt.Errorf("failed to create upload form: %w", err)
	}
	if _, err := part.Write(upload.Data); err != nil {
		return "", fmt.Errorf("failed to write upload form: %w", err)
	}
	writer.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/v1/documents/upload", &body)
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-Merchant-ID", upload.MerchantID)
	req.Header.Set("X-Internal-Service", "checkout-service")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", ErrTimeout
		}
		return "", fmt.Errorf("document service unreachable: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read document service response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.logger.WithFields(logrus.Fields{
			"status":      resp.StatusCode,
			"merchant_id": upload.MerchantID,
		}).Error("Document service rejected proof upload")
		return "", fmt.Errorf("document service returned status %d", resp.StatusCode)
	}

	var docResponse struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := json.Unmarshal(respBody, &docResponse); err != nil {
		return "", fmt.Errorf("failed to parse document service response: %w", err)
	}
	if docResponse.URL == "" {
		return "", errors.New("document service response missing url")
	}

	return docResponse.URL, nil
}
