package peppol

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Basware is the Basware access point client. Unlike Tradeshift it
// takes the UBL payload base64-wrapped inside a JSON envelope.
type Basware struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewBasware(baseURL, apiKey string) *Basware {
	if baseURL == "" {
		baseURL = "https://api.basware.com/v1"
	}
	return &Basware{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (b *Basware) Name() string { return "basware" }

func (b *Basware) SendInvoice(ctx context.Context, senderID, receiverID string, ublXML []byte) (*SendResult, error) {
	payload := map[string]string{
		"senderParticipant":   senderID,
		"receiverParticipant": receiverID,
		"documentFormat":      "UBL-2.1",
		"document":            base64.StdEncoding.EncodeToString(ublXML),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/outbound/invoices", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+b.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("basware send failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("basware send returned %d: %s", resp.StatusCode, respBody)
	}

	var out struct {
		MessageID string `json:"messageId"`
	}
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("basware response decode failed: %w", err)
	}

	return &SendResult{MessageID: out.MessageID, Status: "SENT"}, nil
}

func (b *Basware) GetStatus(ctx context.Context, messageID string) (*DeliveryStatus, error) {
	endpoint := fmt.Sprintf("%s/outbound/invoices/%s/status", b.baseURL, url.PathEscape(messageID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+b.apiKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("basware status poll failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("basware status poll returned %d: %s", resp.StatusCode, respBody)
	}

	var out struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	}
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("basware status decode failed: %w", err)
	}

	status := "SENT"
	switch out.Status {
	case "delivered":
		status = "DELIVERED"
	case "failed", "rejected":
		status = "FAILED"
	}

	return &DeliveryStatus{MessageID: messageID, Status: status, Detail: out.Reason}, nil
}

func (b *Basware) ValidateParticipant(ctx context.Context, participantID string) (bool, error) {
	endpoint := fmt.Sprintf("%s/directory/participants/%s", b.baseURL, url.PathEscape(participantID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Authorization", "Bearer "+b.apiKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("basware participant lookup failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode >= 300 {
		return false, fmt.Errorf("basware participant lookup returned %d", resp.StatusCode)
	}
	return true, nil
}
