package peppol

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Tradeshift is the Tradeshift access point client.
type Tradeshift struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewTradeshift(baseURL, apiKey string) *Tradeshift {
	if baseURL == "" {
		baseURL = "https://api.tradeshift.com/tradeshift/rest/external"
	}
	return &Tradeshift{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (t *Tradeshift) Name() string { return "tradeshift" }

func (t *Tradeshift) SendInvoice(ctx context.Context, senderID, receiverID string, ublXML []byte) (*SendResult, error) {
	endpoint := fmt.Sprintf("%s/documents/dispatcher?receiverId=%s", t.baseURL, url.QueryEscape(receiverID))

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(ublXML))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+t.apiKey)
	req.Header.Set("Content-Type", "text/xml")
	req.Header.Set("X-Tradeshift-SenderId", senderID)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tradeshift dispatch failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("tradeshift dispatch returned %d: %s", resp.StatusCode, body)
	}

	var out struct {
		DocumentID string `json:"documentId"`
	}
	if err := json.Unmarshal(body, &out); err != nil || out.DocumentID == "" {
		// Dispatcher may return an empty body with a Location header
		out.DocumentID = resp.Header.Get("Location")
	}

	return &SendResult{MessageID: out.DocumentID, Status: "SENT"}, nil
}

func (t *Tradeshift) GetStatus(ctx context.Context, messageID string) (*DeliveryStatus, error) {
	endpoint := fmt.Sprintf("%s/documents/%s/deliverystate", t.baseURL, url.PathEscape(messageID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+t.apiKey)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tradeshift status poll failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("tradeshift status poll returned %d: %s", resp.StatusCode, body)
	}

	var out struct {
		State  string `json:"state"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("tradeshift status decode failed: %w", err)
	}

	status := "SENT"
	switch out.State {
	case "DELIVERED", "ACCEPTED":
		status = "DELIVERED"
	case "FAILED", "REJECTED":
		status = "FAILED"
	}

	return &DeliveryStatus{MessageID: messageID, Status: status, Detail: out.Detail}, nil
}

func (t *Tradeshift) ValidateParticipant(ctx context.Context, participantID string) (bool, error) {
	endpoint := fmt.Sprintf("%s/network/participants/%s", t.baseURL, url.PathEscape(participantID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Authorization", "Bearer "+t.apiKey)

	resp, err := t.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("tradeshift participant lookup failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode >= 300 {
		return false, fmt.Errorf("tradeshift participant lookup returned %d", resp.StatusCode)
	}
	return true, nil
}
