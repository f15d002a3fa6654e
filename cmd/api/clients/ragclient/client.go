// Package ragclient talks to the knowledge engine REST API: datasets,
// documents, chunk retrieval, chat sessions and the streaming
// completion endpoint.
package ragclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/the-beginners-2025/backend-go/cmd/api/httpclient"
)

// ErrSessionNotFound is returned when no chat session exists for the
// requested conversation.
var ErrSessionNotFound = errors.New("ragclient: session not found")

// Dataset is one knowledge base.
type Dataset struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	DocumentCount int    `json:"document_count"`
	ChunkCount    int    `json:"chunk_count"`
}

// Document is one file inside a dataset.
type Document struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Size            int64   `json:"size"`
	TokenCount      int     `json:"token_count"`
	ChunkCount      int     `json:"chunk_count"`
	Progress        float64 `json:"progress"`
	ProgressMessage string  `json:"progress_msg"`
}

// Chunk is one indexed slice of a document.
type Chunk struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Available bool   `json:"available"`
}

// ResultChunk is one retrieval hit with its similarity scores.
type ResultChunk struct {
	ID                 string  `json:"id"`
	Content            string  `json:"content"`
	HighlightedContent string  `json:"highlight"`
	Similarity         float64 `json:"similarity"`
	TermSimilarity     float64 `json:"term_similarity"`
	VectorSimilarity   float64 `json:"vector_similarity"`
}

// ReferenceChunk is one cited chunk attached to an assistant answer.
type ReferenceChunk struct {
	ID           string `json:"id"`
	Content      string `json:"content"`
	DatasetID    string `json:"dataset_id"`
	DocumentID   string `json:"document_id"`
	DocumentName string `json:"document_name"`
}

// Message is one turn of a chat session's stored history.
type Message struct {
	Role       string           `json:"role"`
	Content    string           `json:"content"`
	References []ReferenceChunk `json:"reference"`
}

// Session is a server-side chat session. Message history lives here,
// not in the local database.
type Session struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Messages []Message `json:"messages"`
}

// RetrieveRequest parameterizes a chunk retrieval. Zero values for the
// tuning fields fall back to the engine defaults used product-wide.
type RetrieveRequest struct {
	Question               string
	DatasetIDs             []string
	DocumentIDs            []string
	Page                   int
	PageSize               int
	SimilarityThreshold    float64
	VectorSimilarityWeight float64
	TopK                   int
}

// Client is the knowledge engine API client. All calls authenticate
// with the API key except GetSystemStatus which takes the admin
// authorization separately.
type Client struct {
	base   *httpclient.BaseClient
	apiKey string
	chatID string
}

// New builds a Client. chatID identifies the chat assistant all
// sessions are created under. The timeout is generous because the
// completion endpoint streams long answers over one request.
func New(endpoint, apiKey, chatID string) *Client {
	return &Client{
		base:   httpclient.NewBaseClientWithClient(httpclient.New(httpclient.Config{Timeout: 5 * time.Minute}), endpoint),
		apiKey: apiKey,
		chatID: chatID,
	}
}

// envelope is the engine's uniform response wrapper. code 0 means
// success; anything else carries a message.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) doJSON(ctx context.Context, method, relPath string, query url.Values, body any, out any) error {
	var payload *bytes.Buffer
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("ragclient: marshal request: %w", err)
		}
		payload = bytes.NewBuffer(encoded)
	} else {
		payload = &bytes.Buffer{}
	}

	req, err := c.base.NewRequest(ctx, method, relPath, query, payload)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.base.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("ragclient: decode response: %w", err)
	}
	if env.Code != 0 {
		return fmt.Errorf("ragclient: %s %s: code %d: %s", method, relPath, env.Code, env.Message)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("ragclient: decode data: %w", err)
		}
	}
	return nil
}

// ListDatasets returns all knowledge bases visible to the API key.
func (c *Client) ListDatasets(ctx context.Context) ([]Dataset, error) {
	var datasets []Dataset
	query := url.Values{"page_size": {"100"}}
	if err := c.doJSON(ctx, http.MethodGet, "api/v1/datasets", query, nil, &datasets); err != nil {
		return nil, err
	}
	return datasets, nil
}

// ListDocuments returns one page of a dataset's documents together
// with the total document count.
func (c *Client) ListDocuments(ctx context.Context, datasetID string, page, pageSize int) ([]Document, int, error) {
	query := url.Values{
		"page":      {strconv.Itoa(page)},
		"page_size": {strconv.Itoa(pageSize)},
	}
	var data struct {
		Docs  []Document `json:"docs"`
		Total int        `json:"total"`
	}
	relPath := fmt.Sprintf("api/v1/datasets/%s/documents", datasetID)
	if err := c.doJSON(ctx, http.MethodGet, relPath, query, nil, &data); err != nil {
		return nil, 0, err
	}
	return data.Docs, data.Total, nil
}

// ListChunks returns one page of a document's chunks together with
// the total chunk count.
func (c *Client) ListChunks(ctx context.Context, datasetID, documentID string, page, pageSize int) ([]Chunk, int, error) {
	query := url.Values{
		"page":      {strconv.Itoa(page)},
		"page_size": {strconv.Itoa(pageSize)},
	}
	var data struct {
		Chunks []Chunk `json:"chunks"`
		Total  int     `json:"total"`
	}
	relPath := fmt.Sprintf("api/v1/datasets/%s/documents/%s/chunks", datasetID, documentID)
	if err := c.doJSON(ctx, http.MethodGet, relPath, query, nil, &data); err != nil {
		return nil, 0, err
	}
	return data.Chunks, data.Total, nil
}

// Retrieve runs semantic retrieval over the given datasets.
func (c *Client) Retrieve(ctx context.Context, req RetrieveRequest) ([]ResultChunk, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 30
	}
	if req.SimilarityThreshold == 0 {
		req.SimilarityThreshold = 0.2
	}
	if req.VectorSimilarityWeight == 0 {
		req.VectorSimilarityWeight = 0.3
	}
	if req.TopK == 0 {
		req.TopK = 1024
	}
	if req.DocumentIDs == nil {
		req.DocumentIDs = []string{}
	}

	body := map[string]any{
		"question":                 req.Question,
		"dataset_ids":              req.DatasetIDs,
		"documents":                req.DocumentIDs,
		"page":                     req.Page,
		"page_size":                req.PageSize,
		"similarity_threshold":     req.SimilarityThreshold,
		"vector_similarity_weight": req.VectorSimilarityWeight,
		"top_k":                    req.TopK,
		"keyword":                  false,
	}
	var data struct {
		Chunks []ResultChunk `json:"chunks"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "api/v1/retrieval", nil, body, &data); err != nil {
		return nil, err
	}
	return data.Chunks, nil
}

// sessionName is the naming convention binding a local conversation to
// its engine-side session.
func sessionName(userID, conversationID string) string {
	return userID + ":" + conversationID
}

// CreateSession creates the engine-side session for a conversation.
func (c *Client) CreateSession(ctx context.Context, userID, conversationID string) error {
	relPath := fmt.Sprintf("api/v1/chats/%s/sessions", c.chatID)
	body := map[string]string{"name": sessionName(userID, conversationID)}
	return c.doJSON(ctx, http.MethodPost, relPath, nil, body, nil)
}

// FindSession looks the conversation's session up by name.
func (c *Client) FindSession(ctx context.Context, userID, conversationID string) (Session, error) {
	relPath := fmt.Sprintf("api/v1/chats/%s/sessions", c.chatID)
	query := url.Values{"name": {sessionName(userID, conversationID)}}
	var sessions []Session
	if err := c.doJSON(ctx, http.MethodGet, relPath, query, nil, &sessions); err != nil {
		return Session{}, err
	}
	if len(sessions) == 0 {
		return Session{}, ErrSessionNotFound
	}
	return sessions[0], nil
}

// DeleteSession removes the conversation's session from the engine.
func (c *Client) DeleteSession(ctx context.Context, userID, conversationID string) error {
	session, err := c.FindSession(ctx, userID, conversationID)
	if err != nil {
		return err
	}
	relPath := fmt.Sprintf("api/v1/chats/%s/sessions", c.chatID)
	body := map[string][]string{"ids": {session.ID}}
	return c.doJSON(ctx, http.MethodDelete, relPath, nil, body, nil)
}

// SessionMessages returns the conversation's stored history with each
// assistant message's citation markers reconciled against its chunks.
func (c *Client) SessionMessages(ctx context.Context, userID, conversationID string) ([]Message, error) {
	session, err := c.FindSession(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}
	messages := session.Messages
	for i, msg := range messages {
		if msg.References == nil {
			continue
		}
		refs, content := ReorderReferences(msg.Content, msg.References)
		messages[i].Content = content
		messages[i].References = refs
	}
	return messages, nil
}

// GetSystemStatus probes the engine's component health. It uses the
// web session authorization rather than the API key because the
// status endpoint sits outside the public API surface.
func (c *Client) GetSystemStatus(ctx context.Context, authorization string) (json.RawMessage, error) {
	req, err := c.base.NewRequest(ctx, http.MethodGet, "v1/system/status", nil, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", authorization)

	resp, err := c.base.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("ragclient: decode status: %w", err)
	}
	if env.Code != 0 {
		return nil, fmt.Errorf("ragclient: system status: code %d: %s", env.Code, env.Message)
	}
	return env.Data, nil
}

// Chat sends a question into the conversation's session and returns a
// stream of cumulative answer snapshots. The caller must Close the
// stream.
func (c *Client) Chat(ctx context.Context, userID, conversationID, question string) (*ChatStream, error) {
	session, err := c.FindSession(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(map[string]any{
		"question":   question,
		"stream":     true,
		"session_id": session.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("ragclient: marshal completion request: %w", err)
	}
	relPath := fmt.Sprintf("api/v1/chats/%s/completions", c.chatID)
	req, err := c.base.NewRequest(ctx, http.MethodPost, relPath, nil, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.base.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("ragclient: completion request failed with status %d", resp.StatusCode)
	}
	return newChatStream(resp.Body), nil
}
