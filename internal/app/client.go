package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// Client is a typed wrapper over the SecRAG backend. It holds no session
// state; every method issues exactly one request and maps failures into
// *OpError.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client

	log *zap.Logger
}

func NewClient(baseURL, apiKey string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: 120 * time.Second},
		log:     logger,
	}
}

type Citation struct {
	ChunkID  int           `json:"chunk_id"`
	Score    float64       `json:"score"`
	Filename string        `json:"filename,omitempty"`
	Content  string        `json:"content,omitempty"`
	Metadata *CitationMeta `json:"metadata,omitempty"`
}

type CitationMeta struct {
	SourcePath string `json:"source_path,omitempty"`
	CreatedAt  string `json:"created_at,omitempty"`
	CharStart  *int   `json:"char_start,omitempty"`
	CharEnd    *int   `json:"char_end,omitempty"`
}

// Preview returns a short excerpt of the cited passage.
func (c Citation) Preview(maxRunes int) string {
	r := []rune(c.Content)
	if maxRunes <= 0 || len(r) <= maxRunes {
		return c.Content
	}
	return string(r[:maxRunes]) + "…"
}

type UploadResult struct {
	Filename     string `json:"filename"`
	TotalChunks  int    `json:"total_chunks"`
	EmbeddingDim int    `json:"embedding_dim"`
}

type AnswerRequest struct {
	Filename string  `json:"filename"`
	Query    string  `json:"query"`
	TopK     int     `json:"top_k"`
	Mode     string  `json:"mode,omitempty"`
	Alpha    float64 `json:"alpha,omitempty"`
}

type AnswerResult struct {
	Answer    string     `json:"answer"`
	Citations []Citation `json:"citations"`
}

type SummarizeRequest struct {
	Filename        string  `json:"filename"`
	IntroChunks     int     `json:"intro_chunks"`
	TopK            int     `json:"top_k"`
	MaxOutputTokens int     `json:"max_output_tokens"`
	Mode            string  `json:"mode,omitempty"`
	Alpha           float64 `json:"alpha,omitempty"`
}

type SummarizeResult struct {
	Summary   string     `json:"summary"`
	Citations []Citation `json:"citations"`
}

type SampleQuestionsRequest struct {
	Filename        string `json:"filename"`
	IntroChunks     int    `json:"intro_chunks"`
	TopK            int    `json:"top_k"`
	MaxOutputTokens int    `json:"max_output_tokens"`
}

type DeleteResult struct {
	Deleted []string `json:"deleted"`
}

func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("health: status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) ListDocs(ctx context.Context) ([]string, error) {
	var out struct {
		Documents []string `json:"documents"`
	}
	if err := c.doJSON(ctx, OpList, http.MethodGet, "/list_docs", nil, &out); err != nil {
		return nil, err
	}
	return out.Documents, nil
}

func (c *Client) Upload(ctx context.Context, filename string, data []byte) (*UploadResult, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := fw.Write(data); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/upload", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.auth(req)

	var out UploadResult
	if err := c.send(req, OpUpload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Answer(ctx context.Context, in AnswerRequest) (*AnswerResult, error) {
	var out AnswerResult
	if err := c.doJSON(ctx, OpAsk, http.MethodPost, "/answer", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Summarize(ctx context.Context, in SummarizeRequest) (*SummarizeResult, error) {
	var out SummarizeResult
	if err := c.doJSON(ctx, OpSummarize, http.MethodPost, "/summarize", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SampleQuestions(ctx context.Context, in SampleQuestionsRequest) ([]string, error) {
	var out struct {
		Questions []string `json:"questions"`
	}
	if err := c.doJSON(ctx, OpSamples, http.MethodPost, "/sample_questions", in, &out); err != nil {
		return nil, err
	}
	return out.Questions, nil
}

func (c *Client) DeleteDocument(ctx context.Context, filename string) (*DeleteResult, error) {
	path := "/documents/" + url.PathEscape(filename)
	var out DeleteResult
	if err := c.doJSON(ctx, OpDelete, http.MethodDelete, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) auth(req *http.Request) {
	if c.APIKey != "" {
		req.Header.Set("X-API-KEY", c.APIKey)
	}
}

func (c *Client) doJSON(ctx context.Context, kind OpKind, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.auth(req)
	return c.send(req, kind, out)
}

func (c *Client) send(req *http.Request, kind OpKind, out interface{}) error {
	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.log.Error("request failed",
			zap.String("op", string(kind)),
			zap.String("url", req.URL.Path),
			zap.Error(err))
		return newOpError(kind, 0, "")
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return newOpError(kind, resp.StatusCode, "")
	}

	if resp.StatusCode >= 300 {
		// FastAPI puts the human-readable message in `detail`.
		var errBody struct {
			Detail string `json:"detail"`
		}
		_ = json.Unmarshal(bodyBytes, &errBody)
		c.log.Error("request rejected",
			zap.String("op", string(kind)),
			zap.String("url", req.URL.Path),
			zap.Int("status", resp.StatusCode),
			zap.String("detail", errBody.Detail))
		return newOpError(kind, resp.StatusCode, errBody.Detail)
	}

	if out != nil {
		if err := json.Unmarshal(bodyBytes, out); err != nil {
			c.log.Error("bad response body",
				zap.String("op", string(kind)),
				zap.Error(err))
			return newOpError(kind, resp.StatusCode, "")
		}
	}

	c.log.Debug("request ok",
		zap.String("op", string(kind)),
		zap.String("url", req.URL.Path),
		zap.Int64("ms", time.Since(start).Milliseconds()))
	return nil
}
