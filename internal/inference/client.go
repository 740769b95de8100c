// Package inference calls the external sherd-detection service: a
// photograph plus the batch weight goes in, per-sherd predictions and an
// annotated image come back.
package inference

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultTimeout bounds the analyze call; detection on a large photograph
// routinely takes tens of seconds.
const DefaultTimeout = 60 * time.Second

var (
	// ErrTimeout indicates the analyze call exceeded the client timeout.
	ErrTimeout = errors.New("inference request timed out")
	// ErrUnsupportedMaterial indicates a ware the detection model does not
	// cover; only fine ware and coarse ware are analyzable.
	ErrUnsupportedMaterial = errors.New("material type not supported for image analysis")
)

// ServiceError is a non-200 reply from the detection service. The upstream
// status and body are surfaced verbatim to the caller.
type ServiceError struct {
	Status int
	Body   string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("inference service responded with status %d: %s", e.Status, e.Body)
}

// DetectedSherd is one prediction in an analysis response.
type DetectedSherd struct {
	SherdID                 string   `json:"sherd_id"`
	Weight                  float64  `json:"weight"`
	TypePrediction          string   `json:"type_prediction"`
	QualificationPrediction string   `json:"qualification_prediction"`
	Confidence              *float64 `json:"confidence,omitempty"`
	X                       *float64 `json:"x,omitempty"`
	Y                       *float64 `json:"y,omitempty"`
	Width                   *float64 `json:"width,omitempty"`
	Height                  *float64 `json:"height,omitempty"`
	DetectionID             string   `json:"detection_id,omitempty"`
}

// AnalysisResult is the detection service's reply: per-sherd predictions
// plus the source photograph annotated with bounding boxes (base64 JPEG).
type AnalysisResult struct {
	Sherds         []DetectedSherd `json:"sherds"`
	AnnotatedImage string          `json:"annotated_image"`
}

// AnalyzeRequest describes one photograph to analyze.
type AnalyzeRequest struct {
	// ImageName is the original filename; only its extension is used to
	// name the uploaded part.
	ImageName string
	Image     io.Reader
	// TotalWeight is the weighed batch total in grams, distributed across
	// detections by the service.
	TotalWeight  float64
	MaterialType string
}

// Client calls the detection service over HTTP.
type Client struct {
	http   *resty.Client
	logger *slog.Logger
}

// NewClient creates a detection-service client. No retries: a failed or
// timed-out analysis is surfaced and the user re-submits.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &Client{http: client, logger: logger}
}

// Analyze submits the photograph and batch weight as a multipart form and
// returns the parsed predictions.
func (c *Client) Analyze(ctx context.Context, req AnalyzeRequest) (*AnalysisResult, error) {
	if req.MaterialType != "fine-ware" && req.MaterialType != "coarse-ware" {
		return nil, ErrUnsupportedMaterial
	}
	if req.Image == nil {
		return nil, fmt.Errorf("missing image")
	}

	fileName := "photo" + imageExt(req.ImageName)

	var result AnalysisResult
	resp, err := c.http.R().
		SetContext(ctx).
		SetFileReader("image", fileName, req.Image).
		SetFormData(map[string]string{
			"weight":        strconv.FormatFloat(req.TotalWeight, 'f', -1, 64),
			"material_type": req.MaterialType,
		}).
		SetResult(&result).
		ForceContentType("application/json").
		Post("/analyze")

	if err != nil {
		if isTimeout(err) {
			c.logger.Error("inference request timed out", "error", err)
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("calling inference service: %w", err)
	}

	if resp.IsError() {
		c.logger.Error("inference service error",
			"status", resp.StatusCode(), "body", string(resp.Body()))
		return nil, &ServiceError{Status: resp.StatusCode(), Body: string(resp.Body())}
	}

	c.logger.Info("image analysis complete", "sherds", len(result.Sherds))
	return &result, nil
}

func imageExt(name string) string {
	if ext := path.Ext(name); ext != "" {
		return strings.ToLower(ext)
	}
	return ".jpg"
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
