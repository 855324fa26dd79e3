package connector

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"carehaven-edgesim/internal/config"
	"carehaven-edgesim/internal/models"
)

// IngestResponse 边缘连接器摄入接口的响应
//
// cognitive_index 由下游模型推断得出，模型不可用时为随机回退值，
// ml_model_status 区分两种来源（"success" / "fallback_used"）。
type IngestResponse struct {
	Status         string  `json:"status"`
	Message        string  `json:"message"`
	DocumentID     string  `json:"document_id"`
	PatientID      string  `json:"patient_id"`
	CognitiveIndex float64 `json:"cognitive_index"`
	Timestamp      string  `json:"timestamp"`
	MLModelStatus  string  `json:"ml_model_status"`
}

// EdgeClient 边缘连接器客户端
//
// 连接器是外部协作方，推送失败一律视为非致命；调用方记录日志后继续。
type EdgeClient struct {
	httpClient   *resty.Client
	url          string
	functionCode string
	logger       *zap.Logger
}

// NewEdgeClient 创建边缘连接器客户端
func NewEdgeClient(cfg *config.Config, logger *zap.Logger) *EdgeClient {
	client := resty.New().
		SetTimeout(time.Duration(cfg.EdgeConnector.TimeoutSec) * time.Second).
		SetRetryCount(cfg.EdgeConnector.RetryCount).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &EdgeClient{
		httpClient:   client,
		url:          cfg.EdgeConnector.URL,
		functionCode: cfg.EdgeConnector.FunctionCode,
		logger:       logger,
	}
}

// IngestSession 推送单条会话记录，返回含 cognitive_index 的增强响应
func (c *EdgeClient) IngestSession(session *models.CognitiveSession) (*IngestResponse, error) {
	if session == nil {
		return nil, fmt.Errorf("session is required")
	}

	var response IngestResponse
	req := c.httpClient.R().
		SetBody(session).
		SetResult(&response)
	if c.functionCode != "" {
		req.SetQueryParam("code", c.functionCode)
	}

	resp, err := req.Post(c.url)
	if err != nil {
		c.logger.Error("Edge connector call failed",
			zap.String("patient_id", session.PatientID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to call edge connector: %w", err)
	}

	if resp.StatusCode() != 200 {
		c.logger.Error("Edge connector returned error",
			zap.String("patient_id", session.PatientID),
			zap.Int("status_code", resp.StatusCode()),
			zap.String("body", resp.String()),
		)
		return nil, fmt.Errorf("edge connector error: status %d", resp.StatusCode())
	}

	c.logger.Info("Session ingested by edge connector",
		zap.String("patient_id", response.PatientID),
		zap.String("document_id", response.DocumentID),
		zap.Float64("cognitive_index", response.CognitiveIndex),
		zap.String("ml_model_status", response.MLModelStatus),
	)
	return &response, nil
}
