package agent

import (
	"context"

	"carehaven-edgesim/internal/models"
)

// DataSource 数据来源适配器
//
// 屏蔽会话记录的获取渠道（模拟引擎、数据库、消息队列等），
// 供上层 Agent 统一消费。
type DataSource interface {
	// Acquire 获取一批会话记录
	Acquire(ctx context.Context) ([]models.CognitiveSession, error)
}

// Predictor 风险预测模型
type Predictor interface {
	// Predict 由单条会话推断认知健康综合指数
	Predict(ctx context.Context, session *models.CognitiveSession) (float64, error)
}

// EventEmitter 事件发射端（报警、通知、下游管道）
type EventEmitter interface {
	// Emit 发出一条带任意负载的事件
	Emit(ctx context.Context, eventType string, payload interface{}) error
}

// Agent 智能层代理的能力集合
//
// 具体代理按需组合实现；当前仓库只提供边界定义，不含任何实现。
type Agent interface {
	DataSource
	Predictor
	EventEmitter
}
