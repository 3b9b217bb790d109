package models

import (
	"time"
)

// NoDataFact 是本地事实引擎没有数据时使用的哨兵事实。
const NoDataFact = "No data found."

// Mood 是本地事实引擎推断出的用户情绪标签。
// 引擎是不可信的外部进程，未知的非空标签会原样保留。
type Mood string

const (
	MoodNeutral  Mood = "NEUTRAL" // 默认值。
	MoodPositive Mood = "POSITIVE"
	MoodNegative Mood = "NEGATIVE"
	MoodCalm     Mood = "CALM"
)

// LocalFact 是解析本地事实引擎输出后的结构化结果。
// 两个字段总是被填充：没有数据时 Fact 为 NoDataFact，Mood 为 MoodNeutral。
type LocalFact struct {
	Fact string `json:"fact"`
	Mood Mood   `json:"mood"`
}

// PromptPayload 是发送给语言模型的完整指令包。
type PromptPayload struct {
	System string `json:"system"` // 角色、日期、数据源和强制规则。
	User   string `json:"user"`   // 用户原始消息。
}

// ConversationTurn 是一条持久化的对话记录，只追加，只能整体清空。
type ConversationTurn struct {
	ID        uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	Role      SpeakerRole `gorm:"type:varchar(16);index;not null" json:"role"`
	Content   string      `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time   `gorm:"autoCreateTime" json:"createdAt"`
}

func (ConversationTurn) TableName() string {
	return "history"
}

// ProfileEntry 描述助手身份的键值对，启动时写入种子数据。
type ProfileEntry struct {
	Key   string `gorm:"primaryKey;type:varchar(64)" json:"key"`
	Value string `gorm:"type:text" json:"value"`
}

func (ProfileEntry) TableName() string {
	return "profile"
}

// ExchangeEvent 是一次成功问答后发布到消息队列的事件。
type ExchangeEvent struct {
	TraceID       string    `json:"trace_id"`
	UserMessage   string    `json:"user_message"`
	Reply         string    `json:"reply"`
	Mood          Mood      `json:"mood"`
	UsedWebSearch bool      `json:"used_web_search"`
	CreatedAt     time.Time `json:"created_at"`
}
