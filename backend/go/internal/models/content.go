package models

import "time"

// SpeakerRole 定义了消息发送者的角色。
type SpeakerRole string

const (
	SpeakerSystem SpeakerRole = "system" // 系统指令。
	SpeakerUser   SpeakerRole = "user"   // 用户角色。
	SpeakerModel  SpeakerRole = "model"  // 模型角色。
	SpeakerBot    SpeakerRole = "bot"    // 持久化对话记录中的助手角色。
)

// Content 包含了构成单个消息的多个部分。
type Content struct {
	// 可选。构成单个消息的部分列表。
	Parts []*Part `json:"parts,omitempty"`
	// 可选。内容的生产者。
	Role SpeakerRole `json:"role,omitempty"`
}

// Text 返回所有文本部分拼接后的字符串。
func (c Content) Text() string {
	var text string
	for _, p := range c.Parts {
		if p != nil {
			text += p.Text
		}
	}
	return text
}

// Part 定义了消息的单个部分。
type Part struct {
	Text string `json:"text,omitempty"`
}

// NewTextContent 用一段文本构造单部分的 Content。
func NewTextContent(role SpeakerRole, text string) Content {
	return Content{Role: role, Parts: []*Part{{Text: text}}}
}

// GenerateContentRequest 定义了生成内容的请求结构。
type GenerateContentRequest struct {
	Content []Content `json:"content,omitempty"` // 请求的内容列表，按顺序发送给模型。
}

// SystemText 返回请求中所有 system 内容的文本。
func (r *GenerateContentRequest) SystemText() string {
	var text string
	for _, c := range r.Content {
		if c.Role == SpeakerSystem {
			text += c.Text()
		}
	}
	return text
}

// GenerateContentResponse 定义了生成内容的响应结构。
type GenerateContentResponse struct {
	Content      []Content `json:"content,omitempty"`      // 响应的内容列表。
	CreateTime   time.Time `json:"createTime,omitempty"`   // 响应创建时间。
	ResponseID   string    `json:"responseId,omitempty"`   // 响应ID。
	ModelVersion string    `json:"modelVersion,omitempty"` // 模型版本。
}

// Text 返回第一个候选内容的文本，没有候选时返回空字符串。
func (r *GenerateContentResponse) Text() string {
	if r == nil || len(r.Content) == 0 {
		return ""
	}
	return r.Content[0].Text()
}
