// internal/handler/dto.go
package handler

import "chemsolver/pkg/quiz"

type AddXPRequest struct {
	Amount int `json:"amount" binding:"required,min=1"`
}

type SubmitChallengeRequest struct {
	SessionID string        `json:"session_id" binding:"required"`
	Answers   []quiz.Answer `json:"answers"`
}

type SolveRequest struct {
	// base64 圖片，可帶 "data:image/jpeg;base64," 前綴
	ImageBase64 string `json:"imageBase64"`
	MIMEType    string `json:"mimeType"`
	Language    string `json:"language"`
}
