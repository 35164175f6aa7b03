package service

import (
	"errors"
	"strings"
)

// ErrInvalidInput 表示請求參數不合法 (Handler 轉成 400)
var ErrInvalidInput = errors.New("invalid input")

// ErrNotFound 表示找不到資源 (Handler 轉成 404)
var ErrNotFound = errors.New("not found")

// AnonymousUser 是沒有登入的共用身分。它的 XP 與解題數不寫入資料庫，避免所有訪客共用同一筆紀錄。
const AnonymousUser = "anonymous"

func isGuest(userID string) bool {
	userID = strings.TrimSpace(userID)
	return userID == "" || userID == AnonymousUser
}
