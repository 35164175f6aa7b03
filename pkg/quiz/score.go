package quiz

// Answer 是玩家對某一題的作答
type Answer struct {
	QuestionID string `json:"question_id"`
	Selected   string `json:"selected"`
}

// Result 是一場挑戰的結算
type Result struct {
	Correct      int  `json:"correct"`
	Total        int  `json:"total"`
	Score        int  `json:"score"`
	XPAwarded    int  `json:"xp_awarded"`
	PromptReview bool `json:"prompt_review"` // 表現好 (>= 50%) 時請使用者評分
}

// Score 結算答案。每題只算第一次作答，未知的題目 id 忽略。
func Score(questions []Question, answers []Answer) Result {
	byID := make(map[string]Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	res := Result{Total: len(questions)}
	answered := make(map[string]struct{}, len(answers))
	for _, a := range answers {
		q, ok := byID[a.QuestionID]
		if !ok {
			continue
		}
		if _, dup := answered[a.QuestionID]; dup {
			continue
		}
		answered[a.QuestionID] = struct{}{}
		if a.Selected == q.CorrectAnswer {
			res.Correct++
		}
	}

	res.Score = res.Correct * PointsPerCorrect
	// XP 等於分數
	res.XPAwarded = res.Score
	res.PromptReview = ShouldPromptReview(res.Score, res.Total)
	return res
}

// ShouldPromptReview reports whether the score is at least half the maximum.
func ShouldPromptReview(score, total int) bool {
	if score <= 0 || total <= 0 {
		return false
	}
	return score*100 >= total*PointsPerCorrect*50
}

// AdjustTime 回傳作答後剩下的秒數：答對 +2，答錯 -5 (不低於 0)
func AdjustTime(remaining int, correct bool) int {
	if correct {
		return remaining + CorrectBonus
	}
	return max(0, remaining-WrongPenalty)
}
