package quiz

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"

	"chemsolver/internal/entity"
)

// Generator 負責出題。不是 goroutine-safe，每一場遊戲建立一個。
type Generator struct {
	elements []entity.Element
	topics   []entity.Topic
	rng      *rand.Rand
}

// NewGenerator 建立出題器；相同的 seed 會產生相同的題目
func NewGenerator(elements []entity.Element, topics []entity.Topic, seed uint64) *Generator {
	return &Generator{
		elements: elements,
		topics:   topics,
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

var timeAttackTypes = []QuestionType{TypeSymbol, TypeName, TypeNumber, TypeCategory, TypeMass}

// Generate 依模式產生 QuestionsPerGame 題
func (g *Generator) Generate(mode Mode) ([]Question, error) {
	if _, err := ParseMode(string(mode)); err != nil {
		return nil, err
	}
	if mode == LabMaster && len(g.topics) == 0 {
		return nil, fmt.Errorf("%w: no learning topics", ErrEmptyPool)
	}
	if mode != LabMaster && len(g.elements) == 0 {
		return nil, fmt.Errorf("%w: no elements", ErrEmptyPool)
	}

	questions := make([]Question, 0, QuestionsPerGame)
	for i := 0; i < QuestionsPerGame; i++ {
		var q Question
		switch mode {
		case TimeAttack:
			q = g.elementQuestion(timeAttackTypes[g.rng.IntN(len(timeAttackTypes))])
		case NameMaster:
			q = g.elementQuestion(TypeName)
		case SymbolHunter:
			q = g.elementQuestion(TypeSymbol)
		case FamilyTruth:
			q = g.familyQuestion()
		case LabMaster:
			// 50/50 決定 化學式 -> 名稱 或 名稱 -> 化學式
			if g.rng.IntN(2) == 0 {
				q = g.topicQuestion(TypeFormulaToName)
			} else {
				q = g.topicQuestion(TypeNameToFormula)
			}
		}
		q.ID = strconv.Itoa(i)
		questions = append(questions, q)
	}
	return questions, nil
}

// -------------------------------------------------------
// 題目建構
// -------------------------------------------------------

func (g *Generator) randomElement() entity.Element {
	return g.elements[g.rng.IntN(len(g.elements))]
}

func (g *Generator) elementQuestion(t QuestionType) Question {
	el := g.randomElement()
	attr := elementAttr(t)
	correct := attr(el)

	var text string
	switch t {
	case TypeSymbol:
		text = fmt.Sprintf("What is the symbol of %s?", el.Name)
	case TypeName:
		text = fmt.Sprintf("Which element has the symbol %s?", el.Symbol)
	case TypeNumber:
		text = fmt.Sprintf("What is the atomic number of %s?", el.Name)
	case TypeCategory:
		text = fmt.Sprintf("Which family does %s belong to?", el.Name)
	case TypeMass:
		text = fmt.Sprintf("What is the approximate atomic mass of %s?", el.Name)
	}

	pool := make([]string, len(g.elements))
	for i, e := range g.elements {
		pool[i] = attr(e)
	}

	return Question{
		Type:          t,
		Text:          text,
		Options:       g.options(correct, pool),
		CorrectAnswer: correct,
	}
}

func (g *Generator) familyQuestion() Question {
	el := g.randomElement()
	stated := el.Category
	isTrue := g.rng.IntN(2) == 0

	if !isTrue {
		// 找一個不同的分類；如果全部同一類就只能出「真」的敘述
		var others []string
		seen := map[string]struct{}{el.Category: {}}
		for _, e := range g.elements {
			if _, ok := seen[e.Category]; !ok {
				seen[e.Category] = struct{}{}
				others = append(others, e.Category)
			}
		}
		if len(others) == 0 {
			isTrue = true
		} else {
			stated = others[g.rng.IntN(len(others))]
		}
	}

	answer := False
	if isTrue {
		answer = True
	}
	return Question{
		Type:          TypeBoolean,
		Text:          fmt.Sprintf("True or false: %s is a %s.", el.Name, stated),
		Options:       []string{True, False},
		CorrectAnswer: answer,
	}
}

func (g *Generator) topicQuestion(t QuestionType) Question {
	topic := g.topics[g.rng.IntN(len(g.topics))]

	var text, correct string
	pool := make([]string, len(g.topics))
	if t == TypeFormulaToName {
		text = fmt.Sprintf("What is %s?", topic.Formula)
		correct = topic.Title
		for i, tp := range g.topics {
			pool[i] = tp.Title
		}
	} else {
		text = fmt.Sprintf("What is the formula of %s?", topic.Title)
		correct = topic.Formula
		for i, tp := range g.topics {
			pool[i] = tp.Formula
		}
	}

	return Question{
		Type:          t,
		Text:          text,
		Options:       g.options(correct, pool),
		CorrectAnswer: correct,
	}
}

// options 組出 1 個正解 + 最多 3 個不重複的干擾選項並洗牌。
// 先去重再抽，所以題庫太小時選項會少於 4 個，而不會無限迴圈。
func (g *Generator) options(correct string, pool []string) []string {
	seen := map[string]struct{}{correct: {}}
	var distractors []string
	for _, v := range pool {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		distractors = append(distractors, v)
	}

	opts := []string{correct}
	for _, ix := range g.rng.Perm(len(distractors)) {
		if len(opts) >= OptionsPerQuest {
			break
		}
		opts = append(opts, distractors[ix])
	}

	g.rng.Shuffle(len(opts), func(i, j int) { opts[i], opts[j] = opts[j], opts[i] })
	return opts
}

func elementAttr(t QuestionType) func(entity.Element) string {
	switch t {
	case TypeSymbol:
		return func(e entity.Element) string { return e.Symbol }
	case TypeNumber:
		return func(e entity.Element) string { return strconv.Itoa(e.Number) }
	case TypeCategory:
		return func(e entity.Element) string { return e.Category }
	case TypeMass:
		return func(e entity.Element) string { return strconv.Itoa(int(math.Round(e.AtomicMass))) }
	default:
		return func(e entity.Element) string { return e.Name }
	}
}
