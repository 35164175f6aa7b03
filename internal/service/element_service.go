package service

import (
	"errors"
	"fmt"

	"chemsolver/internal/catalog"
	"chemsolver/internal/entity"
	"chemsolver/pkg/electron"
)

// ElementService 定義週期表、電子組態與學習主題的查詢
type ElementService interface {
	ListElements() []ElementCell
	GetElement(id string) (*ElementDetail, error)
	// ShellReport 計算任意電子數的殼層分布 (不限於 1~118)
	ShellReport(electronCount int) (*ShellReport, error)

	ListTopics(filter catalog.TopicFilter) []entity.Topic
	GetTopic(id string) (*entity.Topic, error)
}

type elementServiceImpl struct {
	catalog *catalog.Catalog
}

// NewElementService 建構子
func NewElementService(c *catalog.Catalog) ElementService {
	return &elementServiceImpl{catalog: c}
}

// =========================================================
// DTOs
// =========================================================

// ElementCell 是週期表上的一格
type ElementCell struct {
	entity.Element
	Position catalog.GridPosition `json:"position"`
	Color    string               `json:"color"`
}

// ElementDetail 是點開元素後的詳細資料
type ElementDetail struct {
	ElementCell
	Shells      electron.ShellDistribution `json:"shells"`
	ShellString string                     `json:"shell_string"` // "K2 L8 M1"
	Notation    string                     `json:"notation"`     // "1s2 2s2 2p6 3s1"
	Valence     int                        `json:"valence_electrons"`
	Radioactive bool                       `json:"radioactive"`
	Particles   catalog.Particles          `json:"particles"`
}

// ShellReport 是電子組態查詢的結果
type ShellReport struct {
	ElectronCount int                        `json:"electron_count"`
	Shells        electron.ShellDistribution `json:"shells"`
	Rings         []int                      `json:"rings"` // 去掉空殼層，給 Bohr 模型畫圈
	ShellString   string                     `json:"shell_string"`
	Notation      string                     `json:"notation"`
	Saturated     bool                       `json:"saturated"` // 超過表格容量，多的電子被丟棄
}

// =========================================================
// 實作
// =========================================================

func (s *elementServiceImpl) ListElements() []ElementCell {
	elements := s.catalog.Elements()
	cells := make([]ElementCell, len(elements))
	for i, e := range elements {
		cells[i] = cellOf(e)
	}
	return cells
}

func (s *elementServiceImpl) GetElement(id string) (*ElementDetail, error) {
	e, err := s.catalog.Lookup(id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, fmt.Errorf("%w: element %q", ErrNotFound, id)
		}
		return nil, err
	}

	// 原子序一定 >= 1，不會出錯
	shells, err := electron.Compute(e.Number)
	if err != nil {
		return nil, err
	}
	notation, err := electron.Notation(e.Number)
	if err != nil {
		return nil, err
	}

	return &ElementDetail{
		ElementCell: cellOf(e),
		Shells:      shells,
		ShellString: shells.String(),
		Notation:    notation,
		Valence:     electron.Valence(shells),
		Radioactive: catalog.Radioactive(e.Number),
		Particles:   catalog.ParticlesOf(e),
	}, nil
}

func (s *elementServiceImpl) ShellReport(electronCount int) (*ShellReport, error) {
	shells, err := electron.Compute(electronCount)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	notation, err := electron.Notation(electronCount)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return &ShellReport{
		ElectronCount: electronCount,
		Shells:        shells,
		Rings:         shells.NonZero(),
		ShellString:   shells.String(),
		Notation:      notation,
		Saturated:     electronCount > electron.MaxElectrons,
	}, nil
}

func (s *elementServiceImpl) ListTopics(filter catalog.TopicFilter) []entity.Topic {
	return s.catalog.Topics(filter)
}

func (s *elementServiceImpl) GetTopic(id string) (*entity.Topic, error) {
	t, err := s.catalog.Topic(id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, fmt.Errorf("%w: topic %q", ErrNotFound, id)
		}
		return nil, err
	}
	return &t, nil
}

func cellOf(e entity.Element) ElementCell {
	return ElementCell{
		Element:  e,
		Position: catalog.Position(e.Number),
		Color:    catalog.CategoryColor(e.Category, e.Symbol),
	}
}
