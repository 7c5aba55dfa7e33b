package stats

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/zintix-labs/scratchlab/errs"
	"gopkg.in/yaml.v3"
)

// Render 定義報表輸出行為
type Render[T any] interface {
	Write(w io.Writer, r *T) error
}

// RenderFor 依格式名稱（json / yaml）取得渲染器
func RenderFor[T any](format string) (Render[T], error) {
	switch strings.ToLower(format) {
	case "json":
		return JsonRender[T]{}, nil
	case "yaml", "yml":
		return YAMLRender[T]{}, nil
	default:
		return nil, errs.NewWithExtra(errs.Warn, "unknown report format", format)
	}
}

// Json渲染
type JsonRender[T any] struct{}

func (JsonRender[T]) Write(w io.Writer, r *T) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// YAML渲染
type YAMLRender[T any] struct{}

func (YAMLRender[T]) Write(w io.Writer, r *T) error {
	// 只有「最內層的一維陣列」輸出成 flow style：[..., ...]，外層維持展開
	return forceReadableList(w, r)
}

// YAML 內層方法
func forceReadableList[T any](w io.Writer, t *T) error {
	var node yaml.Node
	if err := node.Encode(t); err != nil {
		return err
	}

	// 自頂向下調整所有 sequence node 的 style：
	// - 若該 sequence 內部「沒有子 sequence」，代表它是最內層的一維（或本身就是一維）=> 用 flow style: [...]
	// - 若該 sequence 內部「有子 sequence 或 mapping」，代表它是外層維度 => 保持預設 block（展開）
	styleReadableSequences(&node)

	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(&node)
}

func styleReadableSequences(n *yaml.Node) {
	if n == nil {
		return
	}

	switch n.Kind {
	case yaml.DocumentNode, yaml.MappingNode:
		for _, c := range n.Content {
			styleReadableSequences(c)
		}
		return

	case yaml.SequenceNode:
		// 先判斷這個 sequence 是否包含子 sequence（代表外層維度）
		hasChildSeq := false
		for _, c := range n.Content {
			if c != nil && (c.Kind == yaml.SequenceNode || c.Kind == yaml.MappingNode) {
				hasChildSeq = true
				break
			}
		}

		// 先遞迴處理子節點（讓最內層先被標記成 flow）
		for _, c := range n.Content {
			styleReadableSequences(c)
		}

		// 最內層一維（或本身就是一維）=> flow style: [a, b, c]
		// 外層維度 => 保持預設 block style（不強制設定 style）
		if !hasChildSeq {
			n.Style = yaml.FlowStyle
		}
		return

	default:
		// Scalar / Alias 等不處理
		return
	}
}
