package dom

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-rod/rod"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// CDP node types used when rebuilding the tree.
const (
	cdpElementNode  = 1
	cdpTextNode     = 3
	cdpDocumentNode = 9
)

// cdpRareStrings is a sparse node-index -> string-index table.
type cdpRareStrings struct {
	Index []int `json:"index"`
	Value []int `json:"value"`
}

// cdpRareBools is a sparse set of node indexes.
type cdpRareBools struct {
	Index []int `json:"index"`
}

// cdpSnapshot mirrors the parts of DOMSnapshot.captureSnapshot we read.
type cdpSnapshot struct {
	Documents []struct {
		DocumentURL int `json:"documentURL"`
		Nodes       struct {
			ParentIndex    []int          `json:"parentIndex"`
			NodeType       []int          `json:"nodeType"`
			NodeName       []int          `json:"nodeName"`
			NodeValue      []int          `json:"nodeValue"`
			Attributes     [][]int        `json:"attributes"`
			InputValue     cdpRareStrings `json:"inputValue"`
			OptionSelected cdpRareBools   `json:"optionSelected"`
		} `json:"nodes"`
		Layout struct {
			NodeIndex []int       `json:"nodeIndex"`
			Bounds    [][]float64 `json:"bounds"`
		} `json:"layout"`
	} `json:"documents"`
	Strings []string `json:"strings"`
}

// Capture takes a one-shot snapshot of the page: the element tree, layout
// rectangles and current form state, all from a single CDP call.
func Capture(ctx context.Context, page *rod.Page) (*Snapshot, error) {
	data, err := page.Call(ctx, string(page.SessionID), "DOMSnapshot.captureSnapshot", map[string]any{
		"computedStyles":  []string{},
		"includeDOMRects": true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to capture DOM snapshot: %w", err)
	}

	url := ""
	if info, err := page.Info(); err == nil {
		url = info.URL
	}
	return ParseCDPSnapshot(data, url)
}

// ParseCDPSnapshot rebuilds a Snapshot from a DOMSnapshot.captureSnapshot
// response. Only the top-level document is used; shadow roots and frames
// are not descended into.
func ParseCDPSnapshot(data []byte, url string) (*Snapshot, error) {
	var resp cdpSnapshot
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	if len(resp.Documents) == 0 {
		return nil, fmt.Errorf("no documents in snapshot")
	}

	doc := resp.Documents[0]
	str := func(idx int) string {
		if idx >= 0 && idx < len(resp.Strings) {
			return resp.Strings[idx]
		}
		return ""
	}
	if url == "" {
		url = str(doc.DocumentURL)
	}

	nodes := doc.Nodes
	built := make([]*html.Node, len(nodes.NodeType))
	root := &html.Node{Type: html.DocumentNode}

	for i, nodeType := range nodes.NodeType {
		parentIdx := -1
		if i < len(nodes.ParentIndex) {
			parentIdx = nodes.ParentIndex[i]
		}

		if nodeType == cdpDocumentNode && parentIdx < 0 {
			built[i] = root
			continue
		}
		if parentIdx < 0 || parentIdx >= len(built) || built[parentIdx] == nil {
			continue
		}
		parent := built[parentIdx]

		switch nodeType {
		case cdpElementNode:
			name := ""
			if i < len(nodes.NodeName) {
				name = strings.ToLower(str(nodes.NodeName[i]))
			}
			// Pseudo elements are reported as element nodes named "::before" etc.
			if name == "" || strings.HasPrefix(name, "::") {
				continue
			}
			el := &html.Node{
				Type:     html.ElementNode,
				Data:     name,
				DataAtom: atom.Lookup([]byte(name)),
			}
			if i < len(nodes.Attributes) {
				pairs := nodes.Attributes[i]
				for j := 0; j+1 < len(pairs); j += 2 {
					el.Attr = append(el.Attr, html.Attribute{Key: str(pairs[j]), Val: str(pairs[j+1])})
				}
			}
			parent.AppendChild(el)
			built[i] = el
		case cdpTextNode:
			if parent.Type != html.ElementNode {
				continue
			}
			text := ""
			if i < len(nodes.NodeValue) {
				text = str(nodes.NodeValue[i])
			}
			parent.AppendChild(&html.Node{Type: html.TextNode, Data: text})
		}
	}

	snap := NewSnapshot(root, url)
	snap.live = true

	for k, nodeIdx := range doc.Layout.NodeIndex {
		if nodeIdx < 0 || nodeIdx >= len(built) || k >= len(doc.Layout.Bounds) {
			continue
		}
		el := built[nodeIdx]
		b := doc.Layout.Bounds[k]
		if el == nil || el.Type != html.ElementNode || len(b) < 4 {
			continue
		}
		if _, seen := snap.boxes[el]; seen {
			continue
		}
		snap.boxes[el] = BoundingBox{
			X:      roundHalfUp(b[0]),
			Y:      roundHalfUp(b[1]),
			Width:  roundHalfUp(b[2]),
			Height: roundHalfUp(b[3]),
		}
	}

	for k, nodeIdx := range nodes.InputValue.Index {
		if nodeIdx < 0 || nodeIdx >= len(built) || k >= len(nodes.InputValue.Value) || built[nodeIdx] == nil {
			continue
		}
		snap.values[built[nodeIdx]] = str(nodes.InputValue.Value[k])
	}
	for _, nodeIdx := range nodes.OptionSelected.Index {
		if nodeIdx >= 0 && nodeIdx < len(built) && built[nodeIdx] != nil {
			snap.selected[built[nodeIdx]] = true
		}
	}

	return snap, nil
}
