// Copyright 2025 Binaek Sarkar
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package reason

import "time"

// Node captures a single refinement step in the classifier's reasoning
// trace. Kind is always "refinement-step" here, Op names the dominant
// comparator for that step, and Result holds the (prediction, confidence)
// pair.
type Node struct {
	Kind string `json:"kind"`
	Op   string `json:"op,omitempty"`

	Duration time.Duration `json:"duration,omitempty"`

	Meta map[string]any `json:"meta,omitempty"`

	Children []*Node `json:"children,omitempty"`

	Result any    `json:"result,omitempty"`
	Err    string `json:"err,omitempty"`
}

type DoneFn func()

func New(kind, op string, meta map[string]any) (*Node, DoneFn) {
	n := &Node{Kind: kind, Op: op, Meta: meta}
	start := time.Now()
	return n, func() {
		n.Duration = time.Since(start)
	}
}

func (n *Node) Attach(children ...*Node) *Node {
	if len(children) == 0 {
		return n
	}
	n.Children = append(n.Children, children...)
	return n
}

func (n *Node) SetResult(v any) *Node {
	n.Result = v
	return n
}

func (n *Node) SetErr(err error) *Node {
	if err != nil {
		n.Err = err.Error()
	}
	return n
}
