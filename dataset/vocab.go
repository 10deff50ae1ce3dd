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

package dataset

import (
	"os"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

// VocabCap is the size of the vocabulary's index range. Up to VocabCap-1
// distinct material/usage strings get their own index; the last index,
// overflowBucket, is shared by every unseen string after that.
// Growth is strictly monotonic up to this documented cap.
const VocabCap = 4096

const overflowBucket = VocabCap - 1

// Vocab is an append-only string->index table for the low-dim embedding
// slice of the feature vector (material, usage type, and similar
// categorical fields).
type Vocab struct {
	mu      sync.Mutex
	ByTerm  map[string]int `toml:"by_term"`
	Terms   []string       `toml:"terms"`
}

func NewVocab() *Vocab {
	return &Vocab{ByTerm: make(map[string]int)}
}

// LoadVocab reads a vocab.toml side file, or returns a fresh empty vocab if
// it doesn't exist yet.
func LoadVocab(path string) (*Vocab, error) {
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return NewVocab(), nil
	}
	if err != nil {
		return nil, err
	}
	v := NewVocab()
	if err := toml.Unmarshal(b, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *Vocab) Save(path string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	b, err := toml.Marshal(v)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Index returns term's vocabulary index, appending it if this is the first
// time it's been seen and the cap hasn't been reached. Once the cap is hit,
// unseen terms map to the fixed overflow bucket instead of growing further.
func (v *Vocab) Index(term string) int {
	v.mu.Lock()
	defer v.mu.Unlock()

	if idx, ok := v.ByTerm[term]; ok {
		return idx
	}
	if len(v.Terms) >= VocabCap-1 {
		return overflowBucket
	}
	idx := len(v.Terms)
	v.Terms = append(v.Terms, term)
	v.ByTerm[term] = idx
	return idx
}
